package game

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/vincent-heng/viking-warband/game/db"
)

// Stats are the base attributes of a mercenary archetype
type Stats struct {
	Health  int `json:"health"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// MercenaryType is a recruitable archetype
type MercenaryType struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Description string          `json:"description"`
	BaseStats   Stats           `json:"baseStats"`
	Abilities   []string        `json:"abilities"`
	GoldCost    int             `json:"goldCost"`
	TonCost     decimal.Decimal `json:"tonCost"`
}

// MercenaryTypes is the fixed recruitment catalog
var MercenaryTypes = []MercenaryType{ //nolint:gochecknoglobals
	{
		ID:          "berserker",
		Name:        "Berserker",
		Icon:        "🪓",
		Description: "Fearless warriors who enter a battle rage, dealing massive damage but vulnerable to attacks.",
		BaseStats:   Stats{Health: 80, Attack: 90, Defense: 40, Speed: 70},
		Abilities:   []string{"Battle Rage", "Fearless", "Two-Handed Weapons"},
		GoldCost:    150,
		TonCost:     decimal.Zero,
	},
	{
		ID:          "shieldmaiden",
		Name:        "Shield-maiden",
		Icon:        "🛡️",
		Description: "Elite female warriors skilled in both offense and defense, masters of shield combat.",
		BaseStats:   Stats{Health: 90, Attack: 70, Defense: 85, Speed: 60},
		Abilities:   []string{"Shield Wall", "Defensive Stance", "Combat Training"},
		GoldCost:    180,
		TonCost:     decimal.Zero,
	},
	{
		ID:          "archer",
		Name:        "Norse Archer",
		Icon:        "🏹",
		Description: "Expert marksmen who can strike enemies from a distance with deadly precision.",
		BaseStats:   Stats{Health: 60, Attack: 85, Defense: 30, Speed: 90},
		Abilities:   []string{"Long Range", "Precise Shot", "Quick Draw"},
		GoldCost:    120,
		TonCost:     decimal.Zero,
	},
	{
		ID:          "huscarl",
		Name:        "Huscarl",
		Icon:        "⚔️",
		Description: "Elite household guards of Viking lords, heavily armored and expertly trained.",
		BaseStats:   Stats{Health: 100, Attack: 80, Defense: 90, Speed: 50},
		Abilities:   []string{"Heavy Armor", "Leadership", "Weapon Master"},
		GoldCost:    250,
		TonCost:     decimal.RequireFromString("0.1"),
	},
	{
		ID:          "skald",
		Name:        "Skald",
		Icon:        "🎵",
		Description: "Warrior-poets who inspire allies with tales of heroism and boost morale.",
		BaseStats:   Stats{Health: 70, Attack: 50, Defense: 60, Speed: 80},
		Abilities:   []string{"Inspire", "Morale Boost", "Battle Songs"},
		GoldCost:    200,
		TonCost:     decimal.Zero,
	},
	{
		ID:          "jarl",
		Name:        "Jarl",
		Icon:        "👑",
		Description: "Noble Viking leaders with exceptional combat skills and command presence.",
		BaseStats:   Stats{Health: 120, Attack: 95, Defense: 85, Speed: 70},
		Abilities:   []string{"Command", "Noble Blood", "Master Warrior", "Tactical Genius"},
		GoldCost:    500,
		TonCost:     decimal.RequireFromString("0.5"),
	},
}

// FindMercenaryType looks an archetype up by id
func FindMercenaryType(id string) (MercenaryType, bool) {
	for _, t := range MercenaryTypes {
		if t.ID == id {
			return t, true
		}
	}
	return MercenaryType{}, false
}

// DefaultRaids returns the contracts seeded into an empty raid table.
func DefaultRaids() []db.RaidContract {
	return []db.RaidContract{
		{
			Title:            "Merchant Caravan Raid",
			Description:      "A wealthy merchant caravan travels the trade routes. Easy pickings for seasoned warriors.",
			Location:         "Trade Route near Hedeby",
			Difficulty:       "Easy",
			RequiredPower:    150,
			Duration:         "2 hours",
			GoldReward:       200,
			TonReward:        decimal.Zero,
			ReputationReward: 10,
			ExperienceReward: 50,
			InjuryRisk:       15,
			DeathRisk:        2,
			IsActive:         true,
		},
		{
			Title:            "Saxon Village Raid",
			Description:      "A prosperous Saxon village ripe for plunder. Expect moderate resistance from local militia.",
			Location:         "Wessex Borderlands",
			Difficulty:       "Medium",
			RequiredPower:    250,
			Duration:         "4 hours",
			GoldReward:       400,
			TonReward:        decimal.RequireFromString("0.05"),
			ReputationReward: 25,
			ExperienceReward: 100,
			InjuryRisk:       30,
			DeathRisk:        8,
			IsActive:         true,
		},
		{
			Title:            "Monastery Assault",
			Description:      "A wealthy monastery holds great treasures. Heavily defended by warrior monks.",
			Location:         "Lindisfarne Abbey",
			Difficulty:       "Hard",
			RequiredPower:    400,
			Duration:         "6 hours",
			GoldReward:       800,
			TonReward:        decimal.RequireFromString("0.1"),
			ReputationReward: 50,
			ExperienceReward: 200,
			InjuryRisk:       45,
			DeathRisk:        15,
			IsActive:         true,
		},
		{
			Title:            "Rival Warband Battle",
			Description:      "Challenge a rival Viking warband for territory and honor. Only the strongest will survive.",
			Location:         "Disputed Territory",
			Difficulty:       "Hard",
			RequiredPower:    350,
			Duration:         "3 hours",
			GoldReward:       600,
			TonReward:        decimal.RequireFromString("0.08"),
			ReputationReward: 75,
			ExperienceReward: 250,
			InjuryRisk:       50,
			DeathRisk:        20,
			IsActive:         true,
		},
		{
			Title:            "Frankish Fortress Siege",
			Description:      "Lay siege to a heavily fortified Frankish stronghold. Fame and fortune await the victorious.",
			Location:         "Northern Francia",
			Difficulty:       "Legendary",
			RequiredPower:    600,
			Duration:         "12 hours",
			GoldReward:       1500,
			TonReward:        decimal.RequireFromString("0.3"),
			ReputationReward: 100,
			ExperienceReward: 400,
			InjuryRisk:       60,
			DeathRisk:        25,
			IsActive:         true,
		},
		{
			Title:            "Dragon's Hoard Expedition",
			Description:      "Legends speak of a dragon's treasure hoard hidden in the northern mountains. Only the bravest dare attempt this quest.",
			Location:         "Frozen Northern Peaks",
			Difficulty:       "Legendary",
			RequiredPower:    800,
			Duration:         "24 hours",
			GoldReward:       2000,
			TonReward:        decimal.RequireFromString("0.5"),
			ReputationReward: 150,
			ExperienceReward: 500,
			InjuryRisk:       70,
			DeathRisk:        35,
			IsActive:         true,
		},
	}
}

// DefaultEquipment returns the items seeded into an empty equipment catalog.
func DefaultEquipment() []db.Equipment {
	return []db.Equipment{
		{
			Name:              "Bearded Axe",
			Type:              "weapon",
			Rarity:            "common",
			AttackBonus:       5,
			GoldCost:          60,
			TonCost:           decimal.Zero,
			IsCraftable:       true,
			CraftingMaterials: datatypes.JSON(`{"iron": 2, "wood": 1}`),
		},
		{
			Name:              "Round Shield",
			Type:              "armor",
			Rarity:            "common",
			DefenseBonus:      5,
			GoldCost:          50,
			TonCost:           decimal.Zero,
			IsCraftable:       true,
			CraftingMaterials: datatypes.JSON(`{"wood": 3, "leather": 1}`),
		},
		{
			Name:         "Chainmail Byrnie",
			Type:         "armor",
			Rarity:       "rare",
			DefenseBonus: 12,
			HealthBonus:  20,
			SpeedBonus:   -2,
			GoldCost:     250,
			TonCost:      decimal.Zero,
		},
		{
			Name:        "Ulfberht Sword",
			Type:        "weapon",
			Rarity:      "epic",
			AttackBonus: 15,
			SpeedBonus:  2,
			GoldCost:    600,
			TonCost:     decimal.RequireFromString("0.05"),
		},
		{
			Name:              "Gungnir Spear",
			Type:              "weapon",
			Rarity:            "legendary",
			AttackBonus:       25,
			SpeedBonus:        5,
			GoldCost:          1500,
			TonCost:           decimal.RequireFromString("0.2"),
			IsCraftable:       true,
			CraftingMaterials: datatypes.JSON(`{"meteoric_iron": 1, "ash_wood": 2, "runestone": 3}`),
		},
	}
}
