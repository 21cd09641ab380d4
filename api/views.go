package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
)

type playerView struct {
	ID            uint      `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Username      string    `json:"username"`
	Gold          int       `json:"gold"`
	Reputation    int       `json:"reputation"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newPlayerView(p db.Player) playerView {
	return playerView{
		ID:            p.ID,
		WalletAddress: p.WalletAddress,
		Username:      p.Username,
		Gold:          p.Gold,
		Reputation:    p.Reputation,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type mercenaryView struct {
	ID            uint      `json:"id"`
	PlayerID      uint      `json:"player_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Icon          string    `json:"icon"`
	Health        int       `json:"health"`
	CurrentHealth int       `json:"current_health"`
	Attack        int       `json:"attack"`
	Defense       int       `json:"defense"`
	Speed         int       `json:"speed"`
	Morale        int       `json:"morale"`
	Experience    int       `json:"experience"`
	Level         int       `json:"level"`
	Power         float64   `json:"power"`
	Weapon        *string   `json:"weapon"`
	Armor         *string   `json:"armor"`
	CreatedAt     time.Time `json:"created_at"`
}

func newMercenaryView(m db.Mercenary) mercenaryView {
	return mercenaryView{
		ID:            m.ID,
		PlayerID:      m.PlayerID,
		Name:          m.Name,
		Type:          m.Type,
		Icon:          m.Icon,
		Health:        m.Health,
		CurrentHealth: m.CurrentHealth,
		Attack:        m.Attack,
		Defense:       m.Defense,
		Speed:         m.Speed,
		Morale:        m.Morale,
		Experience:    m.Experience,
		Level:         game.Level(m.Experience),
		Power:         game.MercenaryPower(m),
		Weapon:        m.Weapon,
		Armor:         m.Armor,
		CreatedAt:     m.CreatedAt,
	}
}

func newMercenaryViews(ms []db.Mercenary) []mercenaryView {
	views := make([]mercenaryView, 0, len(ms))
	for i := range ms {
		views = append(views, newMercenaryView(ms[i]))
	}
	return views
}

type warbandView struct {
	Mercenaries []mercenaryView `json:"mercenaries"`
	Power       float64         `json:"power"`
}

type raidView struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Location         string          `json:"location"`
	Difficulty       string          `json:"difficulty"`
	RequiredPower    int             `json:"required_power"`
	Duration         string          `json:"duration"`
	GoldReward       int             `json:"gold_reward"`
	TonReward        decimal.Decimal `json:"ton_reward"`
	ReputationReward int             `json:"reputation_reward"`
	ExperienceReward int             `json:"experience_reward"`
	InjuryRisk       int             `json:"injury_risk"`
	DeathRisk        int             `json:"death_risk"`
	IsActive         bool            `json:"is_active"`
}

func newRaidView(r db.RaidContract) raidView {
	return raidView{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Location:         r.Location,
		Difficulty:       r.Difficulty,
		RequiredPower:    r.RequiredPower,
		Duration:         r.Duration,
		GoldReward:       r.GoldReward,
		TonReward:        r.TonReward,
		ReputationReward: r.ReputationReward,
		ExperienceReward: r.ExperienceReward,
		InjuryRisk:       r.InjuryRisk,
		DeathRisk:        r.DeathRisk,
		IsActive:         r.IsActive,
	}
}

type completedRaidView struct {
	ID               uint            `json:"id"`
	PlayerID         uint            `json:"player_id"`
	RaidID           uint            `json:"raid_id"`
	Victory          bool            `json:"victory"`
	GoldEarned       int             `json:"gold_earned"`
	TonEarned        decimal.Decimal `json:"ton_earned"`
	ReputationEarned int             `json:"reputation_earned"`
	ExperienceEarned int             `json:"experience_earned"`
	MercenariesUsed  []uint          `json:"mercenaries_used"`
	CompletedAt      time.Time       `json:"completed_at"`
}

func newCompletedRaidView(c db.CompletedRaid) completedRaidView {
	return completedRaidView{
		ID:               c.ID,
		PlayerID:         c.PlayerID,
		RaidID:           c.RaidID,
		Victory:          c.Victory,
		GoldEarned:       c.GoldEarned,
		TonEarned:        c.TonEarned,
		ReputationEarned: c.ReputationEarned,
		ExperienceEarned: c.ExperienceEarned,
		MercenariesUsed:  []uint(c.MercenariesUsed),
		CompletedAt:      c.CompletedAt,
	}
}

type rewardsView struct {
	Gold       int             `json:"gold"`
	Ton        decimal.Decimal `json:"ton"`
	Reputation int             `json:"reputation"`
	Experience int             `json:"experience"`
}

type outcomeView struct {
	Victory bool            `json:"victory"`
	Player  playerView      `json:"player"`
	Warband []mercenaryView `json:"warband"`
	Rewards rewardsView     `json:"rewards"`
}

type battleView struct {
	ID            string          `json:"id"`
	PlayerID      uint            `json:"player_id"`
	Raid          raidView        `json:"raid"`
	Fighters      []mercenaryView `json:"fighters"`
	PlayerHealth  int             `json:"player_health"`
	EnemyHealth   int             `json:"enemy_health"`
	Turn          int             `json:"turn"`
	Status        game.Status     `json:"status"`
	AwaitingEnemy bool            `json:"awaiting_enemy"`
	Log           []string        `json:"log"`
	Outcome       *outcomeView    `json:"outcome,omitempty"`
	Aborted       bool            `json:"aborted,omitempty"`
}

func newBattleView(st game.BattleState) battleView {
	v := battleView{
		ID:            st.ID,
		PlayerID:      st.PlayerID,
		Raid:          newRaidView(st.Raid),
		Fighters:      newMercenaryViews(st.Fighters),
		PlayerHealth:  st.PlayerHealth,
		EnemyHealth:   st.EnemyHealth,
		Turn:          st.Turn,
		Status:        st.Status,
		AwaitingEnemy: st.AwaitingEnemy,
		Log:           st.Log,
		Aborted:       st.Aborted,
	}

	if out := st.Outcome; out != nil {
		v.Outcome = &outcomeView{
			Victory: out.Victory,
			Player:  newPlayerView(out.Player),
			Warband: newMercenaryViews(out.Roster),
			Rewards: rewardsView{
				Gold:       out.Record.GoldEarned,
				Ton:        out.Record.TonEarned,
				Reputation: out.Record.ReputationEarned,
				Experience: out.Record.ExperienceEarned,
			},
		}
	}
	return v
}

type equipmentView struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Rarity            string          `json:"rarity"`
	AttackBonus       int             `json:"attack_bonus"`
	DefenseBonus      int             `json:"defense_bonus"`
	SpeedBonus        int             `json:"speed_bonus"`
	HealthBonus       int             `json:"health_bonus"`
	GoldCost          int             `json:"gold_cost"`
	TonCost           decimal.Decimal `json:"ton_cost"`
	CraftingMaterials any             `json:"crafting_materials"`
	IsCraftable       bool            `json:"is_craftable"`
}

func newEquipmentView(e db.Equipment) equipmentView {
	v := equipmentView{
		ID:           e.ID,
		Name:         e.Name,
		Type:         e.Type,
		Rarity:       e.Rarity,
		AttackBonus:  e.AttackBonus,
		DefenseBonus: e.DefenseBonus,
		SpeedBonus:   e.SpeedBonus,
		HealthBonus:  e.HealthBonus,
		GoldCost:     e.GoldCost,
		TonCost:      e.TonCost,
		IsCraftable:  e.IsCraftable,
	}
	if len(e.CraftingMaterials) > 0 {
		v.CraftingMaterials = e.CraftingMaterials
	}
	return v
}

type playerEquipmentView struct {
	ID          uint      `json:"id"`
	PlayerID    uint      `json:"player_id"`
	EquipmentID uint      `json:"equipment_id"`
	Quantity    int       `json:"quantity"`
	AcquiredAt  time.Time `json:"acquired_at"`
}

func newPlayerEquipmentView(pe db.PlayerEquipment) playerEquipmentView {
	return playerEquipmentView{
		ID:          pe.ID,
		PlayerID:    pe.PlayerID,
		EquipmentID: pe.EquipmentID,
		Quantity:    pe.Quantity,
		AcquiredAt:  pe.AcquiredAt,
	}
}
