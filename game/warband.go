package game

import (
	"math"

	"github.com/vincent-heng/viking-warband/game/db"
)

const (
	maxFighters       = 3
	minFightingMorale = 20
	maxMorale         = 100
)

// MercenaryPower is the contribution of one mercenary to the warband power:
// its base power scaled by its health and morale ratios.
func MercenaryPower(m db.Mercenary) float64 {
	if m.Health <= 0 {
		return 0
	}
	basePower := float64(m.Attack + m.Defense + m.Speed)
	healthRatio := float64(m.CurrentHealth) / float64(m.Health)
	moraleRatio := float64(m.Morale) / maxMorale
	return basePower * healthRatio * moraleRatio
}

// WarbandPower sums the power of every mercenary of the roster.
func WarbandPower(roster []db.Mercenary) float64 {
	total := 0.0
	for i := range roster {
		total += MercenaryPower(roster[i])
	}
	return total
}

// CanTakeRaid tells whether the roster is strong enough for the raid.
func CanTakeRaid(roster []db.Mercenary, raid db.RaidContract) bool {
	return len(roster) > 0 && WarbandPower(roster) >= float64(raid.RequiredPower)
}

// SelectForCombat picks, in roster order, up to three mercenaries still able
// to fight.
func SelectForCombat(roster []db.Mercenary) []db.Mercenary {
	selected := make([]db.Mercenary, 0, maxFighters)
	for i := range roster {
		if len(selected) == maxFighters {
			break
		}
		if roster[i].CurrentHealth > 0 && roster[i].Morale > minFightingMorale {
			selected = append(selected, roster[i])
		}
	}
	return selected
}

// Level converts accumulated experience to a level.
func Level(experience int) int {
	if experience <= 0 {
		return 1
	}
	floatExperience := float64(experience)
	floatLevel := (-1 + math.Sqrt(1+2*floatExperience/25)) / 2
	roundLevel := int(floatLevel) + 1 // 99 XP -> 0.9 floatLevel -> 1 roundLevel
	return roundLevel
}
