package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vincent-heng/viking-warband/game/db"
)

func testRoster() []db.Mercenary {
	return []db.Mercenary{
		{Model: model(1), Health: 80, CurrentHealth: 80, Morale: 100, Experience: 10},
		{Model: model(2), Health: 90, CurrentHealth: 15, Morale: 25, Experience: 0},
		{Model: model(3), Health: 60, CurrentHealth: 0, Morale: 0, Experience: 300},
		{Model: model(4), Health: 100, CurrentHealth: 21, Morale: 31, Experience: 5},
	}
}

func testRaid() db.RaidContract {
	return db.RaidContract{
		Model:            model(9),
		GoldReward:       400,
		TonReward:        decimal.RequireFromString("0.05"),
		ReputationReward: 25,
		ExperienceReward: 100,
	}
}

func TestResolveVictory(t *testing.T) {
	player := db.Player{Model: model(5), Gold: 1000, Reputation: 3}
	roster := testRoster()
	fighters := roster[:2]

	out := ResolveOutcome(true, player, roster, testRaid(), fighters)

	require.True(t, out.Victory)
	require.Equal(t, 1400, out.Player.Gold)
	require.Equal(t, 28, out.Player.Reputation)
	require.Len(t, out.Roster, len(roster))
	for i := range roster {
		// every mercenary is rewarded, not only the fighters
		require.Equal(t, roster[i].Experience+100, out.Roster[i].Experience)
		require.Equal(t, roster[i].CurrentHealth, out.Roster[i].CurrentHealth)
		require.Equal(t, roster[i].Morale, out.Roster[i].Morale)
	}

	require.Equal(t, uint(5), out.Record.PlayerID)
	require.Equal(t, uint(9), out.Record.RaidID)
	require.True(t, out.Record.Victory)
	require.Equal(t, 400, out.Record.GoldEarned)
	require.True(t, out.Record.TonEarned.Equal(decimal.RequireFromString("0.05")))
	require.Equal(t, 25, out.Record.ReputationEarned)
	require.Equal(t, 100, out.Record.ExperienceEarned)
	require.Equal(t, []uint{1, 2}, []uint(out.Record.MercenariesUsed))

	// inputs untouched
	require.Equal(t, 10, roster[0].Experience)
	require.Equal(t, 1000, player.Gold)
}

func TestResolveDefeat(t *testing.T) {
	player := db.Player{Model: model(5), Gold: 1000, Reputation: 3}
	roster := testRoster()

	out := ResolveOutcome(false, player, roster, testRaid(), roster[:1])

	require.False(t, out.Victory)
	require.Equal(t, player.Gold, out.Player.Gold)
	require.Equal(t, player.Reputation, out.Player.Reputation)

	expected := []struct{ health, morale int }{
		{60, 70},
		{1, 0},
		{1, 0},
		{1, 1},
	}
	for i, e := range expected {
		require.Equal(t, e.health, out.Roster[i].CurrentHealth, "mercenary %d", i)
		require.Equal(t, e.morale, out.Roster[i].Morale, "mercenary %d", i)
		require.Equal(t, roster[i].Experience, out.Roster[i].Experience)
		require.GreaterOrEqual(t, out.Roster[i].CurrentHealth, 1)
	}

	require.False(t, out.Record.Victory)
	require.Zero(t, out.Record.GoldEarned)
	require.True(t, out.Record.TonEarned.IsZero())
	require.Zero(t, out.Record.ReputationEarned)
	require.Zero(t, out.Record.ExperienceEarned)
}

func TestResolveDefeatHealthyRoster(t *testing.T) {
	roster := []db.Mercenary{{Model: model(1), Health: 100, CurrentHealth: 100, Morale: 100}}

	out := ResolveOutcome(false, db.Player{}, roster, testRaid(), roster)

	require.Equal(t, 80, out.Roster[0].CurrentHealth)
	require.Equal(t, 70, out.Roster[0].Morale)
}
