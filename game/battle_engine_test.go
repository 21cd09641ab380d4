package game

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vincent-heng/viking-warband/game/db"
)

func newTestBattle(seed int64, delay time.Duration, onOver func(Snapshot)) *Battle {
	raid := db.RaidContract{Title: "Merchant Caravan Raid"}
	fighters := []db.Mercenary{{Model: model(1), CurrentHealth: 80, Morale: 100}}
	return NewBattle("b-1", 7, raid, fighters, rand.New(rand.NewSource(seed)), delay, onOver)
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"attack", " Defend ", "SPECIAL"} {
		_, err := ParseAction(s)
		require.NoError(t, err, s)
	}

	_, err := ParseAction("flee")
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestDamageRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for action, r := range actionDamage {
		for i := 0; i < 1000; i++ {
			d := r.roll(rng)
			require.GreaterOrEqual(t, d, r.min, action)
			require.Less(t, d, r.max, action)
		}
	}
	require.Equal(t, damageRange{15, 40}, actionDamage[ActionAttack])
	require.Equal(t, damageRange{5, 15}, actionDamage[ActionDefend])
	require.Equal(t, damageRange{20, 55}, actionDamage[ActionSpecial])
	require.Equal(t, damageRange{10, 30}, enemyDamage)
}

func TestBattleStartsFresh(t *testing.T) {
	snap := newTestBattle(1, 0, nil).Snapshot()

	require.Equal(t, 100, snap.PlayerHealth)
	require.Equal(t, 100, snap.EnemyHealth)
	require.Equal(t, StatusActive, snap.Status)
	require.Equal(t, 0, snap.Turn)
	require.Equal(t, []string{"Raid begins: Merchant Caravan Raid!"}, snap.Log)
}

func TestBattleAlwaysTerminates(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		var calls int32
		b := newTestBattle(seed, 0, func(Snapshot) { atomic.AddInt32(&calls, 1) })

		actions := []Action{ActionAttack, ActionDefend, ActionSpecial}
		snap := b.Snapshot()
		var err error
		for i := 0; !snap.Over(); i++ {
			// the enemy deals at least 10 per turn, the warband falls by turn 10
			require.Less(t, i, 10, "seed %d", seed)
			snap, err = b.Perform(actions[i%len(actions)])
			require.NoError(t, err)
		}

		require.Equal(t, int32(1), atomic.LoadInt32(&calls), "seed %d", seed)
		if snap.Victory() {
			require.Equal(t, 0, snap.EnemyHealth)
			require.Greater(t, snap.PlayerHealth, 0)
		} else {
			require.Equal(t, StatusDefeat, snap.Status)
			require.Equal(t, 0, snap.PlayerHealth)
			require.Greater(t, snap.EnemyHealth, 0)
		}

		_, err = b.Perform(ActionAttack)
		require.ErrorIs(t, err, ErrBattleOver)
	}
}

func TestBattleVictorySkipsEnemyTurn(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		b := newTestBattle(seed, 0, nil)
		snap := b.Snapshot()
		for !snap.Over() {
			before := b.Snapshot()
			var err error
			snap, err = b.Perform(ActionSpecial)
			require.NoError(t, err)

			if snap.Victory() {
				require.Equal(t, before.PlayerHealth, snap.PlayerHealth)
				require.Equal(t, before.Turn, snap.Turn)
			}
		}
	}
}

func TestBattleRejectsActionWhileEnemyActs(t *testing.T) {
	done := make(chan Snapshot, 1)
	b := newTestBattle(3, 20*time.Millisecond, func(s Snapshot) { done <- s })

	snap, err := b.Perform(ActionDefend)
	require.NoError(t, err)
	require.True(t, snap.AwaitingEnemy)
	require.Equal(t, 100, snap.PlayerHealth)

	_, err = b.Perform(ActionAttack)
	require.ErrorIs(t, err, ErrTurnInFlight)

	require.Eventually(t, func() bool {
		s := b.Snapshot()
		return !s.AwaitingEnemy && s.Turn == 1
	}, time.Second, 5*time.Millisecond)

	snap = b.Snapshot()
	require.Less(t, snap.PlayerHealth, 100)
	require.GreaterOrEqual(t, snap.PlayerHealth, 100-29)

	// the enemy has taken a single defend, the fight goes on
	_, err = b.Perform(ActionAttack)
	require.NoError(t, err)
}

func TestBattleUnknownAction(t *testing.T) {
	b := newTestBattle(1, 0, nil)
	_, err := b.Perform(Action("flee"))
	require.ErrorIs(t, err, ErrUnknownAction)
	require.Equal(t, 100, b.Snapshot().EnemyHealth)
}
