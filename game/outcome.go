package game

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/vincent-heng/viking-warband/game/db"
)

const (
	defeatHealthLoss = 20
	defeatMoraleLoss = 30
	minDefeatHealth  = 1
)

// Outcome is the result of a finished battle applied to a player and the
// whole roster.
type Outcome struct {
	Victory bool
	Player  db.Player
	Roster  []db.Mercenary
	Record  db.CompletedRaid
}

// ResolveOutcome computes the new player and roster state after a battle.
// The inputs are not modified.
func ResolveOutcome(victory bool, player db.Player, roster []db.Mercenary,
	raid db.RaidContract, fighters []db.Mercenary) Outcome {
	used := make([]uint, 0, len(fighters))
	for i := range fighters {
		used = append(used, fighters[i].ID)
	}

	out := Outcome{
		Victory: victory,
		Player:  player,
		Roster:  append([]db.Mercenary(nil), roster...),
		Record: db.CompletedRaid{
			PlayerID:        player.ID,
			RaidID:          raid.ID,
			Victory:         victory,
			TonEarned:       decimal.Zero,
			MercenariesUsed: datatypes.NewJSONSlice(used),
		},
	}

	if victory {
		out.Player.Gold += raid.GoldReward
		out.Player.Reputation += raid.ReputationReward
		for i := range out.Roster {
			out.Roster[i].Experience += raid.ExperienceReward
		}

		out.Record.GoldEarned = raid.GoldReward
		out.Record.TonEarned = raid.TonReward
		out.Record.ReputationEarned = raid.ReputationReward
		out.Record.ExperienceEarned = raid.ExperienceReward
		return out
	}

	// Defeat wounds and demoralizes everyone but never kills
	for i := range out.Roster {
		m := &out.Roster[i]
		m.CurrentHealth = max(minDefeatHealth, m.CurrentHealth-defeatHealthLoss)
		m.Morale = max(0, m.Morale-defeatMoraleLoss)
	}
	return out
}

// Flush tracks the background writes of an outcome.
type Flush struct {
	done chan struct{}
	err  error
}

// Wait blocks until every write is done and returns the first failure.
func (f *Flush) Wait() error {
	<-f.done
	return f.err
}

// persistOutcome issues every write of the outcome concurrently and returns
// immediately. Failures are logged and otherwise ignored; there is no
// ordering between writes and no rollback.
func persistOutcome(ctx context.Context, store Store, out Outcome) *Flush {
	f := &Flush{done: make(chan struct{})}
	g := new(errgroup.Group)

	write := func(what string, id uint, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				log.Error().Err(err).Str("write", what).Uint("id", id).Uint("player", out.Player.ID).
					Msg("cannot persist raid outcome")
				return err
			}
			return nil
		})
	}

	// Writes are relative to the stored row: changes made meanwhile are kept
	if out.Victory {
		write("gold", out.Player.ID, func() error {
			return store.AddPlayerGold(ctx, out.Player.ID, out.Record.GoldEarned)
		})
		write("reputation", out.Player.ID, func() error {
			return store.AddPlayerReputation(ctx, out.Player.ID, out.Record.ReputationEarned)
		})
	}

	for i := range out.Roster {
		id := out.Roster[i].ID
		if out.Victory {
			write("experience", id, func() error {
				return store.AddMercenaryExperience(ctx, id, out.Record.ExperienceEarned)
			})
			continue
		}
		write("health", id, func() error {
			return store.LowerMercenaryHealth(ctx, id, defeatHealthLoss, minDefeatHealth)
		})
		write("morale", id, func() error {
			return store.LowerMercenaryMorale(ctx, id, defeatMoraleLoss, 0)
		})
	}

	record := out.Record
	write("completed_raid", out.Record.RaidID, func() error {
		return store.CompleteRaid(ctx, &record)
	})

	go func() {
		f.err = g.Wait()
		close(f.done)
	}()
	return f
}
