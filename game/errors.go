package game

import (
	"errors"

	"github.com/vincent-heng/viking-warband/game/db"
)

var (
	ErrNotFound             = db.ErrNotFound
	ErrNotEnoughGold        = db.ErrNotEnoughGold
	ErrUnknownMercenaryType = errors.New("unknown mercenary type")
	ErrUnknownAction        = errors.New("unknown combat action")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrRaidInactive         = errors.New("raid contract is not active")
	ErrInsufficientPower    = errors.New("warband power too low for this raid")
	ErrNoFighters           = errors.New("no mercenary is fit to fight")
	ErrBattleInProgress     = errors.New("a battle is already in progress")
	ErrBattleOver           = errors.New("battle is over")
	ErrTurnInFlight         = errors.New("enemy turn still in progress")
)
