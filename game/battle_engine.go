package game

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vincent-heng/viking-warband/game/db"
)

// Action is what the warband does during its turn
type Action string

const (
	ActionAttack  Action = "attack"
	ActionDefend  Action = "defend"
	ActionSpecial Action = "special"
)

// Status of a battle
type Status string

const (
	StatusActive  Status = "active"
	StatusVictory Status = "victory"
	StatusDefeat  Status = "defeat"
)

const startingHealth = 100

// damageRange is a half-open [min, max) interval of damage
type damageRange struct {
	min int
	max int
}

func (d damageRange) roll(rng *rand.Rand) int {
	return d.min + rng.Intn(d.max-d.min)
}

var (
	actionDamage = map[Action]damageRange{ //nolint:gochecknoglobals
		ActionAttack:  {15, 40},
		ActionDefend:  {5, 15},
		ActionSpecial: {20, 55},
	}
	enemyDamage = damageRange{10, 30} //nolint:gochecknoglobals
)

// ParseAction validates a player supplied action name
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := actionDamage[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

// Snapshot is a copy of a battle state
type Snapshot struct {
	ID            string
	PlayerID      uint
	Raid          db.RaidContract
	Fighters      []db.Mercenary
	PlayerHealth  int
	EnemyHealth   int
	Turn          int
	Status        Status
	AwaitingEnemy bool
	Log           []string
	StartedAt     time.Time
}

// Over tells whether the battle reached a terminal state
func (s Snapshot) Over() bool {
	return s.Status != StatusActive
}

// Victory tells whether the warband won
func (s Snapshot) Victory() bool {
	return s.Status == StatusVictory
}

// Battle is a turn based fight between the selected mercenaries, sharing a
// single health pool, and an abstract enemy. After each player action that
// does not end the fight, the enemy strikes back once delay has elapsed; no
// other action is accepted in between.
type Battle struct {
	mu sync.Mutex

	id       string
	playerID uint
	raid     db.RaidContract
	fighters []db.Mercenary
	started  time.Time

	playerHealth int
	enemyHealth  int
	turn         int
	status       Status
	pending      bool
	log          []string

	rng    *rand.Rand
	delay  time.Duration
	onOver func(Snapshot)
}

// NewBattle starts a battle. onOver, if set, is called once, outside of any
// lock, when the battle ends.
func NewBattle(id string, playerID uint, raid db.RaidContract, fighters []db.Mercenary,
	rng *rand.Rand, delay time.Duration, onOver func(Snapshot)) *Battle {
	return &Battle{
		id:           id,
		playerID:     playerID,
		raid:         raid,
		fighters:     fighters,
		started:      time.Now(),
		playerHealth: startingHealth,
		enemyHealth:  startingHealth,
		status:       StatusActive,
		log:          []string{"Raid begins: " + raid.Title + "!"},
		rng:          rng,
		delay:        delay,
		onOver:       onOver,
	}
}

func (b *Battle) ID() string {
	return b.id
}

// Snapshot returns a copy of the current state
func (b *Battle) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Battle) snapshot() Snapshot {
	return Snapshot{
		ID:            b.id,
		PlayerID:      b.playerID,
		Raid:          b.raid,
		Fighters:      append([]db.Mercenary(nil), b.fighters...),
		PlayerHealth:  b.playerHealth,
		EnemyHealth:   b.enemyHealth,
		Turn:          b.turn,
		Status:        b.status,
		AwaitingEnemy: b.pending,
		Log:           append([]string(nil), b.log...),
		StartedAt:     b.started,
	}
}

// Perform resolves the warband's action for the current turn.
func (b *Battle) Perform(action Action) (Snapshot, error) {
	dmg, ok := actionDamage[action]
	if !ok {
		return Snapshot{}, ErrUnknownAction
	}

	b.mu.Lock()
	if b.status != StatusActive {
		b.mu.Unlock()
		return Snapshot{}, ErrBattleOver
	}
	if b.pending {
		b.mu.Unlock()
		return Snapshot{}, ErrTurnInFlight
	}

	damage := dmg.roll(b.rng)
	b.enemyHealth = max(0, b.enemyHealth-damage)
	b.log = append(b.log, writeActionReport(action, damage))

	if b.enemyHealth == 0 {
		b.status = StatusVictory
		b.log = append(b.log, "Victory! The enemies are defeated!")
		return b.finish()
	}

	b.pending = true
	if b.delay <= 0 {
		b.resolveEnemyTurn()
		if b.status != StatusActive {
			return b.finish()
		}
		snap := b.snapshot()
		b.mu.Unlock()
		return snap, nil
	}

	snap := b.snapshot()
	b.mu.Unlock()
	time.AfterFunc(b.delay, b.enemyTurn)
	return snap, nil
}

// finish must be called with b.mu held, it releases it.
func (b *Battle) finish() (Snapshot, error) {
	snap := b.snapshot()
	b.mu.Unlock()

	if b.onOver != nil {
		b.onOver(snap)
	}
	return snap, nil
}

func (b *Battle) enemyTurn() {
	b.mu.Lock()
	b.resolveEnemyTurn()
	if b.status != StatusActive {
		b.finish() //nolint:errcheck
		return
	}
	b.mu.Unlock()
}

func (b *Battle) resolveEnemyTurn() {
	damage := enemyDamage.roll(b.rng)
	b.playerHealth = max(0, b.playerHealth-damage)
	b.log = append(b.log, "Enemies strike back for "+strconv.Itoa(damage)+" damage!")

	if b.playerHealth == 0 {
		b.status = StatusDefeat
		b.log = append(b.log, "Defeat! Your warriors have fallen...")
	}

	b.turn++
	b.pending = false
}

func writeActionReport(action Action, damage int) string {
	switch action {
	case ActionDefend:
		return "Your warriors defend, dealing " + strconv.Itoa(damage) + " counter damage!"
	case ActionSpecial:
		return "Your warriors unleash a special attack for " + strconv.Itoa(damage) + " damage!"
	default:
		return "Your warriors attack for " + strconv.Itoa(damage) + " damage!"
	}
}
