package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vincent-heng/viking-warband/game/db"
)

const (
	startingGold    = 1000
	startingMorale  = 100
	healCost        = 20
	healAmount      = 30
	restCost        = 10
	restAmount      = 25
	outcomeTimeout  = 30 * time.Second
	DefaultTurnBeat = 1500 * time.Millisecond
)

// Store is the persistence the game relies on. *db.DB implements it.
type Store interface {
	FetchPlayer(ctx context.Context, id uint) (db.Player, error)
	FetchPlayerByWallet(ctx context.Context, walletAddress string) (db.Player, error)
	CreatePlayer(ctx context.Context, p *db.Player) error
	UpdatePlayerGold(ctx context.Context, id uint, gold int) error
	UpdatePlayerReputation(ctx context.Context, id uint, reputation int) error
	AddPlayerGold(ctx context.Context, id uint, delta int) error
	AddPlayerReputation(ctx context.Context, id uint, delta int) error

	FetchMercenaries(ctx context.Context, playerID uint) ([]db.Mercenary, error)
	FetchMercenary(ctx context.Context, id uint) (db.Mercenary, error)
	Recruit(ctx context.Context, playerID uint, cost int, m *db.Mercenary) (db.Player, error)
	SpendOnMercenary(ctx context.Context, playerID, mercenaryID uint, cost int,
		change func(*db.Mercenary)) (db.Player, db.Mercenary, error)
	UpdateMercenaryHealth(ctx context.Context, id uint, health int) error
	UpdateMercenaryMorale(ctx context.Context, id uint, morale int) error
	UpdateMercenaryExperience(ctx context.Context, id uint, experience int) error
	AddMercenaryExperience(ctx context.Context, id uint, delta int) error
	LowerMercenaryHealth(ctx context.Context, id uint, loss, floor int) error
	LowerMercenaryMorale(ctx context.Context, id uint, loss, floor int) error

	FetchRaidContracts(ctx context.Context) ([]db.RaidContract, error)
	FetchRaidContract(ctx context.Context, id uint) (db.RaidContract, error)
	CreateRaidContract(ctx context.Context, r *db.RaidContract) error
	SeedRaidContracts(ctx context.Context, seed []db.RaidContract) ([]db.RaidContract, error)
	CompleteRaid(ctx context.Context, c *db.CompletedRaid) error
	FetchCompletedRaids(ctx context.Context, playerID uint) ([]db.CompletedRaid, error)

	FetchEquipment(ctx context.Context) ([]db.Equipment, error)
	SeedEquipment(ctx context.Context, seed []db.Equipment) ([]db.Equipment, error)
	FetchPlayerEquipment(ctx context.Context, playerID uint) ([]db.PlayerEquipment, error)
	AddPlayerEquipment(ctx context.Context, playerID, equipmentID uint, quantity int) (db.PlayerEquipment, error)
}

// BattleState is a battle snapshot with, once resolved, its outcome
type BattleState struct {
	Snapshot
	Outcome *Outcome
	// Aborted is set when the outcome could not be applied
	Aborted bool
}

type session struct {
	battle  *Battle
	outcome *Outcome
	flush   *Flush
	aborted bool
}

func (s *session) settled() bool {
	return s.outcome != nil || s.aborted
}

// Service runs the game rules on top of a Store
type Service struct {
	store Store
	delay time.Duration

	mu       sync.Mutex
	rng      *rand.Rand
	battles  map[string]*session
	byPlayer map[uint]*session
	watchers []func(BattleState)
}

// Option configures a Service
type Option func(*Service)

// WithTurnDelay sets the pause before the enemy strikes back. Zero resolves
// the enemy turn within the player action.
func WithTurnDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

// WithSeed makes every roll of the service reproducible
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec
	}
}

// New creates the game service
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		delay:    DefaultTurnBeat,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
		battles:  map[string]*session{},
		byPlayer: map[uint]*session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnRaidCompleted registers fn to be called after every applied outcome
func (s *Service) OnRaidCompleted(fn func(BattleState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

func (s *Service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Player returns the player owning walletAddress, creating it on first sight.
func (s *Service) Player(ctx context.Context, walletAddress string) (db.Player, error) {
	p, err := s.store.FetchPlayerByWallet(ctx, walletAddress)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return db.Player{}, fmt.Errorf("cannot fetch player: %w", err)
	}

	p = db.Player{
		WalletAddress: walletAddress,
		Username:      "Viking_" + strconv.Itoa(s.intn(10000)),
		Gold:          startingGold,
	}
	if err := s.store.CreatePlayer(ctx, &p); err != nil {
		// somebody else may have created it meanwhile
		if existing, e := s.store.FetchPlayerByWallet(ctx, walletAddress); e == nil {
			return existing, nil
		}
		return db.Player{}, fmt.Errorf("cannot create player: %w", err)
	}

	log.Info().Uint("player", p.ID).Str("wallet", walletAddress).Msg("new player")
	return p, nil
}

func (s *Service) FetchPlayer(ctx context.Context, id uint) (db.Player, error) {
	return s.store.FetchPlayer(ctx, id)
}

func (s *Service) Roster(ctx context.Context, playerID uint) ([]db.Mercenary, error) {
	if _, err := s.store.FetchPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return s.store.FetchMercenaries(ctx, playerID)
}

// Recruit hires a mercenary of the given archetype if the player can afford it.
func (s *Service) Recruit(ctx context.Context, playerID uint, typeID, customName string) (db.Player, db.Mercenary, error) {
	t, ok := FindMercenaryType(typeID)
	if !ok {
		return db.Player{}, db.Mercenary{}, ErrUnknownMercenaryType
	}

	if err := s.awaitWrites(ctx, playerID); err != nil {
		return db.Player{}, db.Mercenary{}, err
	}

	name := customName
	if name == "" {
		name = t.Name + " " + strconv.Itoa(s.intn(1000))
	}

	m := db.Mercenary{
		Name:          name,
		Type:          t.Name,
		Icon:          t.Icon,
		Health:        t.BaseStats.Health,
		CurrentHealth: t.BaseStats.Health,
		Attack:        t.BaseStats.Attack,
		Defense:       t.BaseStats.Defense,
		Speed:         t.BaseStats.Speed,
		Morale:        startingMorale,
	}

	p, err := s.store.Recruit(ctx, playerID, t.GoldCost, &m)
	if err != nil {
		return db.Player{}, db.Mercenary{}, fmt.Errorf("cannot recruit %s: %w", t.ID, err)
	}

	log.Debug().Uint("player", playerID).Uint("mercenary", m.ID).Str("type", t.ID).Msg("mercenary recruited")
	return p, m, nil
}

// Heal restores some health of a mercenary for a fee.
func (s *Service) Heal(ctx context.Context, playerID, mercenaryID uint) (db.Player, db.Mercenary, error) {
	if err := s.awaitWrites(ctx, playerID); err != nil {
		return db.Player{}, db.Mercenary{}, err
	}
	return s.store.SpendOnMercenary(ctx, playerID, mercenaryID, healCost, func(m *db.Mercenary) {
		m.CurrentHealth = min(m.Health, m.CurrentHealth+healAmount)
	})
}

// Rest restores some morale of a mercenary for a fee.
func (s *Service) Rest(ctx context.Context, playerID, mercenaryID uint) (db.Player, db.Mercenary, error) {
	if err := s.awaitWrites(ctx, playerID); err != nil {
		return db.Player{}, db.Mercenary{}, err
	}
	return s.store.SpendOnMercenary(ctx, playerID, mercenaryID, restCost, func(m *db.Mercenary) {
		m.Morale = min(maxMorale, m.Morale+restAmount)
	})
}

func (s *Service) SetGold(ctx context.Context, playerID uint, gold int) error {
	if gold < 0 {
		return ErrInvalidAmount
	}
	if err := s.awaitWrites(ctx, playerID); err != nil {
		return err
	}
	return s.store.UpdatePlayerGold(ctx, playerID, gold)
}

func (s *Service) SetReputation(ctx context.Context, playerID uint, reputation int) error {
	if reputation < 0 {
		return ErrInvalidAmount
	}
	if err := s.awaitWrites(ctx, playerID); err != nil {
		return err
	}
	return s.store.UpdatePlayerReputation(ctx, playerID, reputation)
}

func (s *Service) SetMercenaryHealth(ctx context.Context, mercenaryID uint, health int) error {
	m, err := s.store.FetchMercenary(ctx, mercenaryID)
	if err != nil {
		return err
	}
	if health < 0 || health > m.Health {
		return ErrInvalidAmount
	}
	return s.store.UpdateMercenaryHealth(ctx, mercenaryID, health)
}

func (s *Service) SetMercenaryMorale(ctx context.Context, mercenaryID uint, morale int) error {
	if morale < 0 || morale > maxMorale {
		return ErrInvalidAmount
	}
	return s.store.UpdateMercenaryMorale(ctx, mercenaryID, morale)
}

func (s *Service) SetMercenaryExperience(ctx context.Context, mercenaryID uint, experience int) error {
	if experience < 0 {
		return ErrInvalidAmount
	}
	return s.store.UpdateMercenaryExperience(ctx, mercenaryID, experience)
}

// Raids lists the active contracts, seeding the catalog on first use.
func (s *Service) Raids(ctx context.Context) ([]db.RaidContract, error) {
	raids, err := s.store.FetchRaidContracts(ctx)
	if err != nil {
		return nil, err
	}
	if len(raids) > 0 {
		return raids, nil
	}

	log.Info().Msg("seeding raid contracts")
	return s.store.SeedRaidContracts(ctx, DefaultRaids())
}

// AddRaid publishes a new contract
func (s *Service) AddRaid(ctx context.Context, r *db.RaidContract) error {
	if r.Title == "" || r.RequiredPower < 0 || r.GoldReward < 0 ||
		r.ReputationReward < 0 || r.ExperienceReward < 0 || r.TonReward.IsNegative() {
		return ErrInvalidAmount
	}
	r.IsActive = true
	return s.store.CreateRaidContract(ctx, r)
}

func (s *Service) History(ctx context.Context, playerID uint) ([]db.CompletedRaid, error) {
	return s.store.FetchCompletedRaids(ctx, playerID)
}

// Equipment lists the catalog, seeding it on first use like the raids.
func (s *Service) Equipment(ctx context.Context) ([]db.Equipment, error) {
	catalog, err := s.store.FetchEquipment(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) > 0 {
		return catalog, nil
	}

	log.Info().Msg("seeding equipment catalog")
	return s.store.SeedEquipment(ctx, DefaultEquipment())
}

func (s *Service) PlayerEquipment(ctx context.Context, playerID uint) ([]db.PlayerEquipment, error) {
	return s.store.FetchPlayerEquipment(ctx, playerID)
}

func (s *Service) GrantEquipment(ctx context.Context, playerID, equipmentID uint, quantity int) (db.PlayerEquipment, error) {
	if quantity <= 0 {
		return db.PlayerEquipment{}, ErrInvalidAmount
	}
	if _, err := s.Equipment(ctx); err != nil {
		return db.PlayerEquipment{}, err
	}
	return s.store.AddPlayerEquipment(ctx, playerID, equipmentID, quantity)
}

// StartRaid sends up to three fit mercenaries of the player against the raid.
func (s *Service) StartRaid(ctx context.Context, playerID, raidID uint) (BattleState, error) {
	if err := s.awaitWrites(ctx, playerID); err != nil {
		return BattleState{}, err
	}

	raid, err := s.store.FetchRaidContract(ctx, raidID)
	if err != nil {
		return BattleState{}, fmt.Errorf("cannot load raid: %w", err)
	}
	if !raid.IsActive {
		return BattleState{}, ErrRaidInactive
	}

	roster, err := s.Roster(ctx, playerID)
	if err != nil {
		return BattleState{}, fmt.Errorf("cannot load warband: %w", err)
	}

	if !CanTakeRaid(roster, raid) {
		return BattleState{}, ErrInsufficientPower
	}

	fighters := SelectForCombat(roster)
	if len(fighters) == 0 {
		return BattleState{}, ErrNoFighters
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.byPlayer[playerID]; ok {
		if !previous.settled() {
			return BattleState{}, ErrBattleInProgress
		}
		delete(s.battles, previous.battle.ID())
	}

	id := uuid.New().String()
	rng := rand.New(rand.NewSource(s.rng.Int63())) //nolint:gosec
	b := NewBattle(id, playerID, raid, fighters, rng, s.delay, s.resolve)

	sess := &session{battle: b}
	s.battles[id] = sess
	s.byPlayer[playerID] = sess

	log.Debug().Str("battle", id).Uint("player", playerID).Uint("raid", raidID).
		Int("fighters", len(fighters)).Msg("raid started")

	return BattleState{Snapshot: b.Snapshot()}, nil
}

// Act plays the warband's action in a battle.
func (s *Service) Act(ctx context.Context, battleID string, action Action) (BattleState, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleState{}, err
	}

	if _, err := sess.battle.Perform(action); err != nil {
		return BattleState{}, err
	}
	return s.Battle(ctx, battleID)
}

// Battle returns the current state of a battle.
func (s *Service) Battle(_ context.Context, battleID string) (BattleState, error) {
	sess, err := s.session(battleID)
	if err != nil {
		return BattleState{}, err
	}

	snap := sess.battle.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	return BattleState{Snapshot: snap, Outcome: sess.outcome, Aborted: sess.aborted}, nil
}

// ActiveBattle returns the battle a player is currently engaged in.
func (s *Service) ActiveBattle(ctx context.Context, playerID uint) (BattleState, error) {
	s.mu.Lock()
	sess, ok := s.byPlayer[playerID]
	s.mu.Unlock()
	if !ok {
		return BattleState{}, ErrNotFound
	}
	return s.Battle(ctx, sess.battle.ID())
}

// Flush returns the pending writes of a resolved battle, nil otherwise.
func (s *Service) Flush(battleID string) *Flush {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.battles[battleID]; ok {
		return sess.flush
	}
	return nil
}

// awaitWrites blocks until the outcome writes of the player's last battle are
// done, so that the next change starts from the rewarded rows. Failed writes
// are already logged by the flush.
func (s *Service) awaitWrites(ctx context.Context, playerID uint) error {
	s.mu.Lock()
	var flush *Flush
	if sess, ok := s.byPlayer[playerID]; ok {
		flush = sess.flush
	}
	s.mu.Unlock()
	if flush == nil {
		return nil
	}

	select {
	case <-flush.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) session(battleID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.battles[battleID]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// resolve applies the outcome of a finished battle. The new state is kept in
// memory right away while the writes run in the background.
func (s *Service) resolve(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), outcomeTimeout)

	out, err := s.loadOutcome(ctx, snap)
	if err != nil {
		cancel()
		log.Error().Err(err).Str("battle", snap.ID).Uint("player", snap.PlayerID).
			Msg("cannot apply raid outcome, dropping battle")
		s.mu.Lock()
		if sess, ok := s.battles[snap.ID]; ok {
			sess.aborted = true
		}
		s.mu.Unlock()
		return
	}

	flush := persistOutcome(ctx, s.store, out)
	go func() {
		flush.Wait() //nolint:errcheck
		cancel()
	}()

	s.mu.Lock()
	sess, ok := s.battles[snap.ID]
	if ok {
		sess.outcome = &out
		sess.flush = flush
	}
	watchers := append([]func(BattleState){}, s.watchers...)
	s.mu.Unlock()

	log.Info().Str("battle", snap.ID).Uint("player", snap.PlayerID).Uint("raid", snap.Raid.ID).
		Bool("victory", out.Victory).Msg("raid completed")

	state := BattleState{Snapshot: snap, Outcome: &out}
	for _, fn := range watchers {
		fn(state)
	}
}

func (s *Service) loadOutcome(ctx context.Context, snap Snapshot) (Outcome, error) {
	player, err := s.store.FetchPlayer(ctx, snap.PlayerID)
	if err != nil {
		return Outcome{}, fmt.Errorf("cannot load player: %w", err)
	}

	raid, err := s.store.FetchRaidContract(ctx, snap.Raid.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("cannot load raid: %w", err)
	}

	roster, err := s.store.FetchMercenaries(ctx, snap.PlayerID)
	if err != nil {
		return Outcome{}, fmt.Errorf("cannot load warband: %w", err)
	}

	return ResolveOutcome(snap.Victory(), player, roster, raid, snap.Fighters), nil
}
