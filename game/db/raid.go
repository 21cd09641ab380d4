package db

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RaidContract is a raid offered to every warband
type RaidContract struct {
	gorm.Model
	Title            string          `gorm:"not null"`
	Description      string          `gorm:"not null"`
	Location         string          `gorm:"not null"`
	Difficulty       string          `gorm:"not null"`
	RequiredPower    int             `gorm:"not null"`
	Duration         string          `gorm:"not null"`
	GoldReward       int             `gorm:"not null"`
	TonReward        decimal.Decimal `gorm:"type:numeric(20,9);not null"`
	ReputationReward int             `gorm:"not null"`
	ExperienceReward int             `gorm:"not null"`
	// InjuryRisk and DeathRisk are percentages shown to players only
	InjuryRisk int  `gorm:"not null"`
	DeathRisk  int  `gorm:"not null"`
	IsActive   bool `gorm:"index;not null"`
}

func (r RaidContract) String() string {
	str := "#" + strconv.FormatUint(uint64(r.ID), 10) + " **" + r.Title + "** (" + r.Difficulty + ") - " +
		"puissance requise " + strconv.Itoa(r.RequiredPower) + ", " +
		strconv.Itoa(r.GoldReward) + " or, " +
		strconv.Itoa(r.ReputationReward) + " réputation, " +
		strconv.Itoa(r.ExperienceReward) + " XP"
	if r.TonReward.IsPositive() {
		str += ", " + r.TonReward.String() + " TON"
	}
	return str + "\n"
}

// CompletedRaid is the append-only record of a raid attempt
type CompletedRaid struct {
	ID               uint                      `gorm:"primarykey"`
	PlayerID         uint                      `gorm:"index;not null"`
	RaidID           uint                      `gorm:"not null"`
	Victory          bool                      `gorm:"not null"`
	GoldEarned       int                       `gorm:"not null"`
	TonEarned        decimal.Decimal           `gorm:"type:numeric(20,9);not null"`
	ReputationEarned int                       `gorm:"not null"`
	ExperienceEarned int                       `gorm:"not null"`
	MercenariesUsed  datatypes.JSONSlice[uint] `gorm:"not null"`
	CompletedAt      time.Time                 `gorm:"autoCreateTime"`
}

// FetchRaidContracts returns the active contracts
func (db *DB) FetchRaidContracts(ctx context.Context) (rs []RaidContract, e error) {
	e = db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&rs).Error
	return
}

func (db *DB) FetchRaidContract(ctx context.Context, id uint) (r RaidContract, e error) {
	e = notFound(db.WithContext(ctx).First(&r, id).Error)
	return
}

func (db *DB) CreateRaidContract(ctx context.Context, r *RaidContract) error {
	return db.WithContext(ctx).Create(r).Error
}

// SeedRaidContracts inserts seed when no contract exists yet and returns the
// active contracts.
func (db *DB) SeedRaidContracts(ctx context.Context, seed []RaidContract) ([]RaidContract, error) {
	tx := db.Begin(ctx)
	defer tx.Rollback()

	var count int64
	if err := tx.Model(&RaidContract{}).Count(&count).Error; err != nil {
		return nil, err
	}

	if count == 0 && len(seed) > 0 {
		if err := tx.Create(&seed).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return db.FetchRaidContracts(ctx)
}

func (db *DB) CompleteRaid(ctx context.Context, c *CompletedRaid) error {
	return db.WithContext(ctx).Create(c).Error
}

// FetchCompletedRaids returns the raid history of a player, oldest first
func (db *DB) FetchCompletedRaids(ctx context.Context, playerID uint) (cs []CompletedRaid, e error) {
	e = db.WithContext(ctx).Where("player_id = ?", playerID).Order("id").Find(&cs).Error
	return
}
