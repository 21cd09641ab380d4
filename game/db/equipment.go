package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Equipment is a catalog item. Bonuses have no gameplay effect yet.
type Equipment struct {
	ID                uint            `gorm:"primarykey"`
	Name              string          `gorm:"not null"`
	Type              string          `gorm:"not null"` // weapon or armor
	Rarity            string          `gorm:"not null"` // common, rare, epic, legendary
	AttackBonus       int             `gorm:"not null"`
	DefenseBonus      int             `gorm:"not null"`
	SpeedBonus        int             `gorm:"not null"`
	HealthBonus       int             `gorm:"not null"`
	GoldCost          int             `gorm:"not null"`
	TonCost           decimal.Decimal `gorm:"type:numeric(20,9);not null"`
	CraftingMaterials datatypes.JSON
	IsCraftable       bool `gorm:"not null"`
}

// PlayerEquipment is an inventory line
type PlayerEquipment struct {
	ID          uint      `gorm:"primarykey"`
	PlayerID    uint      `gorm:"index;not null"`
	EquipmentID uint      `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
	AcquiredAt  time.Time `gorm:"autoCreateTime"`
}

func (db *DB) FetchEquipment(ctx context.Context) (es []Equipment, e error) {
	e = db.WithContext(ctx).Order("id").Find(&es).Error
	return
}

// SeedEquipment fills an empty catalog with seed and returns the catalog.
func (db *DB) SeedEquipment(ctx context.Context, seed []Equipment) ([]Equipment, error) {
	tx := db.Begin(ctx)
	defer tx.Rollback()

	var count int64
	if err := tx.Model(&Equipment{}).Count(&count).Error; err != nil {
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
	return db.FetchEquipment(ctx)
}

func (db *DB) FetchPlayerEquipment(ctx context.Context, playerID uint) (pe []PlayerEquipment, e error) {
	e = db.WithContext(ctx).Where("player_id = ?", playerID).Order("id").Find(&pe).Error
	return
}

// AddPlayerEquipment appends an inventory line after checking that both the
// player and the catalog item exist.
func (db *DB) AddPlayerEquipment(ctx context.Context, playerID, equipmentID uint, quantity int) (PlayerEquipment, error) {
	tx := db.Begin(ctx)
	defer tx.Rollback()

	if _, err := tx.FetchPlayer(ctx, playerID); err != nil {
		return PlayerEquipment{}, err
	}
	if err := notFound(tx.First(&Equipment{}, equipmentID).Error); err != nil {
		return PlayerEquipment{}, err
	}

	line := PlayerEquipment{
		PlayerID:    playerID,
		EquipmentID: equipmentID,
		Quantity:    quantity,
	}
	if err := tx.Create(&line).Error; err != nil {
		return PlayerEquipment{}, err
	}

	return line, tx.Commit().Error
}
