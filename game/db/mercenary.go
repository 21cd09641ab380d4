package db

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mercenary represents a warrior in DB, hired by a player
type Mercenary struct {
	gorm.Model
	PlayerID      uint   `gorm:"index;not null"`
	Name          string `gorm:"not null"`
	Type          string `gorm:"not null"`
	Icon          string `gorm:"not null"`
	Health        int    `gorm:"not null"`
	CurrentHealth int    `gorm:"not null"`
	Attack        int    `gorm:"not null"`
	Defense       int    `gorm:"not null"`
	Speed         int    `gorm:"not null"`
	Morale        int    `gorm:"not null"`
	Experience    int    `gorm:"not null"`
	Weapon        *string
	Armor         *string
}

func (m Mercenary) String() string {
	return "#" + strconv.FormatUint(uint64(m.ID), 10) + " " + m.Icon + " **" + m.Name + "** (" + m.Type + ") - " +
		strconv.Itoa(m.CurrentHealth) + " / " + strconv.Itoa(m.Health) + " PV, " +
		"moral " + strconv.Itoa(m.Morale) + " / 100, " +
		strconv.Itoa(m.Experience) + " XP\n"
}

// FetchMercenaries returns the roster of a player in recruitment order
func (db *DB) FetchMercenaries(ctx context.Context, playerID uint) (ms []Mercenary, e error) {
	e = db.WithContext(ctx).Where("player_id = ?", playerID).Order("id").Find(&ms).Error
	return
}

func (db *DB) FetchMercenary(ctx context.Context, id uint) (m Mercenary, e error) {
	e = notFound(db.WithContext(ctx).First(&m, id).Error)
	return
}

func (db *DB) UpdateMercenaryHealth(ctx context.Context, id uint, health int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).Update("current_health", health))
}

func (db *DB) UpdateMercenaryMorale(ctx context.Context, id uint, morale int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).Update("morale", morale))
}

func (db *DB) UpdateMercenaryExperience(ctx context.Context, id uint, experience int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).Update("experience", experience))
}

// Recruit pays cost out of the player's gold and adds m to the roster.
func (db *DB) Recruit(ctx context.Context, playerID uint, cost int, m *Mercenary) (Player, error) {
	tx := db.Begin(ctx)
	defer tx.Rollback()

	player, err := tx.FetchPlayer(ctx, playerID)
	if err != nil {
		return Player{}, err
	}

	if cost > player.Gold {
		return Player{}, ErrNotEnoughGold
	}

	player.Gold = player.Gold - cost
	if err := tx.Model(&player).Update("gold", player.Gold).Error; err != nil {
		return Player{}, err
	}

	m.PlayerID = player.ID
	if err := tx.Create(m).Error; err != nil {
		return Player{}, err
	}

	return player, tx.Commit().Error
}

// SpendOnMercenary pays cost out of the player's gold and applies change to
// one of the player's mercenaries. Health and morale are saved.
func (db *DB) SpendOnMercenary(ctx context.Context, playerID, mercenaryID uint, cost int,
	change func(*Mercenary)) (Player, Mercenary, error) {
	tx := db.Begin(ctx)
	defer tx.Rollback()

	player, err := tx.FetchPlayer(ctx, playerID)
	if err != nil {
		return Player{}, Mercenary{}, err
	}

	var m Mercenary
	if e := tx.Where("id = ? AND player_id = ?", mercenaryID, playerID).First(&m).Error; e != nil {
		return Player{}, Mercenary{}, notFound(e)
	}

	if cost > player.Gold {
		return Player{}, Mercenary{}, ErrNotEnoughGold
	}

	change(&m)
	player.Gold = player.Gold - cost

	if e := tx.Model(&m).Updates(map[string]interface{}{
		"current_health": m.CurrentHealth,
		"morale":         m.Morale,
	}).Error; e != nil {
		return Player{}, Mercenary{}, e
	}
	if e := tx.Model(&player).Update("gold", player.Gold).Error; e != nil {
		return Player{}, Mercenary{}, e
	}

	return player, m, tx.Commit().Error
}

func (db *DB) AddMercenaryExperience(ctx context.Context, id uint, delta int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).
		Update("experience", gorm.Expr("experience + ?", delta)))
}

// LowerMercenaryHealth takes loss off the stored current health, never below floor.
func (db *DB) LowerMercenaryHealth(ctx context.Context, id uint, loss, floor int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).
		Update("current_health", lowered("current_health", loss, floor)))
}

// LowerMercenaryMorale takes loss off the stored morale, never below floor.
func (db *DB) LowerMercenaryMorale(ctx context.Context, id uint, loss, floor int) error {
	return updateOne(db.WithContext(ctx).Model(&Mercenary{}).Where("id = ?", id).
		Update("morale", lowered("morale", loss, floor)))
}

// lowered is column - loss clamped to floor, in SQL both dialects understand
func lowered(column string, loss, floor int) clause.Expr {
	return gorm.Expr("CASE WHEN "+column+" - ? < ? THEN ? ELSE "+column+" - ? END", loss, floor, floor, loss)
}
