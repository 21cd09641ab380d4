package db

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

// Player is the owner of a warband, identified by a wallet address
type Player struct {
	gorm.Model
	WalletAddress string `gorm:"uniqueIndex;not null"`
	Username      string `gorm:"not null"`
	Gold          int    `gorm:"not null"`
	Reputation    int    `gorm:"not null"`
}

func (p Player) String() string {
	return p.Username + " - " + strconv.Itoa(p.Gold) + " or, " +
		strconv.Itoa(p.Reputation) + " réputation\n"
}

func (db *DB) FetchPlayer(ctx context.Context, id uint) (p Player, e error) {
	e = notFound(db.WithContext(ctx).First(&p, id).Error)
	return
}

func (db *DB) FetchPlayerByWallet(ctx context.Context, walletAddress string) (p Player, e error) {
	e = notFound(db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&p).Error)
	return
}

func (db *DB) CreatePlayer(ctx context.Context, p *Player) error {
	return db.WithContext(ctx).Create(p).Error
}

func (db *DB) UpdatePlayerGold(ctx context.Context, id uint, gold int) error {
	return updateOne(db.WithContext(ctx).Model(&Player{}).Where("id = ?", id).Update("gold", gold))
}

func (db *DB) UpdatePlayerReputation(ctx context.Context, id uint, reputation int) error {
	return updateOne(db.WithContext(ctx).Model(&Player{}).Where("id = ?", id).Update("reputation", reputation))
}

// AddPlayerGold adds delta to the stored gold, whatever it is by now.
func (db *DB) AddPlayerGold(ctx context.Context, id uint, delta int) error {
	return updateOne(db.WithContext(ctx).Model(&Player{}).Where("id = ?", id).
		Update("gold", gorm.Expr("gold + ?", delta)))
}

func (db *DB) AddPlayerReputation(ctx context.Context, id uint, delta int) error {
	return updateOne(db.WithContext(ctx).Model(&Player{}).Where("id = ?", id).
		Update("reputation", gorm.Expr("reputation + ?", delta)))
}
