package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported dialects
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

type DB struct {
	*gorm.DB
}

// New opens the database for the given dialect and migrates every table.
func New(dialect, dsn string) (*DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case DialectSQLite, "":
		dialector = sqlite.Open(dsn)
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("dialect %q: %w", dialect, ErrUnknownDialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if dialect != DialectPostgres {
		// sqlite allows a single writer; queue callers on one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	for _, table := range []interface{}{
		&Player{}, &Mercenary{}, &RaidContract{}, &CompletedRaid{},
		&Equipment{}, &PlayerEquipment{},
	} {
		if e := db.AutoMigrate(table); e != nil {
			return nil, fmt.Errorf("automigrate %T failed: %w", table, e)
		}
	}
	return &DB{DB: db}, nil
}

func (db *DB) Begin(ctx context.Context) *DB {
	return &DB{
		DB: db.DB.WithContext(ctx).Begin(),
	}
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func updateOne(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
