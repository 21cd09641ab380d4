package game

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vincent-heng/viking-warband/game/db"
)

func model(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

func ids(ms []db.Mercenary) []uint {
	out := make([]uint, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "game.db") + "?_pragma=busy_timeout(5000)"
	database, err := db.New(db.DialectSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// failingStore breaks or slows down selected writes and reads of a real store
type failingStore struct {
	*db.DB

	failExperience uint
	failPlayer     bool
	goldDelay      time.Duration
}

var errBoom = errors.New("boom")

func (f *failingStore) AddMercenaryExperience(ctx context.Context, id uint, delta int) error {
	if id == f.failExperience {
		return errBoom
	}
	return f.DB.AddMercenaryExperience(ctx, id, delta)
}

func (f *failingStore) AddPlayerGold(ctx context.Context, id uint, delta int) error {
	time.Sleep(f.goldDelay)
	return f.DB.AddPlayerGold(ctx, id, delta)
}

func (f *failingStore) FetchPlayer(ctx context.Context, id uint) (db.Player, error) {
	if f.failPlayer {
		return db.Player{}, db.ErrNotFound
	}
	return f.DB.FetchPlayer(ctx, id)
}
