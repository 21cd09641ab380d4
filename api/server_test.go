package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
	"github.com/vincent-heng/viking-warband/wallet"
)

func newTestServer(t *testing.T) (*Server, *game.Service) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "api.db") + "?_pragma=busy_timeout(5000)"
	database, err := db.New(db.DialectSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	svc := game.New(database, game.WithTurnDelay(0), game.WithSeed(7))
	return New(svc, wallet.NewMock(0, 7)), svc
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func playerPath(id uint, suffix string) string {
	return "/api/player/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func TestPlayerAndRecruit(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/player/EQD-api", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var p playerView
	decodeBody(t, rec, &p)
	require.Equal(t, "EQD-api", p.WalletAddress)
	require.Equal(t, 1000, p.Gold)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/mercenaries"),
		recruitRequest{MercenaryTypeID: "berserker", CustomName: "Ragnar"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var recruited mercenaryResponse
	decodeBody(t, rec, &recruited)
	require.Equal(t, 850, recruited.Player.Gold)
	require.Equal(t, "Ragnar", recruited.Mercenary.Name)
	require.Equal(t, 1, recruited.Mercenary.Level)
	require.InDelta(t, 200.0, recruited.Mercenary.Power, 1e-9)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/mercenaries"),
		recruitRequest{MercenaryTypeID: "dragon"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, playerPath(p.ID, "/warband"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wb warbandView
	decodeBody(t, rec, &wb)
	require.Len(t, wb.Mercenaries, 1)
	require.InDelta(t, 200.0, wb.Power, 1e-9)

	rec = do(t, s, http.MethodGet, playerPath(999, "/mercenaries"), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetters(t *testing.T) {
	s, _ := newTestServer(t)

	var p playerView
	decodeBody(t, do(t, s, http.MethodGet, "/api/player/EQD-set", nil), &p)

	rec := do(t, s, http.MethodPut, playerPath(p.ID, "/gold"), map[string]int{"amount": 40})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPut, playerPath(p.ID, "/gold"), map[string]int{"amount": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, playerPath(p.ID, "/reputation"), map[string]int{"wrong": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/player/abc/gold", map[string]int{"amount": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/mercenaries"), recruitRequest{MercenaryTypeID: "archer"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/mercenaries/999/morale", map[string]int{"morale": 50})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealRestAndCare(t *testing.T) {
	s, _ := newTestServer(t)

	var p playerView
	decodeBody(t, do(t, s, http.MethodGet, "/api/player/EQD-care", nil), &p)

	var recruited mercenaryResponse
	decodeBody(t, do(t, s, http.MethodPost, playerPath(p.ID, "/mercenaries"),
		recruitRequest{MercenaryTypeID: "shieldmaiden"}), &recruited)
	m := recruited.Mercenary
	mercPath := "/api/mercenaries/" + strconv.FormatUint(uint64(m.ID), 10)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, mercPath+"/health", map[string]int{"health": 10}).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, mercPath+"/morale", map[string]int{"morale": 50}).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, mercPath+"/experience", map[string]int{"experience": 250}).Code)
	require.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPut, mercPath+"/health", map[string]int{"health": 91}).Code)

	carePath := playerPath(p.ID, "/mercenaries/"+strconv.FormatUint(uint64(m.ID), 10))

	rec := do(t, s, http.MethodPost, carePath+"/heal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var healed mercenaryResponse
	decodeBody(t, rec, &healed)
	require.Equal(t, 40, healed.Mercenary.CurrentHealth)
	require.Equal(t, 1000-180-20, healed.Player.Gold)
	require.Equal(t, 2, healed.Mercenary.Level)

	rec = do(t, s, http.MethodPost, carePath+"/rest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rested mercenaryResponse
	decodeBody(t, rec, &rested)
	require.Equal(t, 75, rested.Mercenary.Morale)
	require.Equal(t, 1000-180-20-10, rested.Player.Gold)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, playerPath(p.ID, "/gold"), map[string]int{"amount": 5}).Code)
	require.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, carePath+"/heal", nil).Code)
}

func TestRaidLifecycle(t *testing.T) {
	s, svc := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/raids", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raids []raidView
	decodeBody(t, rec, &raids)
	require.Len(t, raids, 6)
	easiest := raids[0]
	require.Equal(t, 150, easiest.RequiredPower)

	var p playerView
	decodeBody(t, do(t, s, http.MethodGet, "/api/player/EQD-raid", nil), &p)
	startPath := playerPath(p.ID, "/raids/"+strconv.FormatUint(uint64(easiest.ID), 10)+"/start")

	require.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, startPath, nil).Code)

	do(t, s, http.MethodPost, playerPath(p.ID, "/mercenaries"), recruitRequest{MercenaryTypeID: "berserker"})

	rec = do(t, s, http.MethodPost, startPath, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b battleView
	decodeBody(t, rec, &b)
	require.Equal(t, game.StatusActive, b.Status)
	require.Equal(t, 100, b.PlayerHealth)
	require.Equal(t, 100, b.EnemyHealth)
	require.Len(t, b.Fighters, 1)

	require.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, startPath, nil).Code)

	rec = do(t, s, http.MethodGet, playerPath(p.ID, "/battle"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	actPath := "/api/battles/" + b.ID + "/actions"
	require.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, actPath, actionRequest{Action: "flee"}).Code)

	for b.Status == game.StatusActive {
		rec = do(t, s, http.MethodPost, actPath, actionRequest{Action: "special"})
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &b)
	}
	require.NotNil(t, b.Outcome)
	require.Equal(t, b.Status == game.StatusVictory, b.Outcome.Victory)
	require.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, actPath, actionRequest{Action: "attack"}).Code)

	require.NoError(t, svc.Flush(b.ID).Wait())

	rec = do(t, s, http.MethodGet, playerPath(p.ID, "/raids/completed"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []completedRaidView
	decodeBody(t, rec, &history)
	require.Len(t, history, 1)
	require.Equal(t, b.Outcome.Victory, history[0].Victory)
	require.Equal(t, []uint{b.Fighters[0].ID}, history[0].MercenariesUsed)

	require.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/battles/unknown", nil).Code)
}

func TestEquipment(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/equipment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog []equipmentView
	decodeBody(t, rec, &catalog)
	require.Len(t, catalog, len(game.DefaultEquipment()))
	require.Equal(t, "Bearded Axe", catalog[0].Name)
	require.NotNil(t, catalog[0].CraftingMaterials)
	require.Nil(t, catalog[2].CraftingMaterials)

	var p playerView
	decodeBody(t, do(t, s, http.MethodGet, "/api/player/EQD-gear", nil), &p)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/equipment"), grantRequest{EquipmentID: 42, Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/equipment"), map[string]int{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, playerPath(p.ID, "/equipment"), grantRequest{EquipmentID: catalog[0].ID, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodGet, playerPath(p.ID, "/equipment"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var owned []playerEquipmentView
	decodeBody(t, rec, &owned)
	require.Len(t, owned, 1)
	require.Equal(t, catalog[0].ID, owned[0].EquipmentID)
	require.Equal(t, 2, owned[0].Quantity)
}

func TestWallet(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, http.StatusConflict, do(t, s, http.MethodGet, "/api/wallet/EQD-w", nil).Code)

	rec := do(t, s, http.MethodPost, "/api/wallet/EQD-w", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var a wallet.Account
	decodeBody(t, rec, &a)
	require.True(t, a.Connected)

	rec = do(t, s, http.MethodPost, "/api/wallet/EQD-w/pay", map[string]string{"amount": "0", "description": "nothing"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/wallet/EQD-w/pay", map[string]string{"amount": "11", "description": "jarl"})
	require.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodDelete, "/api/wallet/EQD-w", nil).Code)
	require.Equal(t, http.StatusConflict, do(t, s, http.MethodGet, "/api/wallet/EQD-w", nil).Code)
}

func TestAbandonedPayment(t *testing.T) {
	_, svc := newTestServer(t)
	s := New(svc, wallet.NewMock(time.Second, 7))

	var a wallet.Account
	decodeBody(t, do(t, s, http.MethodPost, "/api/wallet/EQD-gone", nil), &a)
	require.True(t, a.Balance.IsPositive())

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"amount": a.Balance.String(), "description": "jarl"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/EQD-gone/pay", &buf).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestTimeout, rec.Code)

	// nothing was debited
	rec = do(t, s, http.MethodGet, "/api/wallet/EQD-gone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after wallet.Account
	decodeBody(t, rec, &after)
	require.True(t, a.Balance.Equal(after.Balance))
}

func TestStatusOfGivenUpRequests(t *testing.T) {
	require.Equal(t, http.StatusRequestTimeout, statusOf(fmt.Errorf("cannot pay: %w", context.Canceled)))
	require.Equal(t, http.StatusRequestTimeout, statusOf(context.DeadlineExceeded))
	require.Equal(t, http.StatusInternalServerError, statusOf(errors.New("disk on fire")))
}
