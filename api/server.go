package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/wallet"
)

// Server is the REST front-end of the game
type Server struct {
	game    *game.Service
	wallets *wallet.Mock
	mux     *http.ServeMux
}

// New wires every route
func New(svc *game.Service, wallets *wallet.Mock) *Server {
	s := &Server{
		game:    svc,
		wallets: wallets,
		mux:     http.NewServeMux(),
	}

	routes := map[string]http.HandlerFunc{
		"GET /api/player/{wallet}":          s.getPlayer,
		"PUT /api/player/{id}/gold":         s.putGold,
		"PUT /api/player/{id}/reputation":   s.putReputation,
		"GET /api/player/{id}/mercenaries":  s.listMercenaries,
		"POST /api/player/{id}/mercenaries": s.recruit,
		"GET /api/player/{id}/warband":      s.warband,

		"POST /api/player/{id}/mercenaries/{mercId}/heal": s.heal,
		"POST /api/player/{id}/mercenaries/{mercId}/rest": s.rest,
		"PUT /api/mercenaries/{id}/health":                s.putHealth,
		"PUT /api/mercenaries/{id}/morale":                s.putMorale,
		"PUT /api/mercenaries/{id}/experience":            s.putExperience,
		"GET /api/mercenary-types":                        s.mercenaryTypes,

		"GET /api/raids":                             s.raids,
		"POST /api/player/{id}/raids/{raidId}/start": s.startRaid,
		"GET /api/player/{id}/raids/completed":       s.completedRaids,
		"GET /api/player/{id}/battle":                s.activeBattle,
		"GET /api/battles/{id}":                      s.battle,
		"POST /api/battles/{id}/actions":             s.act,

		"GET /api/equipment":              s.equipment,
		"GET /api/player/{id}/equipment":  s.playerEquipment,
		"POST /api/player/{id}/equipment": s.grantEquipment,

		"GET /api/wallet/{address}":      s.walletAccount,
		"POST /api/wallet/{address}":     s.walletConnect,
		"DELETE /api/wallet/{address}":   s.walletDisconnect,
		"POST /api/wallet/{address}/pay": s.walletPay,
	}
	for pattern, handler := range routes {
		s.mux.Handle(pattern, handler)
	}

	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ServeHTTP logs every request with a correlation id
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	log.Debug().
		Str("requestID", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("duration", time.Since(start)).
		Msg("request done")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("cannot encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	case http.StatusRequestTimeout:
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("request gave up")
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, game.ErrUnknownMercenaryType),
		errors.Is(err, game.ErrUnknownAction),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotEnoughGold),
		errors.Is(err, game.ErrInsufficientPower),
		errors.Is(err, game.ErrNoFighters),
		errors.Is(err, game.ErrRaidInactive),
		errors.Is(err, game.ErrBattleInProgress),
		errors.Is(err, game.ErrBattleOver),
		errors.Is(err, game.ErrTurnInFlight),
		errors.Is(err, wallet.ErrNotConnected),
		errors.Is(err, wallet.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return uint(id), nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

type success struct {
	Success bool `json:"success"`
}

var ok = success{Success: true} //nolint:gochecknoglobals
