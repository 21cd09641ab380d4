package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/vincent-heng/viking-warband/game"
	"github.com/vincent-heng/viking-warband/game/db"
)

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	walletAddress := strings.TrimSpace(r.PathValue("wallet"))
	if walletAddress == "" {
		writeError(w, r, badRequest("wallet address is required"))
		return
	}

	p, err := s.game.Player(r.Context(), walletAddress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayerView(p))
}

type (
	setFunc  func(ctx context.Context, id uint, value int) error
	careFunc func(ctx context.Context, playerID, mercenaryID uint) (db.Player, db.Mercenary, error)
)

// setValue serves the PUT routes writing a single integer field
func setValue(field string, set setFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req map[string]*int
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		value := req[field]
		if value == nil {
			writeError(w, r, badRequest(field+" is required"))
			return
		}

		if err := set(r.Context(), id, *value); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ok)
	}
}

func (s *Server) putGold(w http.ResponseWriter, r *http.Request) {
	setValue("amount", s.game.SetGold)(w, r)
}

func (s *Server) putReputation(w http.ResponseWriter, r *http.Request) {
	setValue("amount", s.game.SetReputation)(w, r)
}

func (s *Server) putHealth(w http.ResponseWriter, r *http.Request) {
	setValue("health", s.game.SetMercenaryHealth)(w, r)
}

func (s *Server) putMorale(w http.ResponseWriter, r *http.Request) {
	setValue("morale", s.game.SetMercenaryMorale)(w, r)
}

func (s *Server) putExperience(w http.ResponseWriter, r *http.Request) {
	setValue("experience", s.game.SetMercenaryExperience)(w, r)
}

func (s *Server) listMercenaries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	roster, err := s.game.Roster(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMercenaryViews(roster))
}

func (s *Server) warband(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	roster, err := s.game.Roster(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, warbandView{
		Mercenaries: newMercenaryViews(roster),
		Power:       game.WarbandPower(roster),
	})
}

type recruitRequest struct {
	MercenaryTypeID string `json:"mercenaryTypeId"`
	CustomName      string `json:"customName"`
}

type mercenaryResponse struct {
	Player    playerView    `json:"player"`
	Mercenary mercenaryView `json:"mercenary"`
}

func (s *Server) recruit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req recruitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, m, err := s.game.Recruit(r.Context(), id, req.MercenaryTypeID, strings.TrimSpace(req.CustomName))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mercenaryResponse{
		Player:    newPlayerView(p),
		Mercenary: newMercenaryView(m),
	})
}

func (s *Server) heal(w http.ResponseWriter, r *http.Request) {
	s.careFor(w, r, s.game.Heal)
}

func (s *Server) rest(w http.ResponseWriter, r *http.Request) {
	s.careFor(w, r, s.game.Rest)
}

func (s *Server) careFor(w http.ResponseWriter, r *http.Request, care careFunc) {
	playerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	mercenaryID, err := pathID(r, "mercId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, m, err := care(r.Context(), playerID, mercenaryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mercenaryResponse{
		Player:    newPlayerView(p),
		Mercenary: newMercenaryView(m),
	})
}

func (s *Server) mercenaryTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, game.MercenaryTypes)
}
