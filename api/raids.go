package api

import (
	"net/http"

	"github.com/vincent-heng/viking-warband/game"
)

func (s *Server) raids(w http.ResponseWriter, r *http.Request) {
	raids, err := s.game.Raids(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]raidView, 0, len(raids))
	for i := range raids {
		views = append(views, newRaidView(raids[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) startRaid(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	raidID, err := pathID(r, "raidId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.game.StartRaid(r.Context(), playerID, raidID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBattleView(st))
}

func (s *Server) completedRaids(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	history, err := s.game.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]completedRaidView, 0, len(history))
	for i := range history {
		views = append(views, newCompletedRaidView(history[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) activeBattle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.game.ActiveBattle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBattleView(st))
}

func (s *Server) battle(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.Battle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBattleView(st))
}

type actionRequest struct {
	Action string `json:"action"`
}

func (s *Server) act(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	action, err := game.ParseAction(req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.game.Act(r.Context(), r.PathValue("id"), action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBattleView(st))
}

func (s *Server) equipment(w http.ResponseWriter, r *http.Request) {
	items, err := s.game.Equipment(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]equipmentView, 0, len(items))
	for i := range items {
		views = append(views, newEquipmentView(items[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) playerEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	owned, err := s.game.PlayerEquipment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]playerEquipmentView, 0, len(owned))
	for i := range owned {
		views = append(views, newPlayerEquipmentView(owned[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

type grantRequest struct {
	EquipmentID uint `json:"equipmentId"`
	Quantity    int  `json:"quantity"`
}

func (s *Server) grantEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	req := grantRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.EquipmentID == 0 {
		writeError(w, r, badRequest("equipmentId is required"))
		return
	}

	pe, err := s.game.GrantEquipment(r.Context(), id, req.EquipmentID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlayerEquipmentView(pe))
}
