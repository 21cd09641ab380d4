package api

import (
	"net/http"

	"github.com/shopspring/decimal"
)

func (s *Server) walletAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.wallets.Account(r.PathValue("address"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) walletConnect(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.wallets.Connect(r.PathValue("address")))
}

func (s *Server) walletDisconnect(w http.ResponseWriter, r *http.Request) {
	s.wallets.Disconnect(r.PathValue("address"))
	writeJSON(w, http.StatusOK, ok)
}

type payRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type payResponse struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) walletPay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := s.wallets.Pay(r.Context(), r.PathValue("address"), req.Amount, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payResponse{Success: true, Balance: a.Balance})
}
