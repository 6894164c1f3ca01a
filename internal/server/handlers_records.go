package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/oliverwade/folio/internal/models"
)

// --- Instrument handlers ---

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		instruments, err := s.app.Storage.PortfolioStore().ListInstruments(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing instruments: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"instruments": instruments,
			"count":       len(instruments),
		})

	case http.MethodPost:
		var inst models.Instrument
		if !DecodeJSON(w, r, &inst) {
			return
		}
		inst.Symbol = strings.ToUpper(strings.TrimSpace(inst.Symbol))
		inst.Currency = strings.ToUpper(strings.TrimSpace(inst.Currency))
		if err := inst.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.app.Storage.PortfolioStore().SaveInstrument(r.Context(), &inst); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving instrument: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, &inst)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) routeInstruments(w http.ResponseWriter, r *http.Request) {
	symbol := pathSuffix(r, "/api/instruments")
	if symbol == "" {
		s.handleInstruments(w, r)
		return
	}
	symbol = strings.ToUpper(symbol)

	switch r.Method {
	case http.MethodGet:
		inst, err := s.app.Storage.PortfolioStore().GetInstrument(r.Context(), symbol)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Instrument not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, inst)

	case http.MethodDelete:
		if err := s.app.Storage.PortfolioStore().DeleteInstrument(r.Context(), symbol); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting instrument: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": symbol})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- Position handlers ---

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		positions, err := s.app.Storage.PortfolioStore().ListPositions(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing positions: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"positions": positions,
			"count":     len(positions),
		})

	case http.MethodPost:
		var req struct {
			Symbol        string       `json:"symbol"`
			Shares        float64      `json:"shares"`
			AvgEntryPrice float64      `json:"avg_entry_price"`
			EntryRate     float64      `json:"entry_rate"`
			Lots          []models.Lot `json:"lots"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		pos, err := models.NewPosition(req.Symbol, req.Shares, req.AvgEntryPrice, req.EntryRate, req.Lots)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.app.Storage.PortfolioStore().SavePosition(r.Context(), pos); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving position: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, pos)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) routePositions(w http.ResponseWriter, r *http.Request) {
	symbol := pathSuffix(r, "/api/positions")
	if symbol == "" {
		s.handlePositions(w, r)
		return
	}
	symbol = strings.ToUpper(symbol)

	switch r.Method {
	case http.MethodGet:
		pos, err := s.app.Storage.PortfolioStore().GetPosition(r.Context(), symbol)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Position not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, pos)

	case http.MethodDelete:
		if err := s.app.Storage.PortfolioStore().DeletePosition(r.Context(), symbol); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting position: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": symbol})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- Fixed deposit handlers ---

func (s *Server) handleDeposits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		deposits, err := s.app.Storage.PortfolioStore().ListDeposits(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing deposits: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"deposits": deposits,
			"count":    len(deposits),
		})

	case http.MethodPost:
		var req struct {
			ID           string             `json:"id"`
			Bank         string             `json:"bank"`
			Amount       float64            `json:"amount"`
			Currency     string             `json:"currency"`
			InterestRate float64            `json:"interest_rate"`
			Kind         models.DepositKind `json:"kind"`
			AnnualFee    float64            `json:"annual_fee"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		dep, err := models.NewFixedDeposit(req.ID, req.Bank, req.Amount, req.Currency, req.InterestRate, req.Kind)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		dep.AnnualFee = req.AnnualFee
		if err := s.app.Storage.PortfolioStore().SaveDeposit(r.Context(), dep); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving deposit: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, dep)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) routeDeposits(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r, "/api/deposits")
	if id == "" {
		s.handleDeposits(w, r)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := s.app.Storage.PortfolioStore().DeleteDeposit(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting deposit: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodDelete)
	}
}
