package server

import (
	"fmt"
	"net/http"
	"time"
)

// --- Portfolio handlers ---

func (s *Server) handlePortfolioValue(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	valuation, err := s.app.PortfolioService.ValuePortfolio(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Valuation error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, valuation)
}

func (s *Server) handlePortfolioRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.app.PortfolioService.AnalyzeRisk(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Risk analysis error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

func (s *Server) handlePortfolioIncome(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	asOf := time.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	payouts, err := s.app.PortfolioService.UpcomingIncome(r.Context(), asOf)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Income projection error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"as_of":   asOf.Format("2006-01-02"),
		"payouts": payouts,
		"count":   len(payouts),
	})
}

func (s *Server) handlePortfolioSessions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sessions, err := s.app.PortfolioService.Sessions(r.Context(), time.Now().UTC())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Session estimate error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// --- Rate and quote handlers ---

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	table, fetchedAt := s.app.RateService.CurrentRates(r.Context())

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"base":       s.app.Config.ReferenceCurrency,
		"rates":      table,
		"fetched_at": fetchedAt,
	})
}

func (s *Server) handleRatesRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	table, err := s.app.RateService.RefreshRates(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Rate refresh failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"base":  s.app.Config.ReferenceCurrency,
		"rates": table,
	})
}

func (s *Server) handleQuotesRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	updated, err := s.app.PortfolioService.RefreshQuotes(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Quote refresh failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"updated": updated,
	})
}
