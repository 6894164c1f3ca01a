// Package server exposes the application core over a JSON REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oliverwade/folio/internal/app"
	"github.com/oliverwade/folio/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Records
	mux.HandleFunc("/api/instruments/", s.routeInstruments)
	mux.HandleFunc("/api/instruments", s.handleInstruments)
	mux.HandleFunc("/api/positions/", s.routePositions)
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/deposits/", s.routeDeposits)
	mux.HandleFunc("/api/deposits", s.handleDeposits)

	// Computed views
	mux.HandleFunc("/api/portfolio/value", s.handlePortfolioValue)
	mux.HandleFunc("/api/portfolio/risk", s.handlePortfolioRisk)
	mux.HandleFunc("/api/portfolio/income", s.handlePortfolioIncome)
	mux.HandleFunc("/api/portfolio/sessions", s.handlePortfolioSessions)

	// Market data lifecycle
	mux.HandleFunc("/api/rates", s.handleRates)
	mux.HandleFunc("/api/rates/refresh", s.handleRatesRefresh)
	mux.HandleFunc("/api/quotes/refresh", s.handleQuotesRefresh)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
