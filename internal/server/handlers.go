package server

import (
	"net/http"
	"time"

	"github.com/oliverwade/folio/internal/common"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"full":    common.GetFullVersion(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":        s.app.Config.Environment,
		"reference_currency": s.app.Config.ReferenceCurrency,
		"world_us_weight":    s.app.Config.WorldUSWeight,
		"storage_path":       s.app.Config.Storage.Path,
		"logging_level":      s.app.Config.Logging.Level,
		"quotes_configured":  s.app.QuoteClient != nil,
		"uptime":             time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}
