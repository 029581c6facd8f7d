package web

import (
	"encoding/json"
	"net/http"

	"mealplan-ai-subscription/internal/domain/model"
)

func (s *Server) handlePreferencesGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	prefs, err := s.prefUC.Get(r.Context(), sess.Subject)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePreferencesUpdate(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	saved, err := s.prefUC.Update(r.Context(), sess.Subject, sess.Email, prefs)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	stats, err := s.statsUC.UserStats(r.Context(), sess.Subject)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.PlatformStats(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
