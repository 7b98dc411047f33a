package server

import (
	"net/http"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
)

type settingsRequest struct {
	Alerts  *alerts.AlertSettings  `json:"alerts"`
	Reports *alerts.ReportSettings `json:"reports"`
}

// loadSettings returns the user's saved settings, or the defaults when none were saved
func (s *Server) loadSettings(r *http.Request, identity sessions.Session) (alerts.Settings, error) {
	saved, err := s.repos.Settings.Get(r.Context(), identity.UserID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return alerts.Defaults(identity.UserID, identity.UserEmail), nil
	}
	if err != nil {
		return alerts.Settings{}, err
	}
	return saved.WithFallbackEmail(identity.UserEmail), nil
}

func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		settings, err := s.loadSettings(r, identity)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, settings)
	}
}

// UpdateSettingsHandler replaces the alert and/or report section that the body carries
func (s *Server) UpdateSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var req settingsRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.Alerts == nil && req.Reports == nil {
			writeJSONError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		settings, err := s.loadSettings(r, identity)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.Alerts != nil {
			settings.Alerts = *req.Alerts
		}
		if req.Reports != nil {
			settings.Reports = *req.Reports
		}
		if err := settings.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.repos.Settings.Upsert(r.Context(), &settings); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, settings.WithFallbackEmail(identity.UserEmail))
	}
}
