package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/telemetry"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the {"error": message} body used by every failure response
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps an error from the service or repository layer onto a response.
// Errors carrying a public message are reported with it; anything unexpected is logged and
// answered with a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		status, message = http.StatusBadRequest, "Invalid request"
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case apperrors.Is(err, apperrors.ErrCrossTenant):
		telemetry.AuthFailures.WithLabelValues("cross_tenant").Inc()
		status, message = http.StatusForbidden, "Resource does not belong to your organisation"
	case apperrors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case apperrors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, "Already exists"
	}
	if public, ok := apperrors.PublicMessage(err); ok {
		message = public
	}

	if status == http.StatusInternalServerError {
		log.Err(err).
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSONError(w, status, message)
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperrors.Invalidf("Invalid JSON body")
	}
	return nil
}

// pathID parses the {id} path segment
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Invalidf("Invalid id")
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, apperrors.Invalidf("%s must be a positive integer", name)
	}
	return v, nil
}
