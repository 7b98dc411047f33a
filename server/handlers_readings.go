package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/hives"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/telemetry"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/rs/zerolog/log"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

type readingRequest struct {
	deviceDataRequest
	RecordedAt *time.Time `json:"recorded_at"`
}

// ingest validates and stores a reading for hive, then runs the hornet alert check.
// Alert failures are logged and never fail the request.
func (s *Server) ingest(r *http.Request, hive *hives.Hive, reading *readings.Reading, source string) error {
	if err := reading.Validate(); err != nil {
		return apperrors.Invalidf("%s", err.Error())
	}
	if err := s.repos.Readings.Insert(r.Context(), reading); err != nil {
		return err
	}
	telemetry.ReadingsIngested.WithLabelValues(source).Inc()

	if s.alerts == nil || reading.Hornets == 0 {
		return nil
	}
	sent, err := s.alerts.Evaluate(r.Context(), hive)
	if err != nil {
		log.Err(err).Int64("hive_id", hive.ID).Str("request_id", RequestIDFromContext(r.Context())).Msg("hornet alert evaluation failed")
	}
	telemetry.AlertsSent.Add(float64(len(sent)))
	return nil
}

// CreateReadingHandler stores a reading entered by a user, optionally backdated
func (s *Server) CreateReadingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var req readingRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.HiveID <= 0 {
			writeJSONError(w, http.StatusBadRequest, "hive_id is required")
			return
		}
		hive, ok := s.orgHive(w, r, req.HiveID, identity.OrgID)
		if !ok {
			return
		}

		reading := &readings.Reading{
			HiveID:        hive.ID,
			Hornets:       req.Hornets,
			BeesIn:        req.BeesIn,
			BeesOut:       req.BeesOut,
			Temperature:   req.Temperature,
			Humidity:      req.Humidity,
			BeeState:      strings.TrimSpace(req.BeeState),
			AcousticState: strings.TrimSpace(req.AcousticState),
		}
		if req.RecordedAt != nil {
			if req.RecordedAt.After(s.nowTime().Add(time.Minute)) {
				writeJSONError(w, http.StatusBadRequest, "recorded_at must not be in the future")
				return
			}
			reading.RecordedAt = *req.RecordedAt
		}

		if err := s.ingest(r, hive, reading, "manual"); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, reading)
	}
}

// DashboardHandler lists every hive of the organisation with its latest reading
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		rows, err := s.repos.Readings.LatestByOrg(r.Context(), identity.OrgID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// HiveReadingsHandler returns a hive's history, newest first. limit defaults to 100 and is
// capped at 1000; hours restricts the window to the last n hours.
func (s *Server) HiveReadingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", defaultHistoryLimit)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		hours, err := queryInt(r, "hours", 0)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if _, ok := s.orgHive(w, r, id, identity.OrgID); !ok {
			return
		}

		q := readings.Query{HiveID: id, Limit: min(limit, maxHistoryLimit)}
		if hours > 0 {
			q.Since = s.nowTime().Add(-time.Duration(hours) * time.Hour)
		}
		list, err := s.repos.Readings.History(r.Context(), q)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) HiveLatestReadingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if _, ok := s.orgHive(w, r, id, identity.OrgID); !ok {
			return
		}

		reading, err := s.repos.Readings.Latest(r.Context(), id)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "No readings for this hive")
				return
			}
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, reading)
	}
}
