package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/hives"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/rs/zerolog/log"
)

type apiKeyRequest struct {
	Name string `json:"name"`
}

// apiKeyView is how a stored key is listed: never the raw key, only its display prefix
type apiKeyView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

func newAPIKeyView(k *apikeys.APIKey) apiKeyView {
	return apiKeyView{
		ID:         k.ID,
		Name:       k.Name,
		KeyPrefix:  k.Masked(),
		Active:     k.Active,
		CreatedAt:  k.CreatedAt,
		LastUsedAt: k.LastUsedAt,
	}
}

type deviceHiveRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	DeviceID string `json:"device_id"`
}

type deviceDataRequest struct {
	HiveID        int64    `json:"hive_id"`
	HiveName      string   `json:"hive_name"`
	DeviceID      string   `json:"device_id"`
	Hornets       int      `json:"hornets"`
	BeesIn        int      `json:"bees_in"`
	BeesOut       int      `json:"bees_out"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	BeeState      string   `json:"bee_state"`
	AcousticState string   `json:"acoustic_state"`
}

// GenerateAPIKeyHandler creates a device key for the caller's organisation. The raw key is
// only ever returned by this response.
func (s *Server) GenerateAPIKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var req apiKeyRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				s.writeServiceError(w, r, err)
				return
			}
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = "Device key"
		}

		raw, key, err := apikeys.Generate(s.config.GetAPIKeyPrefix(), identity.OrgID, name)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if err := s.repos.APIKeys.Create(r.Context(), key); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		log.Info().Int64("api_key_id", key.ID).Int64("org_id", key.OrgID).Int64("by", identity.UserID).Msg("api key generated")
		respondJSON(w, http.StatusCreated, map[string]any{
			"id":         key.ID,
			"name":       key.Name,
			"api_key":    raw,
			"key_prefix": key.Masked(),
			"created_at": key.CreatedAt,
			"message":    "Store this key securely, it will not be shown again",
		})
	}
}

func (s *Server) ListAPIKeysHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		list, err := s.repos.APIKeys.ListByOrg(r.Context(), identity.OrgID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		views := make([]apiKeyView, 0, len(list))
		for _, k := range list {
			views = append(views, newAPIKeyView(k))
		}
		respondJSON(w, http.StatusOK, views)
	}
}

// DeactivateAPIKeyHandler disables a key. Disabled keys are kept so their history stays visible.
func (s *Server) DeactivateAPIKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if _, ok := s.orgAPIKey(w, r, id, identity.OrgID); !ok {
			return
		}
		if err := s.repos.APIKeys.SetActive(r.Context(), id, false); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		log.Info().Int64("api_key_id", id).Int64("by", identity.UserID).Msg("api key deactivated")
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// DeviceRegisterHiveHandler lets a device declare its hive. Registering an existing name
// returns the existing hive.
func (s *Server) DeviceRegisterHiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := DeviceOrgFromContext(r.Context())

		var req deviceHiveRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "name is required")
			return
		}

		existing, err := s.repos.Hives.GetByName(r.Context(), orgID, name)
		if err == nil {
			respondJSON(w, http.StatusOK, map[string]any{"hive": existing, "created": false, "message": "Hive already registered"})
			return
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			s.writeServiceError(w, r, err)
			return
		}

		hive := &hives.Hive{Name: name, Location: strings.TrimSpace(req.Location), DeviceID: strings.TrimSpace(req.DeviceID), OrgID: orgID}
		if err := s.repos.Hives.Create(r.Context(), hive); err != nil {
			// Another request registered the same name first
			if apperrors.Is(err, apperrors.ErrConflict) {
				if existing, getErr := s.repos.Hives.GetByName(r.Context(), orgID, name); getErr == nil {
					respondJSON(w, http.StatusOK, map[string]any{"hive": existing, "created": false, "message": "Hive already registered"})
					return
				}
			}
			s.writeServiceError(w, r, err)
			return
		}

		log.Info().Int64("hive_id", hive.ID).Int64("org_id", orgID).Str("hive", hive.Name).Msg("hive registered by device")
		respondJSON(w, http.StatusCreated, map[string]any{"hive": hive, "created": true, "message": "Hive registered"})
	}
}

// DeviceDataHandler stores a reading sent by a device. The hive is addressed by id, by name
// or by the device id bound to it, always within the key's organisation.
func (s *Server) DeviceDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := DeviceOrgFromContext(r.Context())

		var req deviceDataRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		var hive *hives.Hive
		switch {
		case req.HiveID > 0:
			var ok bool
			if hive, ok = s.orgHive(w, r, req.HiveID, orgID); !ok {
				return
			}
		case strings.TrimSpace(req.HiveName) != "":
			var ok bool
			if hive, ok = s.deviceHive(w, r, func(ctx context.Context) (*hives.Hive, error) {
				return s.repos.Hives.GetByName(ctx, orgID, strings.TrimSpace(req.HiveName))
			}); !ok {
				return
			}
		case strings.TrimSpace(req.DeviceID) != "":
			var ok bool
			if hive, ok = s.deviceHive(w, r, func(ctx context.Context) (*hives.Hive, error) {
				return s.repos.Hives.GetByDeviceID(ctx, orgID, strings.TrimSpace(req.DeviceID))
			}); !ok {
				return
			}
		default:
			writeJSONError(w, http.StatusBadRequest, "hive_id, hive_name or device_id required")
			return
		}

		reading := &readings.Reading{
			HiveID:        hive.ID,
			Hornets:       req.Hornets,
			BeesIn:        req.BeesIn,
			BeesOut:       req.BeesOut,
			Temperature:   req.Temperature,
			Humidity:      req.Humidity,
			BeeState:      req.BeeState,
			AcousticState: req.AcousticState,
		}
		if err := s.ingest(r, hive, reading, "device"); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"success":    true,
			"reading_id": reading.ID,
			"hive_id":    hive.ID,
			"message":    "Data received successfully",
		})
	}
}

// deviceHive runs a hive lookup for a device, answering 404 when it finds nothing
func (s *Server) deviceHive(w http.ResponseWriter, r *http.Request, lookup func(context.Context) (*hives.Hive, error)) (*hives.Hive, bool) {
	hive, err := lookup(r.Context())
	if apperrors.Is(err, apperrors.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Hive not found. Register it first.")
		return nil, false
	} else if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	return hive, true
}
