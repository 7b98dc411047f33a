package server

import (
	"net/http"
	"strings"

	"github.com/Yasserbhb/BeeGuardAI/hives"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/utils"
	"github.com/rs/zerolog/log"
)

var errHiveNameTaken = apperrors.Conflictf("A hive with this name already exists")

type apiaryRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type hiveRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	DeviceID *string `json:"device_id"`
	ApiaryID *int64  `json:"apiary_id"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *Server) ListApiariesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		list, err := s.repos.Apiaries.ListByOrg(r.Context(), identity.OrgID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateApiaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var req apiaryRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		name := utils.Value(trimmed(req.Name))
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "name is required")
			return
		}

		apiary := &hives.Apiary{Name: name, Location: utils.Value(trimmed(req.Location)), OrgID: identity.OrgID}
		if err := s.repos.Apiaries.Create(r.Context(), apiary); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, apiary)
	}
}

func (s *Server) UpdateApiaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		var req apiaryRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		update := hives.ApiaryUpdate{Name: trimmed(req.Name), Location: trimmed(req.Location)}
		if update.Name != nil && *update.Name == "" {
			writeJSONError(w, http.StatusBadRequest, "name must not be empty")
			return
		}

		if _, ok := s.orgApiary(w, r, id, identity.OrgID); !ok {
			return
		}
		if err := s.repos.Apiaries.Update(r.Context(), id, update); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		apiary, err := s.repos.Apiaries.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, apiary)
	}
}

// DeleteApiaryHandler removes an apiary. Its hives are kept, detached from any apiary.
func (s *Server) DeleteApiaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if _, ok := s.orgApiary(w, r, id, identity.OrgID); !ok {
			return
		}
		if err := s.repos.Apiaries.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		log.Info().Int64("apiary_id", id).Int64("by", identity.UserID).Msg("apiary deleted")
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) ListHivesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		list, err := s.repos.Hives.ListByOrg(r.Context(), identity.OrgID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateHiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var req hiveRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		name := utils.Value(trimmed(req.Name))
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, "name is required")
			return
		}

		hive := &hives.Hive{
			Name:     name,
			Location: utils.Value(trimmed(req.Location)),
			DeviceID: utils.Value(trimmed(req.DeviceID)),
			OrgID:    identity.OrgID,
		}
		if req.ApiaryID != nil && *req.ApiaryID != 0 {
			apiary, ok := s.orgApiary(w, r, *req.ApiaryID, identity.OrgID)
			if !ok {
				return
			}
			hive.ApiaryID = &apiary.ID
			hive.ApiaryName = apiary.Name
		}

		if err := s.repos.Hives.Create(r.Context(), hive); err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				err = errHiveNameTaken
			}
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, hive)
	}
}

func (s *Server) GetHiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		hive, ok := s.orgHive(w, r, id, identity.OrgID)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, hive)
	}
}

func (s *Server) UpdateHiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		var req hiveRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		update := hives.HiveUpdate{
			Name:     trimmed(req.Name),
			Location: trimmed(req.Location),
			DeviceID: trimmed(req.DeviceID),
			ApiaryID: req.ApiaryID,
		}
		if update.Name != nil && *update.Name == "" {
			writeJSONError(w, http.StatusBadRequest, "name must not be empty")
			return
		}

		if _, ok := s.orgHive(w, r, id, identity.OrgID); !ok {
			return
		}
		if update.ApiaryID != nil && *update.ApiaryID != 0 {
			if _, ok := s.orgApiary(w, r, *update.ApiaryID, identity.OrgID); !ok {
				return
			}
		}

		if err := s.repos.Hives.Update(r.Context(), id, update); err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				err = errHiveNameTaken
			}
			s.writeServiceError(w, r, err)
			return
		}

		hive, err := s.repos.Hives.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, hive)
	}
}

// DeleteHiveHandler removes a hive together with all of its readings
func (s *Server) DeleteHiveHandler() http.HandlerFunc {
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
		if err := s.repos.Hives.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		log.Info().Int64("hive_id", id).Int64("by", identity.UserID).Msg("hive deleted")
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
