package server

import (
	"net/http"

	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/hives"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
)

// The helpers below load an organisation-owned entity for orgID. A missing entity is a 404;
// one owned by another organisation is a 403. Both write the response and return false.

func (s *Server) orgHive(w http.ResponseWriter, r *http.Request, id, orgID int64) (*hives.Hive, bool) {
	hive, err := s.repos.Hives.Get(r.Context(), id)
	if !s.checkOwner(w, r, "Hive", err, func() int64 { return hive.OrgID }, orgID) {
		return nil, false
	}
	return hive, true
}

func (s *Server) orgApiary(w http.ResponseWriter, r *http.Request, id, orgID int64) (*hives.Apiary, bool) {
	apiary, err := s.repos.Apiaries.Get(r.Context(), id)
	if !s.checkOwner(w, r, "Apiary", err, func() int64 { return apiary.OrgID }, orgID) {
		return nil, false
	}
	return apiary, true
}

func (s *Server) orgAPIKey(w http.ResponseWriter, r *http.Request, id, orgID int64) (*apikeys.APIKey, bool) {
	key, err := s.repos.APIKeys.Get(r.Context(), id)
	if !s.checkOwner(w, r, "API key", err, func() int64 { return key.OrgID }, orgID) {
		return nil, false
	}
	return key, true
}

func (s *Server) checkOwner(w http.ResponseWriter, r *http.Request, entity string, err error, owner func() int64, orgID int64) bool {
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, entity+" not found")
			return false
		}
		s.writeServiceError(w, r, err)
		return false
	}
	if owner() != orgID {
		s.writeServiceError(w, r, apperrors.CrossTenantf("%s does not belong to your organisation", entity))
		return false
	}
	return true
}
