package server

import (
	"net/http"

	"github.com/Yasserbhb/BeeGuardAI/auth"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// RegisterHandler creates an organisation with the caller as admin and logs them in
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params auth.RegisterParameters
		if err := decodeJSON(r, &params); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		res, err := s.accounts.Register(r.Context(), params)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.setSessionCookie(w, res.Token)
		respondJSON(w, http.StatusCreated, res)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeJSONError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.setSessionCookie(w, res.Token)
		respondJSON(w, http.StatusOK, res)
	}
}

// LogoutHandler revokes the caller's session if there is one. It never fails.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accounts.Logout(sessionToken(r))
		s.clearSessionCookie(w)
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		user, err := s.accounts.Me(r.Context(), identity.UserID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "User not found")
				return
			}
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		list, err := s.accounts.ListUsers(r.Context(), identity.OrgID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		var params auth.NewUserParameters
		if err := decodeJSON(r, &params); err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		user, err := s.accounts.CreateUser(r.Context(), identity, params)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, user)
	}
}

// ChangeRoleHandler sets a user's role. The user's live sessions are revoked.
func (s *Server) ChangeRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		var req roleRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		role, err := users.ParseRole(req.Role)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Role must be admin, manager or observer")
			return
		}

		user, err := s.accounts.ChangeRole(r.Context(), identity, id, role)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "User not found")
				return
			}
			s.writeServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
