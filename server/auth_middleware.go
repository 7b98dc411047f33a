package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/telemetry"
	"github.com/Yasserbhb/BeeGuardAI/sessions"
	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIdentity stores the sessions.Session of an authenticated user
	ContextKeyIdentity ContextKey = "identity"
	// ContextKeyDeviceOrg stores the organisation id bound to the caller's API key
	ContextKeyDeviceOrg ContextKey = "device_org"
	// ContextKeyAPIKeyID stores the id of the caller's API key
	ContextKeyAPIKeyID ContextKey = "api_key_id"
	// ContextKeyRequestID stores the request id set by LoggingMiddleware
	ContextKeyRequestID ContextKey = "request_id"
)

const (
	headerAPIKey    = "X-API-Key"
	sessionCookie   = "token"
	bearerPrefix    = "bearer "
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired session"
	msgForbidden    = "Insufficient permissions"
	msgKeyRequired  = "API key required"
	msgKeyInvalid   = "Invalid API key"
	msgKeyDisabled  = "API key disabled"
)

// IdentityFromContext returns the session attached by RequireAuth
func IdentityFromContext(ctx context.Context) (sessions.Session, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(sessions.Session)
	return identity, ok
}

// DeviceOrgFromContext returns the organisation attached by RequireAPIKey
func DeviceOrgFromContext(ctx context.Context) (int64, bool) {
	orgID, ok := ctx.Value(ContextKeyDeviceOrg).(int64)
	return orgID, ok
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// sessionToken reads the token from the Authorization header, falling back to the cookie
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		if token := strings.TrimSpace(h[len(bearerPrefix):]); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// RequireAuth is middleware that validates a session token and attaches the identity
// snapshot to the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				telemetry.AuthFailures.WithLabelValues("missing_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}

			identity, ok := s.sessions.Verify(token)
			if !ok {
				telemetry.AuthFailures.WithLabelValues("invalid_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole is middleware that admits only identities holding one of roles.
// It must be chained after RequireAuth.
func (s *Server) RequireRole(roles ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				telemetry.AuthFailures.WithLabelValues("missing_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}
			if !identity.HasRole(roles...) {
				telemetry.AuthFailures.WithLabelValues("insufficient_role").Inc()
				writeJSONError(w, http.StatusForbidden, msgForbidden)
				return
			}
			next(w, r)
		}
	}
}

// APIKeyIDFromContext returns the id of the key verified by RequireAPIKey
func APIKeyIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyAPIKeyID).(int64)
	return id, ok
}

// verifyAPIKey resolves a raw key to an active key of the store. It returns
// ErrAPIKeyNotFound for malformed or unknown keys and ErrAPIKeyInactive for disabled ones.
func (s *Server) verifyAPIKey(ctx context.Context, raw string) (*apikeys.APIKey, error) {
	if !apikeys.WellFormed(raw, s.config.GetAPIKeyPrefix()) {
		return nil, apperrors.ErrAPIKeyNotFound
	}
	key, err := s.repos.APIKeys.GetByHash(ctx, apikeys.Hash(raw))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrapf(err, "[Server verifyAPIKey] GetByHash")
	}
	if !key.Active {
		return nil, apperrors.ErrAPIKeyInactive
	}
	return key, nil
}

// RequireAPIKey is middleware for device routes. It resolves the X-API-Key header to an
// active key, records its use and attaches the key and its organisation to the request context.
func (s *Server) RequireAPIKey() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(headerAPIKey))
			if raw == "" {
				telemetry.AuthFailures.WithLabelValues("missing_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgKeyRequired)
				return
			}

			key, err := s.verifyAPIKey(r.Context(), raw)
			switch {
			case apperrors.Is(err, apperrors.ErrAPIKeyNotFound):
				telemetry.AuthFailures.WithLabelValues("invalid_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgKeyInvalid)
				return
			case apperrors.Is(err, apperrors.ErrAPIKeyInactive):
				telemetry.AuthFailures.WithLabelValues("inactive_credential").Inc()
				writeJSONError(w, http.StatusUnauthorized, msgKeyDisabled)
				return
			case err != nil:
				s.writeServiceError(w, r, err)
				return
			}

			if err := s.repos.APIKeys.TouchLastUsed(r.Context(), key.ID, s.nowTime()); err != nil {
				log.Err(err).Int64("api_key_id", key.ID).Msg("failed to record api key use")
			}

			ctx := context.WithValue(r.Context(), ContextKeyDeviceOrg, key.OrgID)
			ctx = context.WithValue(ctx, ContextKeyAPIKeyID, key.ID)
			next(w, r.WithContext(ctx))
		}
	}
}
