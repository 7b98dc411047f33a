package sessions

import (
	"time"

	"github.com/Yasserbhb/BeeGuardAI/users"
)

// DefaultMaxAge is how long a session stays valid after it was issued.
const DefaultMaxAge = 24 * time.Hour

// Session binds an opaque token to a snapshot of the user's identity taken at login.
// The snapshot is not refreshed from the user record, so a role change is only visible
// after the session is revoked and the user logs in again.
type Session struct {
	Token     string     `json:"-"`
	UserID    int64      `json:"userId"`
	UserEmail string     `json:"userEmail"`
	UserRole  users.Role `json:"userRole"`
	OrgID     int64      `json:"orgId"`
	CreatedAt time.Time  `json:"-"`
}

// Expired reports whether the session is older than maxAge at now.
func (s Session) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.CreatedAt) > maxAge
}

// HasRole reports whether the session's role is one of roles
func (s Session) HasRole(roles ...users.Role) bool {
	return s.UserRole.OneOf(roles...)
}
