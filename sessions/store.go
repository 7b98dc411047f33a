package sessions

import "github.com/Yasserbhb/BeeGuardAI/users"

// Store issues, verifies and revokes session tokens.
// Implementations must keep Issue, Verify and Revoke atomic per token.
type Store interface {
	// Issue creates a session for the identity and returns its token
	Issue(userID int64, email string, role users.Role, orgID int64) (string, error)

	// Verify returns the session for token. Expired sessions are removed and reported as absent.
	Verify(token string) (Session, bool)

	// Revoke removes the session. Unknown tokens are ignored.
	Revoke(token string)

	// RevokeUser removes every session belonging to userID and returns how many were removed
	RevokeUser(userID int64) int

	// DeleteExpired removes all expired sessions and returns how many were removed
	DeleteExpired() int
}
