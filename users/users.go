package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Role is a user's role inside their organisation
type Role string

const (
	RoleAdmin    Role = "admin"    // Can manage users, apiaries, hives and API keys, and delete data
	RoleManager  Role = "manager"  // Can create and update apiaries, hives, readings and API keys
	RoleObserver Role = "observer" // Read-only access within the organisation
)

// Roles is the closed set of known roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleObserver}

// ParseRole converts a string into a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r.OneOf(Roles...)
}

// OneOf reports whether r is one of roles
func (r Role) OneOf(roles ...Role) bool {
	for _, other := range roles {
		if r == other {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"` // never serialize
	Role         Role      `json:"role"`
	OrgID        int64     `json:"organisation_id"`
	OrgName      string    `json:"organisation_name,omitempty"` // only populated by joined reads
	CreatedAt    time.Time `json:"created_at"`
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains at least one letter and one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// NormaliseEmail lower-cases and trims an email address so lookups are case-insensitive.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
