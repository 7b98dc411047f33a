package auth

import (
	"strings"

	apperrors "github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/users"
)

// RegisterParameters describes a self-service sign up: a new organisation and its admin
type RegisterParameters struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	OrgName   string `json:"organisation_name"`
	OrgType   string `json:"organisation_type"`
	Address   string `json:"address"`
}

// Normalise trims the free text fields and lower-cases the email
func (p *RegisterParameters) Normalise() {
	p.Email = users.NormaliseEmail(p.Email)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.OrgName = strings.TrimSpace(p.OrgName)
	p.Address = strings.TrimSpace(p.Address)
}

func (p *RegisterParameters) Validate() error {
	if p.Email == "" || p.Password == "" || p.OrgName == "" {
		return apperrors.Invalidf("Email, password and organisation name are required")
	}
	if !strings.Contains(p.Email, "@") {
		return apperrors.Invalidf("Invalid email address")
	}
	if err := users.ValidatePasswordStrength(p.Password); err != nil {
		return apperrors.Invalidf("%s", capitalise(err.Error()))
	}
	if _, err := orgs.ParseType(p.OrgType); err != nil {
		return apperrors.Invalidf("Organisation type must be beekeeper, research or community")
	}
	return nil
}

// NewUserParameters describes a user added by an admin to their own organisation
type NewUserParameters struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (p *NewUserParameters) Normalise() {
	p.Email = users.NormaliseEmail(p.Email)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
}

func (p *NewUserParameters) Validate() error {
	if p.Email == "" || p.Password == "" {
		return apperrors.Invalidf("Email and password are required")
	}
	if !strings.Contains(p.Email, "@") {
		return apperrors.Invalidf("Invalid email address")
	}
	if err := users.ValidatePasswordStrength(p.Password); err != nil {
		return apperrors.Invalidf("%s", capitalise(err.Error()))
	}
	if p.Role != "" {
		if _, err := users.ParseRole(p.Role); err != nil {
			return apperrors.Invalidf("Role must be admin, manager or observer")
		}
	}
	return nil
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
