package orgs

import (
	"errors"
	"fmt"
	"time"
)

// ErrNameTaken is returned when creating an organisation whose name is already in use
var ErrNameTaken = errors.New("organisation name taken")

// Type classifies an organisation
type Type string

const (
	TypeBeekeeper Type = "beekeeper"
	TypeResearch  Type = "research"
	TypeCommunity Type = "community"
)

// ParseType returns the organisation type, defaulting to beekeeper when empty.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "":
		return TypeBeekeeper, nil
	case TypeBeekeeper, TypeResearch, TypeCommunity:
		return t, nil
	default:
		return "", fmt.Errorf("unknown organisation type %q", s)
	}
}

// Organisation is the unit of data isolation. Every apiary, hive, API key and reading belongs to exactly one.
type Organisation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
