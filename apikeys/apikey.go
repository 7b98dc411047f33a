package apikeys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// keyBytes is the random part of a key, 32 bytes = 64 hex characters
	keyBytes = 32
	// displayLength is how many leading characters of a key are kept for identification
	displayLength = 15
)

// APIKey is a long-lived device credential bound to one organisation. It never expires by
// time; it stops working only when deactivated. The raw key is never stored, only its
// SHA-256 hash and a short display prefix.
type APIKey struct {
	ID         int64      `json:"id"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"-"`
	OrgID      int64      `json:"organisation_id"`
	Name       string     `json:"name"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Masked returns the key's display prefix followed by an ellipsis
func (k *APIKey) Masked() string {
	return k.KeyPrefix + "..."
}

// Generate creates a new raw key of the form <prefix>_<64 hex chars> together with the
// record to persist for it.
func Generate(prefix string, orgID int64, name string) (string, *APIKey, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", nil, fmt.Errorf("[apikeys Generate] failed to generate random bytes: %w", err)
	}
	raw := prefix + "_" + hex.EncodeToString(b)

	return raw, &APIKey{
		KeyHash:   Hash(raw),
		KeyPrefix: raw[:min(displayLength, len(raw))],
		OrgID:     orgID,
		Name:      name,
		Active:    true,
	}, nil
}

// Hash returns the hex SHA-256 digest of a raw key
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// WellFormed reports whether raw looks like <prefix>_<64 hex chars>
func WellFormed(raw, prefix string) bool {
	rest, ok := strings.CutPrefix(raw, prefix+"_")
	if !ok || len(rest) != keyBytes*2 {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil
}
