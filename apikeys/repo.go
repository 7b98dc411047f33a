package apikeys

import (
	"context"
	"time"
)

// Repo persists API keys. Lookups return errors.ErrNotFound when no row matches.
type Repo interface {
	Create(ctx context.Context, key *APIKey) error
	Get(ctx context.Context, id int64) (*APIKey, error)
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*APIKey, error)
	SetActive(ctx context.Context, id int64, active bool) error
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
}
