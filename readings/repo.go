package readings

import (
	"context"
	"time"
)

// Query selects a hive's history, newest first
type Query struct {
	HiveID int64
	Limit  int
	Since  time.Time // zero means no lower bound
}

type Repo interface {
	Insert(ctx context.Context, reading *Reading) error
	Latest(ctx context.Context, hiveID int64) (*Reading, error)
	History(ctx context.Context, q Query) ([]*Reading, error)
	LatestByOrg(ctx context.Context, orgID int64) ([]*HiveLatest, error)
	TotalsSince(ctx context.Context, hiveID int64, since time.Time) (Totals, error)
}
