package hives

import "context"

// Repo persists hives. Get returns errors.ErrNotFound for unknown ids regardless of
// organisation; callers compare OrgID themselves so that cross-organisation access can be
// told apart from a missing hive.
type Repo interface {
	Create(ctx context.Context, hive *Hive) error
	Get(ctx context.Context, id int64) (*Hive, error)
	GetByName(ctx context.Context, orgID int64, name string) (*Hive, error)
	// GetByDeviceID returns the oldest hive of orgID bound to deviceID
	GetByDeviceID(ctx context.Context, orgID int64, deviceID string) (*Hive, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*Hive, error)
	Update(ctx context.Context, id int64, update HiveUpdate) error
	Delete(ctx context.Context, id int64) error
}

// ApiaryRepo persists apiaries with the same lookup contract as Repo.
type ApiaryRepo interface {
	Create(ctx context.Context, apiary *Apiary) error
	Get(ctx context.Context, id int64) (*Apiary, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*Apiary, error)
	Update(ctx context.Context, id int64, update ApiaryUpdate) error
	Delete(ctx context.Context, id int64) error
}
