package users

import "context"

// Repo persists users. Lookups return errors.ErrNotFound when no row matches.
type Repo interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*User, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}
