package orgs

import "context"

type Repo interface {
	Create(ctx context.Context, org *Organisation) error
	Get(ctx context.Context, id int64) (*Organisation, error)
	GetByName(ctx context.Context, name string) (*Organisation, error)
}
