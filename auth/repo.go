package auth

import (
	"context"

	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/users"
)

// OrgCreator creates an organisation together with its first user, atomically
type OrgCreator interface {
	CreateOrgWithAdmin(ctx context.Context, org *orgs.Organisation, admin *users.User) error
}
