package alerts

import "context"

// Recipient is a user of an organisation with hornet alerts enabled
type Recipient struct {
	UserID    int64
	Email     string // alert address, falling back to the account email
	Threshold int
}

type Repo interface {
	// Get returns errors.ErrNotFound when the user never saved settings
	Get(ctx context.Context, userID int64) (*Settings, error)
	Upsert(ctx context.Context, settings *Settings) error
	Recipients(ctx context.Context, orgID int64) ([]Recipient, error)
}
