package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/hives"
	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/Yasserbhb/BeeGuardAI/users"
)

// Store hands out the repositories bound to one database
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Users() users.Repo {
	return NewUserRepo(s.db)
}

func (s *Store) Orgs() orgs.Repo {
	return NewOrgRepo(s.db)
}

func (s *Store) APIKeys() apikeys.Repo {
	return NewAPIKeyRepo(s.db)
}

func (s *Store) Hives() hives.Repo {
	return NewHiveRepo(s.db)
}

func (s *Store) Apiaries() hives.ApiaryRepo {
	return NewApiaryRepo(s.db)
}

func (s *Store) Readings() readings.Repo {
	return NewReadingRepo(s.db)
}

func (s *Store) Settings() alerts.Repo {
	return NewSettingsRepo(s.db)
}

// CreateOrgWithAdmin inserts an organisation and its first user in one transaction. A name
// conflict on the organisation also matches orgs.ErrNameTaken.
func (s *Store) CreateOrgWithAdmin(ctx context.Context, org *orgs.Organisation, admin *users.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("[Store CreateOrgWithAdmin] failed to begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := NewOrgRepo(tx).Create(ctx, org); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return fmt.Errorf("%w: %w", orgs.ErrNameTaken, err)
		}
		return err
	}
	admin.OrgID = org.ID
	admin.OrgName = org.Name
	if err := NewUserRepo(tx).Create(ctx, admin); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[Store CreateOrgWithAdmin] failed to commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
