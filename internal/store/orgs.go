package store

import (
	"context"

	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
)

// OrgRepo implements orgs.Repo
type OrgRepo struct {
	db DBTX
}

func NewOrgRepo(db DBTX) *OrgRepo {
	return &OrgRepo{db: db}
}

var _ orgs.Repo = (*OrgRepo)(nil)

func (r *OrgRepo) Create(ctx context.Context, org *orgs.Organisation) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO organisations (name, type, address) VALUES (?, ?, ?) RETURNING id, created_at`,
		org.Name, string(org.Type), org.Address,
	).Scan(&org.ID, &createdAt)
	if err != nil {
		return errors.Wrapf(translate(err), "[OrgRepo Create] failed to insert organisation %s", org.Name)
	}
	org.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *OrgRepo) Get(ctx context.Context, id int64) (*orgs.Organisation, error) {
	org, err := scanOrg(r.db.QueryRowContext(ctx,
		`SELECT id, name, type, address, created_at FROM organisations WHERE id = ?`, id))
	return org, errors.Wrapf(err, "[OrgRepo Get] %d", id)
}

func (r *OrgRepo) GetByName(ctx context.Context, name string) (*orgs.Organisation, error) {
	org, err := scanOrg(r.db.QueryRowContext(ctx,
		`SELECT id, name, type, address, created_at FROM organisations WHERE name = ?`, name))
	return org, errors.Wrapf(err, "[OrgRepo GetByName] %s", name)
}

func scanOrg(s scanner) (*orgs.Organisation, error) {
	var (
		org       orgs.Organisation
		orgType   string
		createdAt string
	)
	if err := s.Scan(&org.ID, &org.Name, &orgType, &org.Address, &createdAt); err != nil {
		return nil, translate(err)
	}
	org.Type = orgs.Type(orgType)
	var err error
	if org.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &org, nil
}
