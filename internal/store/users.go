package store

import (
	"context"

	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/users"
)

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.password_hash, u.role, u.organisation_id, o.name, u.created_at`

const userSelect = `SELECT ` + userColumns + ` FROM users u JOIN organisations o ON o.id = u.organisation_id`

// UserRepo implements users.Repo
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

var _ users.Repo = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, first_name, last_name, password_hash, role, organisation_id)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id, created_at`,
		user.Email, user.FirstName, user.LastName, user.PasswordHash, string(user.Role), user.OrgID,
	).Scan(&user.ID, &createdAt)
	if err != nil {
		return errors.Wrapf(translate(err), "[UserRepo Create] failed to insert user %s", user.Email)
	}
	user.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.email = ?`, email))
	if err != nil {
		return nil, errors.Wrapf(err, "[UserRepo GetByEmail] %s", email)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = ?`, id))
	if err != nil {
		return nil, errors.Wrapf(err, "[UserRepo GetByID] %d", id)
	}
	return u, nil
}

func (r *UserRepo) ListByOrg(ctx context.Context, orgID int64) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` WHERE u.organisation_id = ? ORDER BY u.id`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[UserRepo ListByOrg] failed to query users")
	}
	defer rows.Close()

	list := make([]*users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "[UserRepo ListByOrg] failed to scan user")
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role users.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return errors.Wrapf(err, "[UserRepo UpdateRole] failed to update user %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[UserRepo UpdateRole] user %d", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*users.User, error) {
	var (
		u         users.User
		role      string
		createdAt string
	)
	if err := s.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &role, &u.OrgID, &u.OrgName, &createdAt); err != nil {
		return nil, translate(err)
	}
	u.Role = users.Role(role)
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
