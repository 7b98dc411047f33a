package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
)

const apiKeySelect = `SELECT id, key_hash, key_prefix, organisation_id, name, active, created_at, last_used_at FROM api_keys`

// APIKeyRepo implements apikeys.Repo
type APIKeyRepo struct {
	db DBTX
}

func NewAPIKeyRepo(db DBTX) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

var _ apikeys.Repo = (*APIKeyRepo)(nil)

func (r *APIKeyRepo) Create(ctx context.Context, key *apikeys.APIKey) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO api_keys (key_hash, key_prefix, organisation_id, name, active)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		key.KeyHash, key.KeyPrefix, key.OrgID, key.Name, boolToInt(key.Active),
	).Scan(&key.ID, &createdAt)
	if err != nil {
		return errors.Wrapf(translate(err), "[APIKeyRepo Create] failed to insert key")
	}
	key.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *APIKeyRepo) Get(ctx context.Context, id int64) (*apikeys.APIKey, error) {
	key, err := scanAPIKey(r.db.QueryRowContext(ctx, apiKeySelect+` WHERE id = ?`, id))
	return key, errors.Wrapf(err, "[APIKeyRepo Get] %d", id)
}

func (r *APIKeyRepo) GetByHash(ctx context.Context, keyHash string) (*apikeys.APIKey, error) {
	key, err := scanAPIKey(r.db.QueryRowContext(ctx, apiKeySelect+` WHERE key_hash = ?`, keyHash))
	return key, errors.Wrapf(err, "[APIKeyRepo GetByHash] lookup failed")
}

func (r *APIKeyRepo) ListByOrg(ctx context.Context, orgID int64) ([]*apikeys.APIKey, error) {
	rows, err := r.db.QueryContext(ctx, apiKeySelect+` WHERE organisation_id = ? ORDER BY id`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[APIKeyRepo ListByOrg] failed to query keys")
	}
	defer rows.Close()

	list := make([]*apikeys.APIKey, 0)
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "[APIKeyRepo ListByOrg] failed to scan key")
		}
		list = append(list, key)
	}
	return list, rows.Err()
}

func (r *APIKeyRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return errors.Wrapf(err, "[APIKeyRepo SetActive] failed to update key %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[APIKeyRepo SetActive] key %d", id)
}

func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return errors.Wrapf(err, "[APIKeyRepo TouchLastUsed] failed to update key %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[APIKeyRepo TouchLastUsed] key %d", id)
}

func scanAPIKey(s scanner) (*apikeys.APIKey, error) {
	var (
		key       apikeys.APIKey
		active    int
		createdAt string
		lastUsed  sql.NullString
	)
	if err := s.Scan(&key.ID, &key.KeyHash, &key.KeyPrefix, &key.OrgID, &key.Name, &active, &createdAt, &lastUsed); err != nil {
		return nil, translate(err)
	}
	key.Active = active != 0

	var err error
	if key.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		t, err := parseTime(lastUsed.String)
		if err != nil {
			return nil, err
		}
		key.LastUsedAt = &t
	}
	return &key, nil
}
