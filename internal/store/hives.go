package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Yasserbhb/BeeGuardAI/hives"
	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
)

const hiveSelect = `SELECT h.id, h.name, h.location, h.apiary_id, COALESCE(a.name, ''), h.device_id, h.organisation_id, h.created_at
	FROM hives h LEFT JOIN apiaries a ON a.id = h.apiary_id`

// HiveRepo implements hives.Repo
type HiveRepo struct {
	db DBTX
}

func NewHiveRepo(db DBTX) *HiveRepo {
	return &HiveRepo{db: db}
}

var _ hives.Repo = (*HiveRepo)(nil)

func (r *HiveRepo) Create(ctx context.Context, hive *hives.Hive) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO hives (name, location, apiary_id, device_id, organisation_id)
		 VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`,
		hive.Name, hive.Location, nullableID(hive.ApiaryID), hive.DeviceID, hive.OrgID,
	).Scan(&hive.ID, &createdAt)
	if err != nil {
		return errors.Wrapf(translate(err), "[HiveRepo Create] failed to insert hive %s", hive.Name)
	}
	hive.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *HiveRepo) Get(ctx context.Context, id int64) (*hives.Hive, error) {
	hive, err := scanHive(r.db.QueryRowContext(ctx, hiveSelect+` WHERE h.id = ?`, id))
	return hive, errors.Wrapf(err, "[HiveRepo Get] %d", id)
}

func (r *HiveRepo) GetByName(ctx context.Context, orgID int64, name string) (*hives.Hive, error) {
	hive, err := scanHive(r.db.QueryRowContext(ctx, hiveSelect+` WHERE h.organisation_id = ? AND h.name = ?`, orgID, name))
	return hive, errors.Wrapf(err, "[HiveRepo GetByName] %s", name)
}

func (r *HiveRepo) GetByDeviceID(ctx context.Context, orgID int64, deviceID string) (*hives.Hive, error) {
	if deviceID == "" {
		return nil, errors.ErrNotFound
	}
	hive, err := scanHive(r.db.QueryRowContext(ctx, hiveSelect+` WHERE h.organisation_id = ? AND h.device_id = ? ORDER BY h.id LIMIT 1`, orgID, deviceID))
	return hive, errors.Wrapf(err, "[HiveRepo GetByDeviceID] %s", deviceID)
}

func (r *HiveRepo) ListByOrg(ctx context.Context, orgID int64) ([]*hives.Hive, error) {
	rows, err := r.db.QueryContext(ctx, hiveSelect+` WHERE h.organisation_id = ? ORDER BY h.name`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[HiveRepo ListByOrg] failed to query hives")
	}
	defer rows.Close()

	list := make([]*hives.Hive, 0)
	for rows.Next() {
		hive, err := scanHive(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "[HiveRepo ListByOrg] failed to scan hive")
		}
		list = append(list, hive)
	}
	return list, rows.Err()
}

func (r *HiveRepo) Update(ctx context.Context, id int64, update hives.HiveUpdate) error {
	if update.Empty() {
		return errors.Invalidf("No fields to update")
	}

	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *update.Name)
	}
	if update.Location != nil {
		sets, args = append(sets, "location = ?"), append(args, *update.Location)
	}
	if update.DeviceID != nil {
		sets, args = append(sets, "device_id = ?"), append(args, *update.DeviceID)
	}
	if update.ApiaryID != nil {
		var apiaryID any
		if *update.ApiaryID != 0 {
			apiaryID = *update.ApiaryID
		}
		sets, args = append(sets, "apiary_id = ?"), append(args, apiaryID)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE hives SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return errors.Wrapf(translate(err), "[HiveRepo Update] failed to update hive %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[HiveRepo Update] hive %d", id)
}

// Delete removes the hive and, through the foreign key cascade, its readings
func (r *HiveRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hives WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "[HiveRepo Delete] failed to delete hive %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[HiveRepo Delete] hive %d", id)
}

func scanHive(s scanner) (*hives.Hive, error) {
	var (
		hive      hives.Hive
		apiaryID  sql.NullInt64
		createdAt string
	)
	if err := s.Scan(&hive.ID, &hive.Name, &hive.Location, &apiaryID, &hive.ApiaryName, &hive.DeviceID, &hive.OrgID, &createdAt); err != nil {
		return nil, translate(err)
	}
	if apiaryID.Valid {
		hive.ApiaryID = &apiaryID.Int64
	}
	var err error
	if hive.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &hive, nil
}

func nullableID(id *int64) any {
	if id == nil || *id == 0 {
		return nil
	}
	return *id
}

// ApiaryRepo implements hives.ApiaryRepo
type ApiaryRepo struct {
	db DBTX
}

func NewApiaryRepo(db DBTX) *ApiaryRepo {
	return &ApiaryRepo{db: db}
}

var _ hives.ApiaryRepo = (*ApiaryRepo)(nil)

func (r *ApiaryRepo) Create(ctx context.Context, apiary *hives.Apiary) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO apiaries (name, location, organisation_id) VALUES (?, ?, ?) RETURNING id, created_at`,
		apiary.Name, apiary.Location, apiary.OrgID,
	).Scan(&apiary.ID, &createdAt)
	if err != nil {
		return errors.Wrapf(translate(err), "[ApiaryRepo Create] failed to insert apiary %s", apiary.Name)
	}
	apiary.CreatedAt, err = parseTime(createdAt)
	return err
}

func (r *ApiaryRepo) Get(ctx context.Context, id int64) (*hives.Apiary, error) {
	apiary, err := scanApiary(r.db.QueryRowContext(ctx,
		`SELECT id, name, location, organisation_id, created_at FROM apiaries WHERE id = ?`, id))
	return apiary, errors.Wrapf(err, "[ApiaryRepo Get] %d", id)
}

func (r *ApiaryRepo) ListByOrg(ctx context.Context, orgID int64) ([]*hives.Apiary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, organisation_id, created_at FROM apiaries WHERE organisation_id = ? ORDER BY name`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[ApiaryRepo ListByOrg] failed to query apiaries")
	}
	defer rows.Close()

	list := make([]*hives.Apiary, 0)
	for rows.Next() {
		apiary, err := scanApiary(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "[ApiaryRepo ListByOrg] failed to scan apiary")
		}
		list = append(list, apiary)
	}
	return list, rows.Err()
}

func (r *ApiaryRepo) Update(ctx context.Context, id int64, update hives.ApiaryUpdate) error {
	if update.Empty() {
		return errors.Invalidf("No fields to update")
	}

	var (
		sets []string
		args []any
	)
	if update.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *update.Name)
	}
	if update.Location != nil {
		sets, args = append(sets, "location = ?"), append(args, *update.Location)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE apiaries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return errors.Wrapf(err, "[ApiaryRepo Update] failed to update apiary %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[ApiaryRepo Update] apiary %d", id)
}

// Delete removes the apiary; its hives are kept and detached
func (r *ApiaryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM apiaries WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "[ApiaryRepo Delete] failed to delete apiary %d", id)
	}
	return errors.Wrapf(rowsAffected(res), "[ApiaryRepo Delete] apiary %d", id)
}

func scanApiary(s scanner) (*hives.Apiary, error) {
	var (
		apiary    hives.Apiary
		createdAt string
	)
	if err := s.Scan(&apiary.ID, &apiary.Name, &apiary.Location, &apiary.OrgID, &createdAt); err != nil {
		return nil, translate(err)
	}
	var err error
	if apiary.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &apiary, nil
}
