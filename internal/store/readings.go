package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/readings"
)

const readingColumns = `id, hive_id, hornets, bees_in, bees_out, temperature, humidity, bee_state, acoustic_state, recorded_at`

// ReadingRepo implements readings.Repo
type ReadingRepo struct {
	db DBTX
}

func NewReadingRepo(db DBTX) *ReadingRepo {
	return &ReadingRepo{db: db}
}

var _ readings.Repo = (*ReadingRepo)(nil)

// Insert stores the reading. A zero RecordedAt is stamped with the database clock.
func (r *ReadingRepo) Insert(ctx context.Context, reading *readings.Reading) error {
	var recordedAt any
	if !reading.RecordedAt.IsZero() {
		recordedAt = formatTime(reading.RecordedAt)
	}

	var stored string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO readings (hive_id, hornets, bees_in, bees_out, temperature, humidity, bee_state, acoustic_state, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, strftime('%Y-%m-%d %H:%M:%f', 'now')))
		 RETURNING id, recorded_at`,
		reading.HiveID, reading.Hornets, reading.BeesIn, reading.BeesOut,
		reading.Temperature, reading.Humidity, reading.BeeState, reading.AcousticState, recordedAt,
	).Scan(&reading.ID, &stored)
	if err != nil {
		return errors.Wrapf(translate(err), "[ReadingRepo Insert] failed to insert reading for hive %d", reading.HiveID)
	}
	reading.RecordedAt, err = parseTime(stored)
	return err
}

func (r *ReadingRepo) Latest(ctx context.Context, hiveID int64) (*readings.Reading, error) {
	reading, err := scanReading(r.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+` FROM readings WHERE hive_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1`, hiveID))
	return reading, errors.Wrapf(err, "[ReadingRepo Latest] hive %d", hiveID)
}

func (r *ReadingRepo) History(ctx context.Context, q readings.Query) ([]*readings.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE hive_id = ?`
	args := []any{q.HiveID}
	if !q.Since.IsZero() {
		query += ` AND recorded_at >= ?`
		args = append(args, formatTime(q.Since))
	}
	query += ` ORDER BY recorded_at DESC, id DESC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "[ReadingRepo History] failed to query hive %d", q.HiveID)
	}
	defer rows.Close()

	list := make([]*readings.Reading, 0)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "[ReadingRepo History] failed to scan reading")
		}
		list = append(list, reading)
	}
	return list, rows.Err()
}

// LatestByOrg returns every hive of the organisation with its most recent reading, or nil
func (r *ReadingRepo) LatestByOrg(ctx context.Context, orgID int64) ([]*readings.HiveLatest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.name, h.location,
		       r.id, r.hornets, r.bees_in, r.bees_out, r.temperature, r.humidity, r.bee_state, r.acoustic_state, r.recorded_at
		FROM hives h
		LEFT JOIN readings r ON r.id = (
		    SELECT id FROM readings WHERE hive_id = h.id ORDER BY recorded_at DESC, id DESC LIMIT 1
		)
		WHERE h.organisation_id = ?
		ORDER BY h.name`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[ReadingRepo LatestByOrg] failed to query org %d", orgID)
	}
	defer rows.Close()

	list := make([]*readings.HiveLatest, 0)
	for rows.Next() {
		var (
			row                               readings.HiveLatest
			id, hornets, beesIn, beesOut      sql.NullInt64
			temperature, humidity             sql.NullFloat64
			beeState, acousticState, recorded sql.NullString
		)
		if err := rows.Scan(&row.HiveID, &row.Name, &row.Location,
			&id, &hornets, &beesIn, &beesOut, &temperature, &humidity, &beeState, &acousticState, &recorded); err != nil {
			return nil, errors.Wrapf(err, "[ReadingRepo LatestByOrg] failed to scan row")
		}
		if id.Valid {
			recordedAt, err := parseTime(recorded.String)
			if err != nil {
				return nil, err
			}
			row.Latest = &readings.Reading{
				ID:            id.Int64,
				HiveID:        row.HiveID,
				Hornets:       int(hornets.Int64),
				BeesIn:        int(beesIn.Int64),
				BeesOut:       int(beesOut.Int64),
				Temperature:   nullFloat(temperature),
				Humidity:      nullFloat(humidity),
				BeeState:      beeState.String,
				AcousticState: acousticState.String,
				RecordedAt:    recordedAt,
			}
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

func (r *ReadingRepo) TotalsSince(ctx context.Context, hiveID int64, since time.Time) (readings.Totals, error) {
	var totals readings.Totals
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hornets), 0), COALESCE(SUM(bees_in + bees_out), 0)
		 FROM readings WHERE hive_id = ? AND recorded_at >= ?`,
		hiveID, formatTime(since),
	).Scan(&totals.Hornets, &totals.Bees)
	if err != nil {
		return readings.Totals{}, errors.Wrapf(err, "[ReadingRepo TotalsSince] hive %d", hiveID)
	}
	return totals, nil
}

func scanReading(s scanner) (*readings.Reading, error) {
	var (
		reading               readings.Reading
		temperature, humidity sql.NullFloat64
		recordedAt            string
	)
	if err := s.Scan(&reading.ID, &reading.HiveID, &reading.Hornets, &reading.BeesIn, &reading.BeesOut,
		&temperature, &humidity, &reading.BeeState, &reading.AcousticState, &recordedAt); err != nil {
		return nil, translate(err)
	}
	reading.Temperature = nullFloat(temperature)
	reading.Humidity = nullFloat(humidity)

	var err error
	if reading.RecordedAt, err = parseTime(recordedAt); err != nil {
		return nil, err
	}
	return &reading, nil
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
