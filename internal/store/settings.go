package store

import (
	"context"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
)

// SettingsRepo implements alerts.Repo
type SettingsRepo struct {
	db DBTX
}

func NewSettingsRepo(db DBTX) *SettingsRepo {
	return &SettingsRepo{db: db}
}

var _ alerts.Repo = (*SettingsRepo)(nil)

func (r *SettingsRepo) Get(ctx context.Context, userID int64) (*alerts.Settings, error) {
	s := alerts.Settings{UserID: userID}
	var alertsEnabled, reportsEnabled int
	err := r.db.QueryRowContext(ctx, `
		SELECT alerts_enabled, alerts_email, alerts_threshold,
		       reports_enabled, reports_email, reports_frequency, reports_day_of_week, reports_hour_of_day
		FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&alertsEnabled, &s.Alerts.Email, &s.Alerts.HornetThreshold,
		&reportsEnabled, &s.Reports.Email, &s.Reports.Frequency, &s.Reports.DayOfWeek, &s.Reports.HourOfDay)
	if err != nil {
		return nil, errors.Wrapf(translate(err), "[SettingsRepo Get] user %d", userID)
	}
	s.Alerts.Enabled = alertsEnabled != 0
	s.Reports.Enabled = reportsEnabled != 0
	return &s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s *alerts.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, alerts_enabled, alerts_email, alerts_threshold,
		                           reports_enabled, reports_email, reports_frequency, reports_day_of_week, reports_hour_of_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		    alerts_enabled = excluded.alerts_enabled,
		    alerts_email = excluded.alerts_email,
		    alerts_threshold = excluded.alerts_threshold,
		    reports_enabled = excluded.reports_enabled,
		    reports_email = excluded.reports_email,
		    reports_frequency = excluded.reports_frequency,
		    reports_day_of_week = excluded.reports_day_of_week,
		    reports_hour_of_day = excluded.reports_hour_of_day`,
		s.UserID, boolToInt(s.Alerts.Enabled), s.Alerts.Email, s.Alerts.HornetThreshold,
		boolToInt(s.Reports.Enabled), s.Reports.Email, s.Reports.Frequency, s.Reports.DayOfWeek, s.Reports.HourOfDay)
	if err != nil {
		return errors.Wrapf(translate(err), "[SettingsRepo Upsert] user %d", s.UserID)
	}
	return nil
}

// Recipients lists the users of an organisation with hornet alerts enabled
func (r *SettingsRepo) Recipients(ctx context.Context, orgID int64) ([]alerts.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, COALESCE(NULLIF(s.alerts_email, ''), u.email), s.alerts_threshold
		FROM user_settings s JOIN users u ON u.id = s.user_id
		WHERE u.organisation_id = ? AND s.alerts_enabled = 1
		ORDER BY u.id`, orgID)
	if err != nil {
		return nil, errors.Wrapf(err, "[SettingsRepo Recipients] org %d", orgID)
	}
	defer rows.Close()

	var list []alerts.Recipient
	for rows.Next() {
		var rcpt alerts.Recipient
		if err := rows.Scan(&rcpt.UserID, &rcpt.Email, &rcpt.Threshold); err != nil {
			return nil, errors.Wrapf(err, "[SettingsRepo Recipients] failed to scan row")
		}
		list = append(list, rcpt)
	}
	return list, rows.Err()
}
