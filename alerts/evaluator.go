package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/hives"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/rs/zerolog/log"
)

const (
	DefaultCooldown = 60 * time.Minute
	DefaultWindow   = time.Hour
)

// Alert reports a hive whose hornet ratio reached a user's threshold
type Alert struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	OrgID     int64     `json:"organisation_id"`
	HiveID    int64     `json:"hive_id"`
	HiveName  string    `json:"hive_name"`
	Hornets   int       `json:"hornets"`
	Bees      int       `json:"bees"`
	Ratio     float64   `json:"ratio"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Notifiers fans an alert out to every notifier and joins their errors
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes alerts to the application log
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, a Alert) error {
	log.Warn().
		Int64("hive_id", a.HiveID).
		Str("hive", a.HiveName).
		Int64("user_id", a.UserID).
		Str("email", a.Email).
		Int("hornets", a.Hornets).
		Int("bees", a.Bees).
		Float64("ratio", a.Ratio).
		Int("threshold", a.Threshold).
		Msg("hornet alert")
	return nil
}

type cooldownKey struct {
	userID int64
	hiveID int64
}

// Evaluator checks a hive's recent hornet activity against each recipient's threshold after
// a reading is accepted. A (user, hive) pair is not alerted again within the cooldown.
type Evaluator struct {
	settings Repo
	readings readings.Repo
	notifier Notifier
	cooldown time.Duration
	window   time.Duration
	nowTime  func() time.Time

	mu       sync.Mutex
	lastSent map[cooldownKey]time.Time
}

// EvaluatorOption modifies an Evaluator
type EvaluatorOption func(*Evaluator)

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(nowFunc func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.nowTime = nowFunc
	}
}

func WithCooldown(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		e.cooldown = d
	}
}

func NewEvaluator(settings Repo, readingsRepo readings.Repo, notifier Notifier, options ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		settings: settings,
		readings: readingsRepo,
		notifier: notifier,
		cooldown: DefaultCooldown,
		window:   DefaultWindow,
		nowTime:  time.Now,
		lastSent: make(map[cooldownKey]time.Time),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Evaluate returns the alerts that were delivered for hive
func (e *Evaluator) Evaluate(ctx context.Context, hive *hives.Hive) ([]Alert, error) {
	recipients, err := e.settings.Recipients(ctx, hive.OrgID)
	if err != nil {
		return nil, fmt.Errorf("[Evaluator Evaluate] failed to load recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	now := e.nowTime()
	totals, err := e.readings.TotalsSince(ctx, hive.ID, now.Add(-e.window))
	if err != nil {
		return nil, fmt.Errorf("[Evaluator Evaluate] failed to load totals: %w", err)
	}
	if totals.Hornets == 0 {
		return nil, nil
	}
	ratio := totals.HornetRatio()

	var sent []Alert
	var errs []error
	for _, rcpt := range recipients {
		if ratio < float64(rcpt.Threshold) {
			continue
		}
		release, ok := e.reserve(cooldownKey{rcpt.UserID, hive.ID}, now)
		if !ok {
			continue
		}

		alert := Alert{
			UserID:    rcpt.UserID,
			Email:     rcpt.Email,
			OrgID:     hive.OrgID,
			HiveID:    hive.ID,
			HiveName:  hive.Name,
			Hornets:   totals.Hornets,
			Bees:      totals.Bees,
			Ratio:     ratio,
			Threshold: rcpt.Threshold,
			At:        now,
		}
		if err := e.notifier.Notify(ctx, alert); err != nil {
			release()
			errs = append(errs, err)
			continue
		}
		sent = append(sent, alert)
	}

	return sent, errors.Join(errs...)
}

// reserve starts the cooldown of key at now unless it is already running. The returned
// release func restores the previous state when the alert could not be delivered.
func (e *Evaluator) reserve(key cooldownKey, now time.Time) (release func(), ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	last, had := e.lastSent[key]
	if had && now.Sub(last) < e.cooldown {
		return nil, false
	}
	e.lastSent[key] = now

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if current, ok := e.lastSent[key]; !ok || !current.Equal(now) {
			return
		}
		if had {
			e.lastSent[key] = last
		} else {
			delete(e.lastSent, key)
		}
	}, true
}
