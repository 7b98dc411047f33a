package alerts

import "fmt"

const (
	DefaultHornetThreshold = 5 // percent of bee traffic
	DefaultFrequency       = "weekly"
	DefaultDayOfWeek       = 1
	DefaultHourOfDay       = 8
)

type AlertSettings struct {
	Enabled         bool   `json:"enabled"`
	Email           string `json:"email"`
	HornetThreshold int    `json:"hornetThreshold"`
}

type ReportSettings struct {
	Enabled   bool   `json:"enabled"`
	Email     string `json:"email"`
	Frequency string `json:"frequency"` // daily, weekly or monthly
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday
	HourOfDay int    `json:"hourOfDay"`
}

// Settings are a user's notification preferences
type Settings struct {
	UserID  int64          `json:"-"`
	Alerts  AlertSettings  `json:"alerts"`
	Reports ReportSettings `json:"reports"`
}

// Defaults returns the settings of a user who never saved any
func Defaults(userID int64, email string) Settings {
	return Settings{
		UserID: userID,
		Alerts: AlertSettings{
			Email:           email,
			HornetThreshold: DefaultHornetThreshold,
		},
		Reports: ReportSettings{
			Email:     email,
			Frequency: DefaultFrequency,
			DayOfWeek: DefaultDayOfWeek,
			HourOfDay: DefaultHourOfDay,
		},
	}
}

// WithFallbackEmail fills empty addresses with the account email
func (s Settings) WithFallbackEmail(email string) Settings {
	if s.Alerts.Email == "" {
		s.Alerts.Email = email
	}
	if s.Reports.Email == "" {
		s.Reports.Email = email
	}
	return s
}

func (s Settings) Validate() error {
	if s.Alerts.HornetThreshold < 0 || s.Alerts.HornetThreshold > 100 {
		return fmt.Errorf("hornetThreshold must be between 0 and 100")
	}
	switch s.Reports.Frequency {
	case "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("frequency must be daily, weekly or monthly")
	}
	if s.Reports.DayOfWeek < 0 || s.Reports.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek must be between 0 and 6")
	}
	if s.Reports.HourOfDay < 0 || s.Reports.HourOfDay > 23 {
		return fmt.Errorf("hourOfDay must be between 0 and 23")
	}
	return nil
}
