package alerts_test

import (
	"testing"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := alerts.Defaults(7, "a@b.com")
	require.Equal(t, int64(7), s.UserID)
	require.False(t, s.Alerts.Enabled)
	require.Equal(t, "a@b.com", s.Alerts.Email)
	require.Equal(t, 5, s.Alerts.HornetThreshold)
	require.Equal(t, "weekly", s.Reports.Frequency)
	require.Equal(t, 1, s.Reports.DayOfWeek)
	require.Equal(t, 8, s.Reports.HourOfDay)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	base := alerts.Defaults(1, "a@b.com")

	tests := []struct {
		name   string
		modify func(s *alerts.Settings)
	}{
		{"threshold above 100", func(s *alerts.Settings) { s.Alerts.HornetThreshold = 101 }},
		{"negative threshold", func(s *alerts.Settings) { s.Alerts.HornetThreshold = -1 }},
		{"unknown frequency", func(s *alerts.Settings) { s.Reports.Frequency = "hourly" }},
		{"day of week", func(s *alerts.Settings) { s.Reports.DayOfWeek = 7 }},
		{"hour of day", func(s *alerts.Settings) { s.Reports.HourOfDay = 24 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.modify(&s)
			require.Error(t, s.Validate())
		})
	}
}

func TestSettings_WithFallbackEmail(t *testing.T) {
	s := alerts.Settings{}
	s.Reports.Email = "reports@b.com"
	s = s.WithFallbackEmail("a@b.com")
	require.Equal(t, "a@b.com", s.Alerts.Email)
	require.Equal(t, "reports@b.com", s.Reports.Email)
}
