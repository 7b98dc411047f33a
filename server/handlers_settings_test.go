package server_test

import (
	"net/http"
	"testing"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/server"
	"github.com/stretchr/testify/require"
)

func TestSettingsHandlers(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.register(t, "ada@lac.fr", "Rucher du Lac")

	t.Run("defaults", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteSettings, nil, withToken(admin.token))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, alerts.Defaults(0, "ada@lac.fr"), decode[alerts.Settings](t, rec), "user id is not serialised")
	})

	t.Run("update reports only", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, server.RouteSettings, map[string]any{
			"reports": map[string]any{"enabled": true, "frequency": "daily", "dayOfWeek": 0, "hourOfDay": 18},
		}, withToken(admin.token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = f.do(t, http.MethodGet, server.RouteSettings, nil, withToken(admin.token))
		settings := decode[alerts.Settings](t, rec)
		require.Equal(t, "daily", settings.Reports.Frequency)
		require.Equal(t, 18, settings.Reports.HourOfDay)
		require.Equal(t, "ada@lac.fr", settings.Reports.Email)
		require.Equal(t, alerts.DefaultHornetThreshold, settings.Alerts.HornetThreshold)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, server.RouteSettings, map[string]any{
			"alerts": map[string]any{"enabled": true, "hornetThreshold": 150},
		}, withToken(admin.token))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, server.RouteSettings, map[string]any{}, withToken(admin.token))
		requireError(t, rec, http.StatusBadRequest, "No fields to update")
	})

	t.Run("requires session", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteSettings, nil)
		requireError(t, rec, http.StatusUnauthorized, "Authentication required")
	})
}
