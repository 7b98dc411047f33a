package server

import (
	"net/http"

	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	writers = []users.Role{users.RoleAdmin, users.RoleManager}
	admins  = []users.Role{users.RoleAdmin}
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.LoginRateLimit()))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.LoginRateLimit()))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.LogoutHandler())
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.RequireAuth()))

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.Session(admins...)...))
	s.RegisterRouteFunc("PUT "+RouteUserRole, ChainMiddleware(s.ChangeRoleHandler(), s.Session(admins...)...))

	// API KEYS
	s.RegisterRouteFunc("POST "+RouteIoTKeys, ChainMiddleware(s.GenerateAPIKeyHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("GET "+RouteIoTKeys, ChainMiddleware(s.ListAPIKeysHandler(), s.Session()...))
	s.RegisterRouteFunc("DELETE "+RouteIoTKey, ChainMiddleware(s.DeactivateAPIKeyHandler(), s.Session(writers...)...))

	// DEVICES
	s.RegisterRouteFunc("POST "+RouteIoTRegisterHive, ChainMiddleware(s.DeviceRegisterHiveHandler(), s.Device()...))
	s.RegisterRouteFunc("POST "+RouteIoTData, ChainMiddleware(s.DeviceDataHandler(), s.Device()...))

	// APIARIES
	s.RegisterRouteFunc("GET "+RouteApiaries, ChainMiddleware(s.ListApiariesHandler(), s.Session()...))
	s.RegisterRouteFunc("POST "+RouteApiaries, ChainMiddleware(s.CreateApiaryHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("PUT "+RouteApiary, ChainMiddleware(s.UpdateApiaryHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("DELETE "+RouteApiary, ChainMiddleware(s.DeleteApiaryHandler(), s.Session(admins...)...))

	// HIVES
	s.RegisterRouteFunc("GET "+RouteHives, ChainMiddleware(s.ListHivesHandler(), s.Session()...))
	s.RegisterRouteFunc("POST "+RouteHives, ChainMiddleware(s.CreateHiveHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("GET "+RouteHive, ChainMiddleware(s.GetHiveHandler(), s.Session()...))
	s.RegisterRouteFunc("PUT "+RouteHive, ChainMiddleware(s.UpdateHiveHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("DELETE "+RouteHive, ChainMiddleware(s.DeleteHiveHandler(), s.Session(admins...)...))

	// READINGS
	s.RegisterRouteFunc("POST "+RouteReadings, ChainMiddleware(s.CreateReadingHandler(), s.Session(writers...)...))
	s.RegisterRouteFunc("GET "+RouteReadingsLatest, ChainMiddleware(s.DashboardHandler(), s.Session()...))
	s.RegisterRouteFunc("GET "+RouteHiveReadings, ChainMiddleware(s.HiveReadingsHandler(), s.Session()...))
	s.RegisterRouteFunc("GET "+RouteHiveReadingsLatest, ChainMiddleware(s.HiveLatestReadingHandler(), s.Session()...))

	// SETTINGS
	s.RegisterRouteFunc("GET "+RouteSettings, ChainMiddleware(s.GetSettingsHandler(), s.Session()...))
	s.RegisterRouteFunc("PUT "+RouteSettings, ChainMiddleware(s.UpdateSettingsHandler(), s.Session()...))

	// SYSTEM
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}

// Session returns the middleware of a session-authenticated route, restricted to roles when
// any are given.
func (s *Server) Session(roles ...users.Role) []func(http.HandlerFunc) http.HandlerFunc {
	mw := []func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth()}
	if len(roles) > 0 {
		mw = append(mw, s.RequireRole(roles...))
	}
	return mw
}

// Device returns the middleware of an API key authenticated route.
func (s *Server) Device() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{s.DeviceRateLimit(), s.RequireAPIKey(), s.APIKeyRateLimit()}
}
