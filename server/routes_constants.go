package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthRegister = "/api/auth/register"
	RouteAuthLogin    = "/api/auth/login"
	RouteAuthLogout   = "/api/auth/logout"
	RouteAuthMe       = "/api/auth/me"

	// User administration
	RouteUsers    = "/api/users"
	RouteUserRole = "/api/users/{id}/role"

	// Device keys and device ingestion (API key auth)
	RouteIoTKeys         = "/api/iot/keys"
	RouteIoTKey          = "/api/iot/keys/{id}"
	RouteIoTRegisterHive = "/api/iot/register-hive"
	RouteIoTData         = "/api/iot/data"

	// Apiaries and hives
	RouteApiaries = "/api/apiaries"
	RouteApiary   = "/api/apiaries/{id}"
	RouteHives    = "/api/hives"
	RouteHive     = "/api/hives/{id}"

	// Readings
	RouteReadings           = "/api/readings"
	RouteReadingsLatest     = "/api/readings/latest"
	RouteHiveReadings       = "/api/hives/{id}/readings"
	RouteHiveReadingsLatest = "/api/hives/{id}/readings/latest"

	// Settings
	RouteSettings = "/api/settings"

	// System
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
