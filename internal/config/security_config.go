package config

import "time"

type Security struct {
	MaxSessionAge   time.Duration `env:"SESSION_MAX_AGE, default=24h"`
	CookieSecure    bool          `env:"COOKIE_SECURE, default=false"`
	APIKeyPrefix    string        `env:"API_KEY_PREFIX, default=bga"`
	RateLimiting    bool          `env:"RATE_LIMITING, default=true"`
	LoginRateLimit  int           `env:"RATE_LIMIT_LOGIN, default=20"`    // requests per minute per IP
	DeviceRateLimit int           `env:"RATE_LIMIT_DEVICE, default=600"`  // requests per minute per IP
	APIKeyRateLimit int           `env:"RATE_LIMIT_API_KEY, default=120"` // requests per minute per verified key
	SessionSweep    time.Duration `env:"SESSION_SWEEP_INTERVAL, default=0s"`
}

var _ SecurityConfig = Security{}

func (s Security) GetMaxSessionAge() time.Duration {
	if s.MaxSessionAge <= 0 {
		return 24 * time.Hour
	}
	return s.MaxSessionAge
}

func (s Security) GetCookieSecure() bool {
	return s.CookieSecure
}

func (s Security) GetAPIKeyPrefix() string {
	if s.APIKeyPrefix == "" {
		return "bga"
	}
	return s.APIKeyPrefix
}

func (s Security) GetEnableRateLimiting() bool {
	return s.RateLimiting
}

func (s Security) GetLoginRateLimit() int {
	return s.LoginRateLimit
}

func (s Security) GetDeviceRateLimit() int {
	return s.DeviceRateLimit
}

func (s Security) GetAPIKeyRateLimit() int {
	return s.APIKeyRateLimit
}

// GetSessionSweepInterval returns how often expired sessions are purged, 0 when they are only
// removed lazily on access
func (s Security) GetSessionSweepInterval() time.Duration {
	if s.SessionSweep < 0 {
		return 0
	}
	return s.SessionSweep
}
