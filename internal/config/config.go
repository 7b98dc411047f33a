package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	IntegrationConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDBPath() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetCookieSecure() bool
	GetAPIKeyPrefix() string
	GetEnableRateLimiting() bool
	GetLoginRateLimit() int
	GetDeviceRateLimit() int
	GetAPIKeyRateLimit() int
	GetSessionSweepInterval() time.Duration
}

type IntegrationConfig interface {
	GetOTLPEndpoint() string
	GetNatsURL() string
	GetNatsAlertSubject() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Integrations
}

// New loads a .env file when one is present and then reads the process environment.
func New(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return Load(ctx, envconfig.OsLookuper())
}

// Load reads configuration from the given lookuper, applying defaults.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var c mainConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("[config Load] failed to process environment: %w", err)
	}
	return c, nil
}
