package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port    string `env:"PORT, default=3000"`
	AppName string `env:"APP_NAME, default=BeeGuardAI"`
	Env     string `env:"ENV, default=DEV"`
	DBPath  string `env:"DB_PATH, default=./data/beeguard.db"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "3000"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetEnv returns the deployment environment, "DEV" enables route and request logging to the console
func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetDBPath() string {
	return e.DBPath
}
