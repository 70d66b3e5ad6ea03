package config

import (
	"os"
)

// Config holds the HTTP facade settings. The remote table store reads its
// own settings from the environment at first use (see internal/database).
type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
