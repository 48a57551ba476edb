package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the service settings.
type Config struct {
	ListenAddr   string // HTTP listen address
	DatabasePath string // sqlite database file
	LogLevel     string // logrus level name
}

// Load reads configuration from a .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment defaults")
	}

	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "analyzer.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
