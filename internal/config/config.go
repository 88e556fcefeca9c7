// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// MustLoad reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func MustLoad() Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/evenup.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	shutdownTimeout := 10 * time.Second
	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			shutdownTimeout = d
		}
	}

	return Config{
		Addr:            ":" + port,
		DBPath:          dbPath,
		LogLevel:        logLevel,
		ShutdownTimeout: shutdownTimeout,
	}
}
