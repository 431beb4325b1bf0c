// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	Addr         string        // HTTP listen address
	DataFile     string        // record store persistence file
	KVFile       string        // key-value side-store persistence file
	BackupDir    string        // directory for backup files
	LogLevel     string        // debug, info, warn, error
	Development  bool          // pretty logs, gin debug mode
	StoreTimeout time.Duration // per-operation store deadline
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:         ":" + getEnv("APP_PORT", "8080"),
		DataFile:     getEnv("DATA_FILE", "data/shopbooks.json"),
		KVFile:       getEnv("KV_FILE", "data/shopbooks-kv.json"),
		BackupDir:    getEnv("BACKUP_DIR", "backups"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Development:  getEnv("APP_ENV", "production") == "development",
		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
