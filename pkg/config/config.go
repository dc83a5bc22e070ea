package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	dbFileName     = "smrs.db"
	defaultDataDir = "/smrs/data"
)

type Config struct {
	Port        string
	DatabaseURL string
	AppEnv      string
}

// Load reads configuration from the process environment. This is the
// only place that does; everything downstream receives plain values.
func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: databaseURL(),
		AppEnv:      getEnv("APP_ENV", "local"),
	}
}

// databaseURL resolves the store location. An explicit DATABASE_URL
// wins and may point at a remote libsql database; otherwise the smrs.db
// file lives under DATA_DIR, then the web server's DOCUMENT_ROOT, then
// /smrs/data.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	dir := getEnv("DATA_DIR", getEnv("DOCUMENT_ROOT", defaultDataDir))
	return filepath.Join(dir, dbFileName)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
