package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the server and jobs. Values come
// from environment variables; a .env file in the working directory is loaded
// first when present.
type Config struct {
	// Server
	Addr           string
	FrontendOrigin string

	// Storage
	DataDir      string
	DatabasePath string
	UploadsDir   string
	LogPath      string

	// Superadmin bootstrap
	AdminEmail string

	// Guests
	DefaultPhoneRegion string

	// Cleanup scheduler
	CleanupInterval time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set externally.
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Addr:               getEnv("ADDR", ":8080"),
		FrontendOrigin:     getEnv("FRONTEND_ORIGIN", "*"),
		DataDir:            dataDir,
		DatabasePath:       getEnv("DATABASE_PATH", filepath.Join(dataDir, "everafter.db")),
		UploadsDir:         getEnv("UPLOADS_DIR", filepath.Join(dataDir, "uploads")),
		LogPath:            getEnv("LOG_PATH", filepath.Join(dataDir, "server.log")),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@localhost"),
		DefaultPhoneRegion: getEnv("PHONE_REGION", "US"),
	}

	hours, err := strconv.Atoi(getEnv("CLEANUP_INTERVAL_HOURS", "24"))
	if err != nil || hours < 1 {
		return nil, fmt.Errorf("invalid CLEANUP_INTERVAL_HOURS: %q", getEnv("CLEANUP_INTERVAL_HOURS", "24"))
	}
	cfg.CleanupInterval = time.Duration(hours) * time.Hour

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
