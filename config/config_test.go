package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.CleanupInterval != 24*time.Hour {
		t.Errorf("expected 24h cleanup interval, got %v", cfg.CleanupInterval)
	}
	if cfg.DefaultPhoneRegion != "US" {
		t.Errorf("expected default phone region US, got %q", cfg.DefaultPhoneRegion)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("CLEANUP_INTERVAL_HOURS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Errorf("expected overridden addr, got %q", cfg.Addr)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("expected overridden database path, got %q", cfg.DatabasePath)
	}
	if cfg.CleanupInterval != 6*time.Hour {
		t.Errorf("expected 6h cleanup interval, got %v", cfg.CleanupInterval)
	}
}

func TestLoad_InvalidCleanupInterval(t *testing.T) {
	t.Setenv("CLEANUP_INTERVAL_HOURS", "zero")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric interval")
	}

	t.Setenv("CLEANUP_INTERVAL_HOURS", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero interval")
	}
}
