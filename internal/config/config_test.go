// v0
// internal/config/config_test.go
package config

import (
	"testing"

	"log/slog"
)

func TestLoadDefaultsLogLevelToInfo(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("default log level = %v, want info", cfg.LogLevel)
	}
}

func TestLoadLogLevelFromEnv(t *testing.T) {
	t.Setenv("COMMONS_LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("log level = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("COMMONS_LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}
