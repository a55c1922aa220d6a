package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"WARDROBE_DB", "CREATOR_HANDLE", "SAVE_TIMEOUT", "DIGITIZE_PROVIDER", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.DatabasePath != "wardrobe.db" {
		t.Errorf("Expected default db path, got %s", cfg.DatabasePath)
	}
	if cfg.CreatorHandle != "your_handle" {
		t.Errorf("Expected default handle, got %s", cfg.CreatorHandle)
	}
	if cfg.SaveTimeout != 10*time.Second {
		t.Errorf("Expected 10s save timeout, got %s", cfg.SaveTimeout)
	}
	if cfg.DigitizeProvider != "ollama" {
		t.Errorf("Expected ollama provider, got %s", cfg.DigitizeProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WARDROBE_DB", "/tmp/outfits.db")
	t.Setenv("SAVE_TIMEOUT", "3s")
	t.Setenv("CREATOR_HANDLE", "elara.vogue")
	t.Setenv("DIGITIZE_PROVIDER", "gemini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.DatabasePath != "/tmp/outfits.db" || cfg.SaveTimeout != 3*time.Second ||
		cfg.CreatorHandle != "elara.vogue" || cfg.DigitizeProvider != "gemini" {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("SAVE_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("Expected error for unparseable duration")
	}

	t.Setenv("SAVE_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Error("Expected error for negative duration")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
}
