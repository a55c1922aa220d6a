// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven setting
type Config struct {
	DatabasePath  string        `env:"WARDROBE_DB" envDefault:"wardrobe.db"`
	CatalogFile   string        `env:"CATALOG_FILE"`
	CatalogURL    string        `env:"CATALOG_URL"`
	CatalogAPIKey string        `env:"CATALOG_API_KEY"`
	CreatorHandle string        `env:"CREATOR_HANDLE" envDefault:"your_handle"`
	SaveTimeout   time.Duration `env:"SAVE_TIMEOUT" envDefault:"10s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`

	DigitizeProvider string `env:"DIGITIZE_PROVIDER" envDefault:"ollama"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiModel      string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OllamaURL        string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel      string `env:"OLLAMA_MODEL" envDefault:"llava"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIURL        string `env:"OPENAI_URL"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SaveTimeout <= 0 {
		return Config{}, fmt.Errorf("SAVE_TIMEOUT must be positive, got %s", cfg.SaveTimeout)
	}
	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
