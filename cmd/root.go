package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wardrobehub/wardrobehub/internal/config"
	"github.com/wardrobehub/wardrobehub/internal/digitize"
	"github.com/wardrobehub/wardrobehub/internal/gemini"
	"github.com/wardrobehub/wardrobehub/internal/images"
	"github.com/wardrobehub/wardrobehub/internal/ollama"
	"github.com/wardrobehub/wardrobehub/internal/openai"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardrobehub",
		Short: "Outfit composition canvas for your digital wardrobe",
		Long: `WardrobeHub lets you layer pieces from your wardrobe catalog on a canvas,
save the arrangement as an outfit, and browse or export saved outfits.

The serve command exposes the canvas over a JSON API. The catalog and
outfits commands work against the same catalog and outfit database.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newOutfitsCmd())

	return cmd
}

// loadConfig reads the environment and installs the process logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return cfg, nil
}

func newDigitizer(cfg config.Config) *digitize.Service {
	svc := digitize.NewService(images.NewFetcher(), cfg.DigitizeProvider)
	svc.Register("ollama", ollama.New(cfg.OllamaURL), cfg.OllamaModel)
	if cfg.GeminiAPIKey != "" {
		svc.Register("gemini", gemini.New(cfg.GeminiAPIKey), cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" {
		svc.Register("openai", openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL), cfg.OpenAIModel)
	}
	return svc
}
