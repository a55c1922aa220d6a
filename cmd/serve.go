package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardrobehub/wardrobehub/internal/catalog"
	"github.com/wardrobehub/wardrobehub/internal/handlers"
	"github.com/wardrobehub/wardrobehub/internal/outfits"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var (
		port      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the outfit canvas API server",
		Long: `Starts the WardrobeHub API on the specified port.

Clients open a canvas, place catalog items on it, restack and rescale them,
and save the arrangement as an outfit on the creator's profile.`,
		Example: `  # Start server on default port 8888
  wardrobehub serve

  # Serve a built client alongside the API
  wardrobehub serve --port 3000 --static-dir ./web/dist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			cat, err := catalog.Load(ctx, cfg.CatalogFile, cfg.CatalogURL, cfg.CatalogAPIKey)
			if err != nil {
				return err
			}
			store, err := outfits.Open(ctx, cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			handler := handlers.New(handlers.Options{
				Catalog:       cat,
				Outfits:       store,
				Digitizer:     newDigitizer(cfg),
				CreatorHandle: cfg.CreatorHandle,
				SaveTimeout:   cfg.SaveTimeout,
				StaticDir:     staticDir,
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				slog.Info("WardrobeHub API available", "addr", addr, "url", "http://localhost"+addr, "catalog_items", cat.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to serve: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Directory holding a built canvas client to serve at /")

	return cmd
}
