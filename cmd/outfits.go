package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wardrobehub/wardrobehub/internal/export"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"github.com/wardrobehub/wardrobehub/internal/outfits"
)

func newOutfitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outfits",
		Short: "Browse and export saved outfits",
	}
	cmd.AddCommand(newOutfitsListCmd())
	cmd.AddCommand(newOutfitsExportCmd())
	return cmd
}

func newOutfitsListCmd() *cobra.Command {
	var creator string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved outfits, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadOutfits(cmd, creator, all)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(list))
			for _, o := range list {
				rows = append(rows, []string{o.ID, o.Name, o.CreatorHandle, strconv.Itoa(len(o.Items)), o.CreatedAt.Format("2006-01-02 15:04")})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "CREATOR", "PIECES", "CREATED"}, rows)
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Creator handle (default CREATOR_HANDLE)")
	cmd.Flags().BoolVar(&all, "all", false, "List outfits from every creator")
	return cmd
}

func newOutfitsExportCmd() *cobra.Command {
	var (
		creator string
		all     bool
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved outfits as JSON, YAML or Parquet",
		Example: `  wardrobehub outfits export --format yaml
  wardrobehub outfits export --all --format parquet --output outfits.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadOutfits(cmd, creator, all)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), format, list)
			}
			return exportToFile(output, format, list)
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Creator handle (default CREATOR_HANDLE)")
	cmd.Flags().BoolVar(&all, "all", false, "Export outfits from every creator")
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "Output format: "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (- for stdout)")
	return cmd
}

func exportToFile(path, format string, list []models.Outfit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(f, format, list); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func loadOutfits(cmd *cobra.Command, creator string, all bool) ([]models.Outfit, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := outfits.Open(cmd.Context(), cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if all {
		return store.ListAll(cmd.Context())
	}
	if creator == "" {
		creator = cfg.CreatorHandle
	}
	return store.ListOutfits(cmd.Context(), creator)
}
