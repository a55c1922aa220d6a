package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/wardrobehub/wardrobehub/internal/catalog"
	"github.com/wardrobehub/wardrobehub/internal/digitize"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the wardrobe catalog",
	}
	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogDigitizeCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Example: `  wardrobehub catalog list
  wardrobehub catalog list --category Shoes
  wardrobehub catalog list --search wool`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cmd.Context(), cfg.CatalogFile, cfg.CatalogURL, cfg.CatalogAPIKey)
			if err != nil {
				return err
			}
			items, err := cat.List(catalog.Filter{Category: category, Search: search})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{item.ID, item.Name, string(item.Category), item.Brand})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "NAME", "CATEGORY", "BRAND"}, rows)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list items in this category")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list items whose name contains this text")
	return cmd
}

func newCatalogDigitizeCmd() *cobra.Command {
	var provider, model string

	cmd := &cobra.Command{
		Use:   "digitize <image-url>",
		Short: "Draft a catalog item from a photo using a vision LLM",
		Args:  cobra.ExactArgs(1),
		Example: `  wardrobehub catalog digitize https://example.com/coat.jpg
  wardrobehub catalog digitize https://example.com/coat.jpg --provider gemini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			item, err := newDigitizer(cfg).Digitize(cmd.Context(), digitize.Request{
				ImageURL: args[0],
				Provider: provider,
				Model:    model,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(item)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (ollama, gemini or openai); defaults to DIGITIZE_PROVIDER")
	cmd.Flags().StringVar(&model, "model", "", "Model name; defaults to the provider's configured model")
	return cmd
}
