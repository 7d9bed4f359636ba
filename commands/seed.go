package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"inventory/config"
	"inventory/database"
	"inventory/logging"
	"inventory/seed"
)

func seedCmd(configPath *string) *cobra.Command {
	var (
		seedValue   uint64
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo product catalog",
		Long: `Deletes all orders, products, suppliers and users, then inserts the demo
products with generated 30-day sales histories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg.Logging)
			if err != nil {
				return err
			}

			templates := seed.DefaultCatalog()
			if catalogPath != "" {
				data, err := os.ReadFile(catalogPath)
				if err != nil {
					return fmt.Errorf("read catalog: %w", err)
				}
				if templates, err = seed.LoadCatalog(data); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			store, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			if !cmd.Flags().Changed("seed") {
				seedValue = uint64(time.Now().UnixNano())
			}
			products, err := seed.NewSeeder(store, seedValue, logger).Run(ctx, templates)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products (seed %d)\n", len(products), seedValue)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed for reproducible histories")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog replacing the built-in one")
	return cmd
}
