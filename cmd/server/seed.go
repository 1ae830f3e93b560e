package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/actuallystonmai/upsell-service/internal/repository"
	"github.com/actuallystonmai/upsell-service/migrations"
	"github.com/actuallystonmai/upsell-service/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with demo stores and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrations.Up(cmd.Context(), pool); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			return seeds.Setup(cmd.Context(), pool, logger)
		},
	}
}

// checkSeed seeds an empty database.
func checkSeed(ctx context.Context, repo *repository.Repository, pool *pgxpool.Pool, logger *slog.Logger) error {
	count, err := repo.CountStores(ctx)
	if err != nil {
		return fmt.Errorf("check stores count: %w", err)
	}
	if count > 0 {
		logger.Info("database already seeded, skipping", "stores", count)
		return nil
	}
	return seeds.Setup(ctx, pool, logger)
}
