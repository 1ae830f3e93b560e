package main

import (
	"fmt"

	"github.com/actuallystonmai/upsell-service/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or drop the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create tables",
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
				logger.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop all tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, logger, pool, err := bootstrap(cmd.Context())
				if err != nil {
					return err
				}
				defer pool.Close()

				if err := migrations.Down(cmd.Context(), pool); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				logger.Info("migrations dropped")
				return nil
			},
		},
	)
	return cmd
}
