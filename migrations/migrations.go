// Package migrations carries the schema files inside the binary.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed create_tables.up.sql
var upSQL string

//go:embed create_tables.down.sql
var downSQL string

func Up(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, upSQL); err != nil {
		return fmt.Errorf("execute up migration: %w", err)
	}
	return nil
}

func Down(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, downSQL); err != nil {
		return fmt.Errorf("execute down migration: %w", err)
	}
	return nil
}
