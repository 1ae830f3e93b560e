package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the Postgres access layer for stores, catalogs and analytics.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
