package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// List enabled products of a store, ordered by name
func (r *Repository) ListProducts(ctx context.Context, storeID string, limit int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, price, currency, stock, image, url, enabled
		FROM products
		WHERE store_id = $1 AND enabled IS DISTINCT FROM FALSE
		ORDER BY name
		LIMIT $2`, storeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query products for store %s: %w", storeID, err)
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var (
			p     domain.Product
			id    string
			price *float64
		)
		err := rows.Scan(&id, &p.Name, &p.Category, &price, &p.Currency, &p.Stock, &p.Image, &p.URL, &p.Enabled)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ID = domain.NormalizeID(id)
		if price != nil {
			p.Price = domain.NewPrice(*price)
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over products: %w", err)
	}
	return items, nil
}

// Count all products of a store
func (r *Repository) CountProducts(ctx context.Context, storeID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE store_id = $1`, storeID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count products for store %s: %w", storeID, err)
	}
	return total, nil
}

// UpsertProducts writes the products in a single batch round trip.
func (r *Repository) UpsertProducts(ctx context.Context, storeID string, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		var price *float64
		if p.Price.Valid {
			amount := p.Price.Amount
			price = &amount
		}
		batch.Queue(
			`INSERT INTO products (store_id, id, name, category, price, currency, stock, image, url, enabled, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			ON CONFLICT (store_id, id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				price = EXCLUDED.price,
				currency = EXCLUDED.currency,
				stock = EXCLUDED.stock,
				image = EXCLUDED.image,
				url = EXCLUDED.url,
				enabled = EXCLUDED.enabled,
				updated_at = NOW()`,
			storeID, p.ID.String(), p.Name, p.Category, price, p.Currency, p.Stock, p.Image, p.URL, p.Enabled,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("upsert product %s for store %s: %w", products[i].ID, storeID, err)
		}
	}
	return len(products), nil
}
