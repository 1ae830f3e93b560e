package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// Record which products were shown for a viewed product
func (r *Repository) SaveInteraction(ctx context.Context, in domain.Interaction) error {
	ids := make([]string, len(in.ProductIDs))
	for i, id := range in.ProductIDs {
		ids[i] = id.String()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO interactions (id, store_id, user_id, viewed_product_id, algorithm, product_ids)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.StoreID, in.UserID, in.ViewedProductID.String(), string(in.Algorithm), ids,
	)
	if err != nil {
		return fmt.Errorf("insert interaction %s: %w", in.ID, err)
	}
	return nil
}

func (r *Repository) InsertEvent(ctx context.Context, e domain.TrackingEvent) error {
	var value *float64
	if e.Value.Valid {
		v := e.Value.Amount
		value = &v
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (id, store_id, recommendation_id, event, product_id, value, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.StoreID, e.RecommendationID, string(e.Type), e.ProductID.String(), value, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s event for store %s: %w", e.Type, e.StoreID, err)
	}
	return nil
}

// Count events per type for a store
func (r *Repository) EventCounts(ctx context.Context, storeID string) (map[domain.EventType]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event, COUNT(*) FROM events WHERE store_id = $1 GROUP BY event`, storeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query event counts for store %s: %w", storeID, err)
	}
	defer rows.Close()

	counts := make(map[domain.EventType]int)
	for rows.Next() {
		var (
			event string
			n     int
		)
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[domain.EventType(event)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over event counts: %w", err)
	}
	return counts, nil
}
