package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

const storeColumns = `id, name, api_key, plan, wordpress_url, wp_username, wp_app_password,
	woo_key, woo_secret, pages_per_month, max_products, max_stores, popups_per_month,
	pages_generated, last_reset_at, period_start, period_end, settings, created_at`

// Get single store
func (r *Repository) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = $1`, storeID,
	)
	store, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("query store id=%s: %w", storeID, err)
	}
	return store, nil
}

// Get store by the api key the plugin authenticates with
func (r *Repository) GetStoreByAPIKey(ctx context.Context, apiKey string) (*domain.Store, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE api_key = $1`, apiKey,
	)
	store, err := scanStore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("query store by api key: %w", err)
	}
	return store, nil
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var (
		s                                           domain.Store
		plan                                        string
		pagesPerMonth, maxProducts, maxStores, pops *int
		pagesGenerated                              *int
		lastReset, periodStart, periodEnd           *time.Time
		settings                                    []byte
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.APIKey, &plan, &s.WordPressURL, &s.WPUsername, &s.WPAppPassword,
		&s.WooKey, &s.WooSecret, &pagesPerMonth, &maxProducts, &maxStores, &pops,
		&pagesGenerated, &lastReset, &periodStart, &periodEnd, &settings, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Plan = domain.ParsePlanTier(plan)

	if pagesPerMonth != nil {
		limits := domain.PlanLimitsFor(s.Plan)
		limits.PagesPerMonth = *pagesPerMonth
		if maxProducts != nil {
			limits.MaxProducts = *maxProducts
		}
		if maxStores != nil {
			limits.MaxStores = *maxStores
		}
		if pops != nil {
			limits.PopupsPerMonth = *pops
		}
		s.Limits = &limits
	}

	if pagesGenerated != nil && lastReset != nil {
		usage := domain.PlanUsage{
			PagesGenerated: *pagesGenerated,
			LastResetDate:  *lastReset,
		}
		if periodStart != nil {
			usage.CurrentPeriodStart = *periodStart
		}
		if periodEnd != nil {
			usage.CurrentPeriodEnd = *periodEnd
		}
		s.Usage = &usage
	}

	if len(settings) > 0 {
		var o domain.SettingsOverrides
		if err := json.Unmarshal(settings, &o); err != nil {
			return nil, fmt.Errorf("decode settings for store %s: %w", s.ID, err)
		}
		s.Settings = &o
	}
	return &s, nil
}

// Count total stores
func (r *Repository) CountStores(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return total, nil
}

// Persist the merged settings overrides
func (r *Repository) SaveSettings(ctx context.Context, storeID string, o domain.SettingsOverrides) error {
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores SET settings = $2 WHERE id = $1`, storeID, b,
	)
	if err != nil {
		return fmt.Errorf("update settings for store %s: %w", storeID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}
