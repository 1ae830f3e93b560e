package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// ResetUsage starts a new usage period. The update only applies while
// last_reset_at still equals previous, so of several concurrent checks crossing
// the same boundary exactly one performs the reset. Reports whether it did.
func (r *Repository) ResetUsage(ctx context.Context, storeID string, previous time.Time, next domain.PlanUsage) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores
		SET pages_generated = $3, last_reset_at = $4, period_start = $5, period_end = $6
		WHERE id = $1 AND last_reset_at = $2`,
		storeID, previous, next.PagesGenerated, next.LastResetDate, next.CurrentPeriodStart, next.CurrentPeriodEnd,
	)
	if err != nil {
		return false, fmt.Errorf("reset usage for store %s: %w", storeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementPages adds n generated pages atomically. Legacy stores have no
// counter and are left untouched.
func (r *Repository) IncrementPages(ctx context.Context, storeID string, n int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stores SET pages_generated = pages_generated + $2 WHERE id = $1`,
		storeID, n,
	)
	if err != nil {
		return fmt.Errorf("increment pages for store %s: %w", storeID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}
