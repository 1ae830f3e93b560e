package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// LimitError carries the denial so callers can surface the upgrade hint.
type LimitError struct {
	Decision domain.LimitDecision
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan limit exceeded: %s", e.Decision.Reason)
}

func (e *LimitError) Unwrap() error { return domain.ErrLimitExceeded }

// CheckLimit evaluates the plan gate for an action. An unknown store is a
// denial, not an error. Legacy stores are always allowed.
func (s *Service) CheckLimit(ctx context.Context, storeID string, action domain.LimitAction, amount int) (*domain.LimitDecision, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}

	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			return &domain.LimitDecision{Allowed: false, Reason: "store not found"}, nil
		}
		return nil, err
	}

	managed, ok := domain.Classify(store).(domain.ManagedStore)
	if !ok {
		return &domain.LimitDecision{Allowed: true, Reason: "legacy store without plan limits"}, nil
	}

	managed, err = s.applyUsageReset(ctx, managed)
	if err != nil {
		return nil, err
	}

	switch action {
	case domain.ActionGeneratePages:
		current := managed.Usage.PagesGenerated
		limit := managed.Limits.PagesPerMonth
		return decide(managed.Store.Plan, action, amount <= limit-current, current, limit), nil
	case domain.ActionSyncProducts:
		current, err := s.repo.CountProducts(ctx, store.ID)
		if err != nil {
			return nil, fmt.Errorf("count products: %w", err)
		}
		limit := managed.Limits.MaxProducts
		return decide(managed.Store.Plan, action, current <= limit, current, limit), nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}
}

// applyUsageReset starts a new period when a full one has elapsed, then
// re-reads the store so the check sees persisted usage.
func (s *Service) applyUsageReset(ctx context.Context, m domain.ManagedStore) (domain.ManagedStore, error) {
	now := s.now()
	if !m.Usage.NeedsReset(now) {
		return m, nil
	}

	reset, err := s.repo.ResetUsage(ctx, m.Store.ID, m.Usage.LastResetDate, m.Usage.ResetAt(now))
	if err != nil {
		return m, err
	}
	if reset {
		s.logger.Info("usage period reset", "store_id", m.Store.ID, "pages_generated", m.Usage.PagesGenerated)
	}

	fresh, err := s.repo.GetStore(ctx, m.Store.ID)
	if err != nil {
		return m, fmt.Errorf("re-read store after reset: %w", err)
	}
	if managed, ok := domain.Classify(fresh).(domain.ManagedStore); ok {
		return managed, nil
	}
	return m, nil
}

func decide(plan domain.PlanTier, action domain.LimitAction, allowed bool, current, limit int) *domain.LimitDecision {
	d := &domain.LimitDecision{Allowed: allowed, Current: &current, Limit: &limit}
	if !allowed {
		hint := domain.UpgradeHintFor(plan, action)
		d.UpgradeHint = &hint
		if action == domain.ActionSyncProducts {
			d.Reason = fmt.Sprintf("product limit reached (%d/%d)", current, limit)
		} else {
			d.Reason = fmt.Sprintf("monthly page limit reached (%d/%d)", current, limit)
		}
	}
	return d
}

// IncrementPages records n generated pages.
func (s *Service) IncrementPages(ctx context.Context, storeID string, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: page count must be positive", domain.ErrInvalidInput)
	}
	return s.repo.IncrementPages(ctx, storeID, n)
}
