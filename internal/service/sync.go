package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

type SyncSource string

const (
	SourcePush        SyncSource = "push"
	SourceWooCommerce SyncSource = "woocommerce"
)

type SyncResult struct {
	StoreID       string     `json:"storeId"`
	Source        SyncSource `json:"source"`
	Synced        int        `json:"synced"`
	Skipped       int        `json:"skipped"`
	TotalProducts int        `json:"totalProducts"`
}

// SyncProducts stores pushed products, or pulls them from WooCommerce when
// none are pushed, then drops the cached catalog.
func (s *Service) SyncProducts(ctx context.Context, storeID string, pushed []domain.Product) (*SyncResult, error) {
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	source := SourcePush
	products := pushed
	if len(products) == 0 {
		source = SourceWooCommerce
		products, err = s.fetcher.FetchProducts(ctx, store, CatalogLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch woocommerce products: %w", err)
		}
	}

	valid := dedupeProducts(products)
	skipped := len(products) - len(valid)

	decision, err := s.CheckLimit(ctx, store.ID, domain.ActionSyncProducts, len(valid))
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &LimitError{Decision: *decision}
	}

	synced, err := s.repo.UpsertProducts(ctx, store.ID, valid)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, store.ID)

	total, err := s.repo.CountProducts(ctx, store.ID)
	if err != nil {
		s.logger.Warn("product count after sync failed", "store_id", store.ID, "error", err)
		total = -1
	}

	s.logger.Info("products synced", "store_id", store.ID, "source", source, "synced", synced, "skipped", skipped)
	return &SyncResult{
		StoreID:       store.ID,
		Source:        source,
		Synced:        synced,
		Skipped:       skipped,
		TotalProducts: total,
	}, nil
}

// dedupeProducts drops entries without an id or name and keeps the first of
// each id.
func dedupeProducts(products []domain.Product) []domain.Product {
	seen := make(map[domain.ProductID]bool, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID.IsZero() || p.Name == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
