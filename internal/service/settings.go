package service

import (
	"context"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

func (s *Service) GetSettings(ctx context.Context, storeID string) (*domain.StoreSettings, error) {
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	resolved := settingsFor(store)
	return &resolved, nil
}

// UpdateSettings merges a partial update into the stored overrides.
func (s *Service) UpdateSettings(ctx context.Context, storeID string, update domain.SettingsOverrides) (*domain.StoreSettings, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	merged := store.Settings.Merge(update)
	if err := s.repo.SaveSettings(ctx, store.ID, merged); err != nil {
		return nil, err
	}
	store.Settings = &merged

	resolved := settingsFor(store)
	return &resolved, nil
}
