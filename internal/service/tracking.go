package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

type TrackRequest struct {
	StoreID          string           `json:"storeId"`
	RecommendationID string           `json:"recommendationId"`
	Event            string           `json:"event"`
	ProductID        domain.ProductID `json:"productId"`
	Value            domain.Price     `json:"value"`
}

// Track records a storefront conversion event.
func (s *Service) Track(ctx context.Context, req TrackRequest) (*domain.TrackingEvent, error) {
	if req.StoreID == "" {
		return nil, fmt.Errorf("%w: storeId is required", domain.ErrInvalidInput)
	}
	eventType, err := domain.ParseEventType(req.Event)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStore(ctx, req.StoreID); err != nil {
		return nil, err
	}

	event := domain.TrackingEvent{
		ID:               s.newID(),
		StoreID:          req.StoreID,
		RecommendationID: req.RecommendationID,
		Type:             eventType,
		ProductID:        req.ProductID,
		Value:            req.Value,
		OccurredAt:       s.now(),
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Stats counts events per type; every type is present, zero included.
func (s *Service) Stats(ctx context.Context, storeID string) (*domain.EventStats, error) {
	if _, err := s.repo.GetStore(ctx, storeID); err != nil {
		return nil, err
	}
	counts, err := s.repo.EventCounts(ctx, storeID)
	if err != nil {
		return nil, err
	}

	stats := &domain.EventStats{StoreID: storeID, Counts: make(map[domain.EventType]int)}
	for _, t := range []domain.EventType{domain.EventImpression, domain.EventClick, domain.EventAddToCart, domain.EventPurchase} {
		stats.Counts[t] = counts[t]
	}
	return stats, nil
}
