package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventAddToCart  EventType = "add_to_cart"
	EventPurchase   EventType = "purchase"
)

// ParseEventType validates a tracking event name.
func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case EventImpression, EventClick, EventAddToCart, EventPurchase:
		return EventType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown event %q", ErrInvalidInput, s)
	}
}

// TrackingEvent is a storefront conversion event.
type TrackingEvent struct {
	ID               string    `json:"id"`
	StoreID          string    `json:"storeId"`
	RecommendationID string    `json:"recommendationId,omitempty"`
	Type             EventType `json:"event"`
	ProductID        ProductID `json:"productId,omitempty"`
	Value            Price     `json:"value"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// EventStats counts events per type for one store.
type EventStats struct {
	StoreID string            `json:"storeId"`
	Counts  map[EventType]int `json:"counts"`
}
