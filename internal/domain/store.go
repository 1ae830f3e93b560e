package domain

import "time"

// Store is a merchant installation of the plugin.
// Limits and Usage are nil for stores created before plan tracking existed.
type Store struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	APIKey        string             `json:"-"`
	Plan          PlanTier           `json:"plan"`
	WordPressURL  string             `json:"wordpressUrl"`
	WPUsername    string             `json:"-"`
	WPAppPassword string             `json:"-"`
	WooKey        string             `json:"-"`
	WooSecret     string             `json:"-"`
	Limits        *PlanLimits        `json:"limits,omitempty"`
	Usage         *PlanUsage         `json:"usage,omitempty"`
	Settings      *SettingsOverrides `json:"settings,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// PopupsPerMonth reads the store's own limit, falling back to the plan table.
func (s *Store) PopupsPerMonth() int {
	if s.Limits != nil && s.Limits.PopupsPerMonth > 0 {
		return s.Limits.PopupsPerMonth
	}
	return PlanLimitsFor(s.Plan).PopupsPerMonth
}

// StoreState separates stores with plan tracking from legacy ones.
type StoreState interface {
	storeState()
}

// ManagedStore has limits and usage and is subject to the plan gate.
type ManagedStore struct {
	Store  *Store
	Limits PlanLimits
	Usage  PlanUsage
}

// LegacyStore predates plan tracking. No limits are enforced for it.
type LegacyStore struct {
	Store *Store
}

func (ManagedStore) storeState() {}
func (LegacyStore) storeState()  {}

// Classify returns the state variant of a store.
func Classify(s *Store) StoreState {
	if s.Limits == nil || s.Usage == nil {
		return LegacyStore{Store: s}
	}
	return ManagedStore{Store: s, Limits: *s.Limits, Usage: *s.Usage}
}
