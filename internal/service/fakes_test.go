package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/actuallystonmai/upsell-service/internal/wordpress"
)

var errDB = errors.New("connection refused")

type fakeRepo struct {
	mu           sync.Mutex
	stores       map[string]*domain.Store
	products     map[string][]domain.Product
	interactions []domain.Interaction
	events       []domain.TrackingEvent

	resets         int
	interactionErr error
	getStoreErr    error
}

func newFakeRepo(stores ...*domain.Store) *fakeRepo {
	r := &fakeRepo{stores: map[string]*domain.Store{}, products: map[string][]domain.Product{}}
	for _, s := range stores {
		r.stores[s.ID] = s
	}
	return r
}

func copyStore(s *domain.Store) *domain.Store {
	c := *s
	if s.Usage != nil {
		u := *s.Usage
		c.Usage = &u
	}
	if s.Limits != nil {
		l := *s.Limits
		c.Limits = &l
	}
	if s.Settings != nil {
		o := *s.Settings
		c.Settings = &o
	}
	return &c
}

func (r *fakeRepo) GetStore(_ context.Context, id string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getStoreErr != nil {
		return nil, r.getStoreErr
	}
	s, ok := r.stores[id]
	if !ok {
		return nil, domain.ErrStoreNotFound
	}
	return copyStore(s), nil
}

func (r *fakeRepo) GetStoreByAPIKey(_ context.Context, key string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stores {
		if s.APIKey == key {
			return copyStore(s), nil
		}
	}
	return nil, domain.ErrStoreNotFound
}

func (r *fakeRepo) ResetUsage(_ context.Context, id string, previous time.Time, next domain.PlanUsage) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok || s.Usage == nil || !s.Usage.LastResetDate.Equal(previous) {
		return false, nil
	}
	s.Usage = &next
	r.resets++
	return true, nil
}

func (r *fakeRepo) IncrementPages(_ context.Context, id string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return domain.ErrStoreNotFound
	}
	if s.Usage != nil {
		s.Usage.PagesGenerated += n
	}
	return nil
}

func (r *fakeRepo) SaveSettings(_ context.Context, id string, o domain.SettingsOverrides) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return domain.ErrStoreNotFound
	}
	s.Settings = &o
	return nil
}

func (r *fakeRepo) ListProducts(_ context.Context, id string, limit int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps := r.products[id]
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return append([]domain.Product(nil), ps...), nil
}

func (r *fakeRepo) CountProducts(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products[id]), nil
}

func (r *fakeRepo) UpsertProducts(_ context.Context, id string, products []domain.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.products[id]
	for _, p := range products {
		replaced := false
		for i := range existing {
			if existing[i].ID == p.ID {
				existing[i] = p
				replaced = true
			}
		}
		if !replaced {
			existing = append(existing, p)
		}
	}
	r.products[id] = existing
	return len(products), nil
}

func (r *fakeRepo) SaveInteraction(_ context.Context, in domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interactionErr != nil {
		return r.interactionErr
	}
	r.interactions = append(r.interactions, in)
	return nil
}

func (r *fakeRepo) InsertEvent(_ context.Context, e domain.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *fakeRepo) EventCounts(_ context.Context, id string) (map[domain.EventType]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.EventType]int{}
	for _, e := range r.events {
		if e.StoreID == id {
			counts[e.Type]++
		}
	}
	return counts, nil
}

type fakeCache struct {
	mu          sync.Mutex
	catalogs    map[string][]domain.Product
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{catalogs: map[string][]domain.Product{}}
}

func (c *fakeCache) GetCatalog(_ context.Context, id string) ([]domain.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	ps, ok := c.catalogs[id]
	return ps, ok, nil
}

func (c *fakeCache) SetCatalog(_ context.Context, id string, ps []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogs[id] = ps
	return nil
}

func (c *fakeCache) InvalidateCatalog(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.catalogs, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fakeFetcher struct {
	products []domain.Product
	err      error
	calls    int
}

func (f *fakeFetcher) FetchProducts(context.Context, *domain.Store, int) ([]domain.Product, error) {
	f.calls++
	return f.products, f.err
}

type fakePublisher struct {
	pages []wordpress.Page
	err   error
}

func (p *fakePublisher) PublishPage(_ context.Context, _ *domain.Store, page wordpress.Page) (*wordpress.PublishedPage, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.pages = append(p.pages, page)
	return &wordpress.PublishedPage{ID: len(p.pages), Link: "https://shop.test/?page_id=1", Status: "draft"}, nil
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo *fakeRepo, engine Recommender) (*Service, *fakeCache, *fakeFetcher, *fakePublisher) {
	cache := newFakeCache()
	fetcher := &fakeFetcher{}
	publisher := &fakePublisher{}
	svc := NewService(Deps{
		Repo:      repo,
		Cache:     cache,
		Engine:    engine,
		Fetcher:   fetcher,
		Publisher: publisher,
		Logger:    testLogger(),
	})
	svc.now = func() time.Time { return testNow }
	ids := 0
	svc.newID = func() string {
		ids++
		return fmt.Sprintf("rec-%d", ids)
	}
	return svc, cache, fetcher, publisher
}

func managedStore(id string, plan domain.PlanTier, pagesGenerated int, lastReset time.Time) *domain.Store {
	limits := domain.PlanLimitsFor(plan)
	usage := domain.NewUsage(lastReset)
	usage.PagesGenerated = pagesGenerated
	return &domain.Store{ID: id, Name: id, APIKey: "key-" + id, Plan: plan, Limits: &limits, Usage: &usage}
}

func legacyStore(id string) *domain.Store {
	return &domain.Store{ID: id, Name: id, APIKey: "key-" + id, Plan: domain.PlanFree}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func product(id, category string, price float64) domain.Product {
	return domain.Product{ID: domain.ProductID(id), Name: "Product " + id, Category: category, Price: domain.NewPrice(price), Currency: "EUR"}
}
