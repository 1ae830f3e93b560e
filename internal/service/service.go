package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/actuallystonmai/upsell-service/internal/model"
	"github.com/actuallystonmai/upsell-service/internal/wordpress"
	"github.com/google/uuid"
)

const (
	// CatalogLimit is the largest catalog snapshot handed to the engine.
	CatalogLimit     = 50
	batchConcurrency = 5
	maxBatchProducts = 20
)

type StoreRepository interface {
	GetStore(ctx context.Context, storeID string) (*domain.Store, error)
	GetStoreByAPIKey(ctx context.Context, apiKey string) (*domain.Store, error)
	ResetUsage(ctx context.Context, storeID string, previous time.Time, next domain.PlanUsage) (bool, error)
	IncrementPages(ctx context.Context, storeID string, n int) error
	SaveSettings(ctx context.Context, storeID string, o domain.SettingsOverrides) error
}

type CatalogRepository interface {
	ListProducts(ctx context.Context, storeID string, limit int) ([]domain.Product, error)
	CountProducts(ctx context.Context, storeID string) (int, error)
	UpsertProducts(ctx context.Context, storeID string, products []domain.Product) (int, error)
}

type AnalyticsRepository interface {
	SaveInteraction(ctx context.Context, in domain.Interaction) error
	InsertEvent(ctx context.Context, e domain.TrackingEvent) error
	EventCounts(ctx context.Context, storeID string) (map[domain.EventType]int, error)
}

// Repository is everything the service reads from and writes to Postgres.
type Repository interface {
	StoreRepository
	CatalogRepository
	AnalyticsRepository
}

type CatalogCache interface {
	GetCatalog(ctx context.Context, storeID string) ([]domain.Product, bool, error)
	SetCatalog(ctx context.Context, storeID string, products []domain.Product) error
	InvalidateCatalog(ctx context.Context, storeID string) error
}

type Recommender interface {
	Recommend(ctx context.Context, viewed domain.Product, catalog []domain.Product, settings domain.StoreSettings) (*domain.RecommendationResult, error)
}

type ProductFetcher interface {
	FetchProducts(ctx context.Context, store *domain.Store, limit int) ([]domain.Product, error)
}

type PagePublisher interface {
	PublishPage(ctx context.Context, store *domain.Store, page wordpress.Page) (*wordpress.PublishedPage, error)
}

// Deps are the collaborators of the service.
type Deps struct {
	Repo      Repository
	Cache     CatalogCache
	Engine    Recommender
	Fetcher   ProductFetcher
	Publisher PagePublisher
	Logger    *slog.Logger
}

type Service struct {
	repo      Repository
	cache     CatalogCache
	engine    Recommender
	fetcher   ProductFetcher
	publisher PagePublisher
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      d.Repo,
		cache:     d.Cache,
		engine:    d.Engine,
		fetcher:   d.Fetcher,
		publisher: d.Publisher,
		logger:    logger.With("component", "service"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// AuthenticateStore checks the owner api key of a store.
func (s *Service) AuthenticateStore(ctx context.Context, storeID, apiKey string) (*domain.Store, error) {
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !keysEqual(store.APIKey, apiKey) {
		return nil, domain.ErrUnauthorized
	}
	return store, nil
}

// loadCatalog reads a store catalog through the cache. Cache failures are
// logged and bypassed.
func (s *Service) loadCatalog(ctx context.Context, storeID string) ([]domain.Product, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetCatalog(ctx, storeID)
		if err != nil {
			s.logger.Warn("catalog cache get failed", "store_id", storeID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, storeID, CatalogLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(products) > 0 {
		if err := s.cache.SetCatalog(ctx, storeID, products); err != nil {
			s.logger.Warn("catalog cache set failed", "store_id", storeID, "error", err)
		}
	}
	return products, nil
}

func (s *Service) invalidateCatalog(ctx context.Context, storeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx, storeID); err != nil {
		s.logger.Warn("catalog cache invalidation failed", "store_id", storeID, "error", err)
	}
}

// categorizeError maps a failure onto a stable code and message for batch results.
func categorizeError(err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found", "product is not in the store catalog"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input", err.Error()
	case model.IsModelInferenceError(err):
		return "model_inference_error", "recommendation model failed to generate a response"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "request timed out"
	default:
		return "internal_error", "an unexpected error occurred"
	}
}

func keysEqual(stored, given string) bool {
	if stored == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
