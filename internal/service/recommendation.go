package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// RecommendRequest is the storefront popup request.
type RecommendRequest struct {
	StoreID           string           `json:"storeId"`
	APIKey            string           `json:"apiKey"`
	ProductID         domain.ProductID `json:"productId"`
	ProductName       string           `json:"productName"`
	ProductCategory   string           `json:"productCategory"`
	ProductPrice      domain.Price     `json:"productPrice"`
	AvailableProducts []domain.Product `json:"availableProducts"`
	UserID            string           `json:"userId"`
}

type RecommendResponse struct {
	Success          bool                            `json:"success"`
	RecommendationID string                          `json:"recommendation_id"`
	Product          domain.ProductRef               `json:"product"`
	PopupTitle       string                          `json:"popupTitle"`
	PopupSubtitle    string                          `json:"popupSubtitle"`
	Settings         domain.StoreSettings            `json:"settings"`
	Recommendations  []domain.ResolvedRecommendation `json:"recommendations"`
	Algorithm        domain.Algorithm                `json:"algorithm"`
	Timestamp        string                          `json:"timestamp"`
}

// Recommend serves one popup. Store lookup and interaction logging are best
// effort: an unknown store gets free-plan settings.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*RecommendResponse, error) {
	if req.ProductID.IsZero() {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidInput)
	}

	store := s.resolveStore(ctx, req.StoreID, req.APIKey)
	settings := settingsFor(store)

	catalog := req.AvailableProducts
	if catalog == nil && store != nil {
		loaded, err := s.loadCatalog(ctx, store.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: load catalog: %v", domain.ErrUpstreamUnavailable, err)
		}
		catalog = loaded
	}

	viewed := viewedProduct(req, catalog)
	if len(catalog) > CatalogLimit {
		catalog = catalog[:CatalogLimit]
	}
	result, err := s.engine.Recommend(ctx, viewed, catalog, settings)
	if err != nil {
		return nil, err
	}

	recID := s.newID()
	storeID := req.StoreID
	if store != nil {
		storeID = store.ID
	}
	s.recordInteraction(ctx, recID, storeID, req.UserID, viewed.ID, result)

	return &RecommendResponse{
		Success:          true,
		RecommendationID: recID,
		Product:          domain.ProductRef{ID: viewed.ID, Name: viewed.Name},
		PopupTitle:       result.PopupTitle,
		PopupSubtitle:    result.PopupSubtitle,
		Settings:         settings,
		Recommendations:  result.Recommendations,
		Algorithm:        result.Algorithm,
		Timestamp:        s.now().Format(time.RFC3339),
	}, nil
}

func (s *Service) resolveStore(ctx context.Context, storeID, apiKey string) *domain.Store {
	var (
		store *domain.Store
		err   error
	)
	switch {
	case storeID != "":
		store, err = s.repo.GetStore(ctx, storeID)
	case apiKey != "":
		store, err = s.repo.GetStoreByAPIKey(ctx, apiKey)
	default:
		return nil
	}
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			s.logger.Info("unknown store, using free plan defaults", "store_id", storeID)
		} else {
			s.logger.Warn("store lookup failed, using free plan defaults", "store_id", storeID, "error", err)
		}
		return nil
	}
	return store
}

func settingsFor(store *domain.Store) domain.StoreSettings {
	if store == nil {
		return domain.ResolveSettings(nil, domain.PlanLimitsFor(domain.PlanFree).PopupsPerMonth)
	}
	return domain.ResolveSettings(store.Settings, store.PopupsPerMonth())
}

// viewedProduct builds the viewed product from the request, filling blanks
// from the catalog entry with the same id.
func viewedProduct(req RecommendRequest, catalog []domain.Product) domain.Product {
	viewed := domain.Product{
		ID:       req.ProductID,
		Name:     req.ProductName,
		Category: req.ProductCategory,
		Price:    req.ProductPrice,
	}
	for _, p := range catalog {
		if p.ID != viewed.ID {
			continue
		}
		if viewed.Name == "" {
			viewed.Name = p.Name
		}
		if viewed.Category == "" {
			viewed.Category = p.Category
		}
		if !viewed.Price.Valid {
			viewed.Price = p.Price
		}
		viewed.Currency = p.Currency
		break
	}
	return viewed
}

func (s *Service) recordInteraction(ctx context.Context, id, storeID, userID string, viewed domain.ProductID, result *domain.RecommendationResult) {
	ids := make([]domain.ProductID, len(result.Recommendations))
	for i, r := range result.Recommendations {
		ids[i] = r.ID
	}
	err := s.repo.SaveInteraction(ctx, domain.Interaction{
		ID:              id,
		StoreID:         storeID,
		UserID:          userID,
		ViewedProductID: viewed,
		Algorithm:       result.Algorithm,
		ProductIDs:      ids,
	})
	if err != nil {
		s.logger.Warn("interaction not recorded", "recommendation_id", id, "store_id", storeID, "error", err)
	}
}

// RecommendBatch precomputes recommendations for several products of one store.
func (s *Service) RecommendBatch(ctx context.Context, storeID string, productIDs []domain.ProductID) (*domain.BatchResponse, error) {
	if len(productIDs) == 0 || len(productIDs) > maxBatchProducts {
		return nil, fmt.Errorf("%w: between 1 and %d product ids are required", domain.ErrInvalidInput, maxBatchProducts)
	}
	start := time.Now()

	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.loadCatalog(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	settings := settingsFor(store)
	index := domain.IndexCatalog(catalog)

	// Process products concurrently with bounded worker pool
	results := make([]domain.BatchItemResult, len(productIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, batchConcurrency)

	for i, id := range productIDs {
		wg.Add(1)
		go func(idx int, pid domain.ProductID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = s.processProductForBatch(ctx, pid, index, catalog, settings)
		}(i, id)
	}
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		}
	}

	return &domain.BatchResponse{
		StoreID: store.ID,
		Results: results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      len(results) - successCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		GeneratedAt: s.now().Format(time.RFC3339),
	}, nil
}

func (s *Service) processProductForBatch(ctx context.Context, id domain.ProductID, index map[domain.ProductID]domain.Product, catalog []domain.Product, settings domain.StoreSettings) domain.BatchItemResult {
	viewed, ok := index[id]
	if !ok {
		code, msg := categorizeError(domain.ErrProductNotFound)
		return domain.BatchItemResult{ProductID: id, Status: domain.StatusFailed, Error: code, Message: msg}
	}

	result, err := s.engine.Recommend(ctx, viewed, catalog, settings)
	if err != nil {
		s.logger.Warn("batch item failed", "product_id", id, "error", err)
		code, msg := categorizeError(err)
		return domain.BatchItemResult{ProductID: id, Status: domain.StatusFailed, Error: code, Message: msg}
	}

	return domain.BatchItemResult{
		ProductID:       id,
		Status:          domain.StatusSuccess,
		Algorithm:       result.Algorithm,
		Recommendations: result.Recommendations,
	}
}
