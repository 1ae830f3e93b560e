// Package recommend decides which products to show in the upsell popup.
// It prefers the AI strategy and degrades to rule-based picks whenever the
// AI is missing, fails, or suggests nothing that exists in the catalog.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

// DefaultAITimeout bounds the AI call when no timeout is configured.
const DefaultAITimeout = 15 * time.Second

// Suggester is the AI strategy. Any error is treated as recoverable.
type Suggester interface {
	Suggest(ctx context.Context, viewed domain.Product, catalog []domain.Product) (*domain.Suggestion, error)
}

// Engine is the recommendation orchestrator. It holds no per-request state.
type Engine struct {
	suggester Suggester
	timeout   time.Duration
	shuffle   Shuffler
	logger    *slog.Logger
}

type Option func(*Engine)

// WithTimeout bounds the AI call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithShuffler replaces the fallback's random permutation, mainly for tests.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffle = s
		}
	}
}

// NewEngine builds an engine. A nil suggester means no AI provider is configured.
func NewEngine(suggester Suggester, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		suggester: suggester,
		timeout:   DefaultAITimeout,
		shuffle:   defaultShuffler(),
		logger:    logger.With("component", "recommend"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend returns at most settings.MaxRecommendations products, never
// including the viewed one. Only malformed input is an error.
func (e *Engine) Recommend(ctx context.Context, viewed domain.Product, catalog []domain.Product, settings domain.StoreSettings) (*domain.RecommendationResult, error) {
	if viewed.ID.IsZero() {
		return nil, fmt.Errorf("%w: viewed product id is required", domain.ErrInvalidInput)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", domain.ErrInvalidInput)
	}

	eligible := domain.ExcludeProduct(catalog, viewed.ID)

	result, algorithm := e.tryAI(ctx, viewed, eligible)
	if result == nil {
		result = e.fallback(viewed, eligible, algorithm)
	}

	result.Recommendations = finalize(result.Recommendations, viewed.ID, settings.MaxRecommendations)
	return result, nil
}

// tryAI returns a result when the AI produced at least one catalog match.
// Otherwise it returns the fallback tag describing why.
func (e *Engine) tryAI(ctx context.Context, viewed domain.Product, eligible []domain.Product) (*domain.RecommendationResult, domain.Algorithm) {
	if e.suggester == nil {
		return nil, domain.AlgorithmFallbackEmpty
	}
	if len(eligible) == 0 {
		return nil, domain.AlgorithmFallbackEmpty
	}

	aiCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	suggestion, err := e.suggester.Suggest(aiCtx, viewed, eligible)
	if err != nil {
		e.logger.WarnContext(ctx, "ai strategy failed, using fallback",
			slog.String("product_id", viewed.ID.String()),
			slog.Any("error", err),
		)
		return nil, domain.AlgorithmFallbackError
	}
	if suggestion == nil || len(suggestion.Candidates) == 0 {
		return nil, domain.AlgorithmFallbackEmpty
	}

	resolved := resolveCandidates(suggestion.Candidates, eligible)
	if len(resolved) == 0 {
		e.logger.InfoContext(ctx, "ai candidates matched no catalog product",
			slog.String("product_id", viewed.ID.String()),
			slog.Int("candidates", len(suggestion.Candidates)),
		)
		return nil, domain.AlgorithmFallbackNoMatch
	}

	return &domain.RecommendationResult{
		Algorithm:       domain.AlgorithmAI,
		Industry:        suggestion.Industry,
		PopupTitle:      withDefault(suggestion.PopupTitle, domain.DefaultPopupTitle),
		PopupSubtitle:   withDefault(suggestion.PopupSubtitle, domain.DefaultPopupSubtitle),
		Recommendations: resolved,
	}, ""
}

func (e *Engine) fallback(viewed domain.Product, eligible []domain.Product, algorithm domain.Algorithm) *domain.RecommendationResult {
	picked := fallbackCandidates(viewed, eligible, e.shuffle)
	recs := make([]domain.ResolvedRecommendation, 0, len(picked))
	for _, p := range picked {
		recs = append(recs, toResolved(p, domain.FallbackReason))
	}
	return &domain.RecommendationResult{
		Algorithm:       algorithm,
		PopupTitle:      domain.DefaultPopupTitle,
		PopupSubtitle:   domain.DefaultPopupSubtitle,
		Recommendations: recs,
	}
}

// resolveCandidates keeps candidates whose id exists in the catalog, in the
// model's order. Unknown ids are dropped silently.
func resolveCandidates(candidates []domain.Candidate, catalog []domain.Product) []domain.ResolvedRecommendation {
	index := domain.IndexCatalog(catalog)
	out := make([]domain.ResolvedRecommendation, 0, len(candidates))
	for _, c := range candidates {
		p, ok := index[domain.NormalizeID(c.ProductID.String())]
		if !ok {
			continue
		}
		out = append(out, toResolved(p, c.Reason))
	}
	return out
}

// finalize drops the viewed product and duplicate ids, then truncates.
func finalize(recs []domain.ResolvedRecommendation, viewedID domain.ProductID, limit int) []domain.ResolvedRecommendation {
	if limit < domain.MinRecommendations {
		limit = domain.MinRecommendations
	}
	out := make([]domain.ResolvedRecommendation, 0, len(recs))
	seen := make(map[domain.ProductID]bool, len(recs))
	for _, r := range recs {
		if r.ID == viewedID || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func toResolved(p domain.Product, reason string) domain.ResolvedRecommendation {
	return domain.ResolvedRecommendation{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Currency: p.Currency,
		Reason:   reason,
		Image:    p.Image,
		URL:      p.URL,
	}
}

func withDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
