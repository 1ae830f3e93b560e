package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/actuallystonmai/upsell-service/internal/service"
	"github.com/actuallystonmai/upsell-service/internal/wordpress"
)

const maxBodyBytes = 1 << 20

// Service is the application layer behind the HTTP handlers.
type Service interface {
	AuthenticateStore(ctx context.Context, storeID, apiKey string) (*domain.Store, error)
	Recommend(ctx context.Context, req service.RecommendRequest) (*service.RecommendResponse, error)
	RecommendBatch(ctx context.Context, storeID string, productIDs []domain.ProductID) (*domain.BatchResponse, error)
	CheckLimit(ctx context.Context, storeID string, action domain.LimitAction, amount int) (*domain.LimitDecision, error)
	IncrementPages(ctx context.Context, storeID string, n int) error
	PublishPage(ctx context.Context, storeID string, req service.PublishRequest) (*wordpress.PublishedPage, error)
	GetSettings(ctx context.Context, storeID string) (*domain.StoreSettings, error)
	UpdateSettings(ctx context.Context, storeID string, update domain.SettingsOverrides) (*domain.StoreSettings, error)
	SyncProducts(ctx context.Context, storeID string, pushed []domain.Product) (*service.SyncResult, error)
	Track(ctx context.Context, req service.TrackRequest) (*domain.TrackingEvent, error)
	Stats(ctx context.Context, storeID string) (*domain.EventStats, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger.With("component", "handler")}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// writeServiceError maps domain errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var limitErr *service.LimitError
	switch {
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusForbidden, LimitErrorResponse{
			ErrorResponse: ErrorResponse{Error: "limit_exceeded", Message: limitErr.Decision.Reason},
			Decision:      limitErr.Decision,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid API key")
	case errors.Is(err, domain.ErrStoreNotFound):
		writeError(w, http.StatusNotFound, "store_not_found", "Store does not exist")
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", "Product does not exist")
	case errors.Is(err, domain.ErrLimitExceeded):
		writeError(w, http.StatusForbidden, "limit_exceeded", err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		h.logger.Warn("upstream failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "upstream_unavailable", "An upstream service is unavailable")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
