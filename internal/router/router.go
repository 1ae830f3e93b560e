package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/handler"
	"github.com/actuallystonmai/upsell-service/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
}

func Setup(h *handler.Handler, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(opts.Logger))
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(chimw.Timeout(opts.RequestTimeout))

	r.Get("/health", h.Health)

	// Storefront routes
	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}
		r.Post("/recommendations", h.Recommend)
		r.Post("/track", h.Track)
	})

	// Store owner routes
	r.Route("/stores/{storeID}", func(r chi.Router) {
		r.Use(h.RequireStoreKey)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Post("/limits/check", h.CheckLimit)
		r.Post("/usage/pages", h.IncrementPages)
		r.Post("/pages", h.PublishPage)
		r.Post("/products/sync", h.SyncProducts)
		r.Post("/recommendations/batch", h.RecommendBatch)
		r.Get("/stats", h.Stats)
	})

	return r
}
