package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/cache"
	"github.com/actuallystonmai/upsell-service/internal/config"
	"github.com/actuallystonmai/upsell-service/internal/handler"
	"github.com/actuallystonmai/upsell-service/internal/middleware"
	"github.com/actuallystonmai/upsell-service/internal/model"
	"github.com/actuallystonmai/upsell-service/internal/recommend"
	"github.com/actuallystonmai/upsell-service/internal/repository"
	"github.com/actuallystonmai/upsell-service/internal/router"
	"github.com/actuallystonmai/upsell-service/internal/service"
	"github.com/actuallystonmai/upsell-service/internal/transport"
	"github.com/actuallystonmai/upsell-service/internal/woocommerce"
	"github.com/actuallystonmai/upsell-service/internal/wordpress"
	"github.com/actuallystonmai/upsell-service/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	merchantHTTPTimeout = 30 * time.Second
	shutdownTimeout     = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ------------ Migrations and seed ---------------
	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	repo := repository.NewRepository(pool)
	if !cfg.IsProduction() {
		if err := checkSeed(ctx, repo, pool, logger); err != nil {
			return fmt.Errorf("check seed: %w", err)
		}
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	catalogCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := catalogCache.Ping(ctx); err != nil {
		// cache failures are bypassed per request
		logger.Warn("redis unavailable, catalog cache disabled until it recovers", "error", err)
	} else {
		logger.Info("connected to Redis")
	}

	// ------------ Recommendation engine ---------------
	engine := recommend.NewEngine(newSuggester(cfg, logger), logger, recommend.WithTimeout(cfg.AITimeout))

	merchantClient := transport.NewClient(merchantHTTPTimeout)
	svc := service.NewService(service.Deps{
		Repo:      repo,
		Cache:     catalogCache,
		Engine:    engine,
		Fetcher:   woocommerce.New(merchantClient),
		Publisher: wordpress.New(merchantClient),
		Logger:    logger,
	})

	// ---------------- Server --------------------
	h := handler.NewHandler(svc, logger)
	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(h, router.Options{
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server starting",
			slog.String("addr", server.Addr),
			slog.String("environment", cfg.Environment),
			slog.Bool("ai_enabled", cfg.AIEnabled()),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// newSuggester returns nil when no AI provider is configured, which makes the
// engine go straight to the rule-based fallback.
func newSuggester(cfg *config.Config, logger *slog.Logger) recommend.Suggester {
	if !cfg.AIEnabled() {
		logger.Info("no GROQ_API_KEY configured, AI recommendations disabled")
		return nil
	}
	client := model.NewClient(model.ClientConfig{
		APIKey:      cfg.GroqAPIKey,
		Model:       cfg.GroqModel,
		BaseURL:     cfg.GroqBaseURL,
		Temperature: cfg.AITemperature,
		HTTPClient:  &http.Client{Timeout: cfg.AITimeout},
	})
	return model.NewStrategy(client, logger)
}
