package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/prodlens/backend/config"
	httpDelivery "github.com/prodlens/backend/internal/delivery/http"
	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/infrastructure/auth"
	"github.com/prodlens/backend/internal/infrastructure/cache"
	"github.com/prodlens/backend/internal/infrastructure/llm"
	"github.com/prodlens/backend/internal/infrastructure/scraper"
	"github.com/prodlens/backend/internal/infrastructure/store/memory"
	redisstore "github.com/prodlens/backend/internal/infrastructure/store/redis"
	"github.com/prodlens/backend/internal/logger"
	"github.com/prodlens/backend/internal/metrics"
	"github.com/prodlens/backend/internal/usecase"
)

const (
	cacheSweepInterval  = 10 * time.Minute
	storeReadyTimeout   = 10 * time.Second
	shutdownGracePeriod = 10 * time.Second
)

// documentStore is satisfied by both store backends
type documentStore interface {
	domain.SummaryRepository
	domain.ComparisonRepository
	domain.UserRepository
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(logger.Config{Environment: cfg.Server.Environment, Level: cfg.Log.Level})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ProdLens backend",
		zap.String("env", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	// Initialize infrastructure dependencies
	store, closeStore := openStore(cfg, log)
	defer closeStore()

	scrapeCache := cache.NewMemoryCache(cacheSweepInterval)
	defer scrapeCache.Close()
	if err := metrics.RegisterScrapeCacheSize(prometheus.DefaultRegisterer, scrapeCache.Size); err != nil {
		log.Warn("scrape cache gauge not registered", zap.Error(err))
	}

	pageScraper := scraper.NewClient(scraper.Config{
		UserAgent:         cfg.Scraper.UserAgent,
		Timeout:           cfg.Scraper.Timeout,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
		Burst:             cfg.Scraper.Burst,
		MaxRetries:        cfg.Scraper.MaxRetries,
		Logger:            log,
	})
	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		pageScraper.SetDebug(true)
		log.Debug("scraper debug mode enabled")
	}

	generator := llm.New(llm.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
		Logger:      log,
	})
	log.Info("text generation provider selected", zap.String("provider", generator.Name()))

	tokens := auth.NewJWTManager(auth.JWTConfig{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TokenTTL})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT secret not configured, register and login will fail")
	}

	// Initialize usecase layer
	normalizer := usecase.NewNormalizer(pageScraper, scrapeCache, usecase.NormalizerConfig{CacheTTL: cfg.Cache.TTL}, log)
	summarizer := usecase.NewSummarizer(generator, log)
	engine := usecase.NewComparisonEngine(summarizer, usecase.ComparisonEngineConfig{})
	products := usecase.NewProductService(normalizer, summarizer, engine, store, store, log)
	accounts := usecase.NewAuthService(store, tokens, auth.NewBcryptHasher(0), log)

	// Create HTTP handlers and router
	handler := httpDelivery.NewHandler(products)
	authHandler := httpDelivery.NewAuthHandler(accounts, httpDelivery.CookieConfig{
		Name:   cfg.Auth.CookieName,
		TTL:    tokens.TTL(),
		Secure: cfg.Server.IsProduction(),
	})
	router := httpDelivery.SetupRouter(cfg, handler, authHandler, tokens, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}

// openStore builds the configured document store and its close function
func openStore(cfg *config.Config, log *zap.Logger) (documentStore, func()) {
	if cfg.Store.Type != "redis" {
		return memory.NewStore(), func() {}
	}

	store, err := redisstore.NewStore(redisstore.Config{
		Addrs:     cfg.Store.RedisAddrs,
		Password:  cfg.Store.RedisPassword,
		DB:        cfg.Store.RedisDB,
		KeyPrefix: cfg.Store.KeyPrefix,
	})
	if err != nil {
		log.Fatal("Failed to create redis store", zap.Error(err))
	}

	if err := store.WaitForReady(context.Background(), storeReadyTimeout); err != nil {
		store.Close()
		log.Fatal("Redis not ready", zap.Error(err))
	}
	log.Info("Connected to redis", zap.Strings("addrs", cfg.Store.RedisAddrs))

	return store, store.Close
}
