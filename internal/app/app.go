// Package app wires the newsrank components from configuration.
// Both the API server and the CLI build their stack here.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/config"
	dbPostgres "github.com/gauravkeywords/gameloft/internal/db/postgres"
	dbRedis "github.com/gauravkeywords/gameloft/internal/db/redis"
	"github.com/gauravkeywords/gameloft/internal/domain"
	"github.com/gauravkeywords/gameloft/internal/domain/search/rank"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	"github.com/gauravkeywords/gameloft/internal/metrics"
	documentrepo "github.com/gauravkeywords/gameloft/internal/repository/document"
	"github.com/gauravkeywords/gameloft/internal/repository/embcache"
	openaiEmb "github.com/gauravkeywords/gameloft/internal/transport/openai"
	embeddinguc "github.com/gauravkeywords/gameloft/internal/usecase/embedding"
	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
	searchuc "github.com/gauravkeywords/gameloft/internal/usecase/search"
)

const providerName = "openai-compatible"

// App holds the wired components. Close releases the backends.
type App struct {
	Config    config.Config
	Store     *dbPostgres.Store
	Cache     *dbRedis.Store // nil when no cache is configured
	Documents *documentrepo.Repo
	Embedder  domain.Embedder
	Ranker    *rank.Ranker
	Search    *searchuc.Service
	Health    *healthuc.Service
}

// New connects to the backends and composes the services. The document store must answer
// within database.readiness_timeout_sec; the cache is optional and only logged when down.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	store, err := dbPostgres.New(ctx, dbPostgres.Config{
		DSN:            cfg.Database.DSN,
		MaxConns:       cfg.Database.MaxConns,
		MinConns:       cfg.Database.MinConns,
		MigrateOnStart: cfg.Database.MigrateOnStart,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create document store: %w", err)
	}

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("document store not ready: %w", err)
	}
	logger.Info("Connected to document store")

	if cfg.Database.MigrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate document store: %w", err)
		}
	}

	a := &App{Config: cfg, Store: store, Documents: documentrepo.New(store.Pool())}

	if cfg.Cache.Enabled() {
		cache, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Cache.Addrs, Password: cfg.Cache.Password})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create cache: %w", err)
		}
		if err := cache.WaitForReady(ctx, readiness); err != nil {
			logger.Warn("Embedding cache not ready, continuing without waiting", zap.Error(err))
		}
		a.Cache = cache
	}

	a.Embedder = buildEmbedder(cfg, a.Cache, logger)

	a.Ranker, err = rank.New(boostTiers(cfg.Search.BoostTiers))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ranker: %w", err)
	}

	a.Search = searchuc.New(a.Documents, a.Embedder, a.Ranker, searchuc.Config{
		Dimensions: cfg.Search.Dimensions,
		Defaults: request.Defaults{
			Threshold: *cfg.Search.DefaultThreshold,
			Limit:     cfg.Search.DefaultLimit,
			MaxLimit:  cfg.Search.MaxLimit,
		},
	}, logger)

	deps := healthuc.Deps{
		Database:  store,
		Embedding: embeddingHealthChecker{a.Embedder},
		Counter:   a.Documents,
		Searcher:  a.Search,
	}
	if a.Cache != nil {
		deps.Cache = a.Cache
	}
	a.Health = healthuc.New(deps, logger)

	logger.Info("Search stack ready",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Search.Dimensions),
		zap.Bool("cache", a.Cache != nil),
		zap.String("boost_tiers", describeTiers(a.Ranker.Tiers())),
	)
	return a, nil
}

// Close releases the cache and the document store.
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	a.Store.Close()
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func (h embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// cache is a concrete pointer; a nil one must not become a non-nil interface.
func buildEmbedder(cfg config.Config, cache *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Search.Dimensions,
		Provider:   providerName,
		Logger:     logger,
	})

	if cache != nil {
		embedder = embcache.New(embedder, cache, embcache.Options{
			KeyPrefix: cfg.Cache.KeyPrefix,
			Model:     cfg.Embedding.Model,
			TTL:       time.Duration(cfg.Cache.TTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, providerName, cfg.Embedding.Model, cfg.Search.Dimensions, logger,
	)

	// Outermost, so the cache key includes the instruction.
	if cfg.Embedding.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}
	return embedder
}

func boostTiers(in []config.BoostTier) []rank.Tier {
	tiers := make([]rank.Tier, len(in))
	for i, t := range in {
		tiers[i] = rank.Tier{MaxAgeDays: t.MaxAgeDays, Multiplier: t.Multiplier}
	}
	return tiers
}

// describeTiers renders the boost schedule as "7d×1.3 30d×1.1".
func describeTiers(tiers []rank.Tier) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = fmt.Sprintf("%dd×%g", t.MaxAgeDays, t.Multiplier)
	}
	return strings.Join(parts, " ")
}
