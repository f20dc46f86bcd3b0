package newsrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbPostgres "github.com/gauravkeywords/gameloft/internal/db/postgres"
	dbRedis "github.com/gauravkeywords/gameloft/internal/db/redis"
	"github.com/gauravkeywords/gameloft/internal/domain"
	domdoc "github.com/gauravkeywords/gameloft/internal/domain/document"
	"github.com/gauravkeywords/gameloft/internal/domain/search/rank"
	"github.com/gauravkeywords/gameloft/internal/domain/search/request"
	documentrepo "github.com/gauravkeywords/gameloft/internal/repository/document"
	"github.com/gauravkeywords/gameloft/internal/repository/embcache"
	healthuc "github.com/gauravkeywords/gameloft/internal/usecase/health"
	searchuc "github.com/gauravkeywords/gameloft/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	cacheKeyPrefix          = "newsrank:sdk:"
)

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, p request.Params) (searchuc.Response, error)
	Dimensions() int
}

type documentWriter interface {
	Insert(ctx context.Context, doc domdoc.Document) (domdoc.Document, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the newsrank SDK entry point. It is safe for concurrent use.
type Client struct {
	db        pinger
	searchSvc searchUseCase
	healthSvc healthUseCase
	docs      documentWriter
	obs       *observer
	closers   []func()
}

// New creates a Client and connects to the document store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{dimensions: domain.DefaultVectorConfig().Dimensions}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.dsn == "" {
		return nil, errors.New("newsrank: document store DSN required (use WithPostgres)")
	}

	ranker, defaults, err := rankingConfig(cfg)
	if err != nil {
		return nil, err
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbPostgres.New(ctx, dbPostgres.Config{DSN: cfg.dsn, MaxConns: cfg.maxConns}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("newsrank: create document store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("newsrank: document store not ready: %w", err)
	}
	if cfg.migrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("newsrank: migrate: %w", err)
		}
	}

	c := &Client{db: store, obs: obs, closers: []func(){store.Close}}

	var embedder domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}

	var cache *dbRedis.Store
	if cfg.cacheAddr != "" {
		cache, err = dbRedis.NewStore(dbRedis.Config{Addrs: []string{cfg.cacheAddr}, Password: cfg.cachePassword})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("newsrank: create cache: %w", err)
		}
		c.closers = append(c.closers, cache.Close)
		embedder = embcache.New(embedder, cache, embcache.Options{
			KeyPrefix: cacheKeyPrefix,
			TTL:       cfg.cacheTTL,
		}, nil, zap.NewNop())
	}

	docs := documentrepo.New(store.Pool())
	search := searchuc.New(docs, embedder, ranker, searchuc.Config{
		Dimensions: cfg.dimensions,
		Defaults:   defaults,
	}, zap.NewNop())

	deps := healthuc.Deps{Database: store, Counter: docs, Searcher: search}
	if cache != nil {
		deps.Cache = cache
	}

	c.searchSvc = search
	c.docs = docs
	c.healthSvc = healthuc.New(deps, zap.NewNop())
	return c, nil
}

// rankingConfig resolves the boost tiers and the parameter defaults from options.
func rankingConfig(cfg *clientConfig) (*rank.Ranker, request.Defaults, error) {
	tiers := rank.DefaultTiers()
	if cfg.tiers != nil {
		tiers = make([]rank.Tier, len(cfg.tiers))
		for i, t := range cfg.tiers {
			tiers[i] = rank.Tier{MaxAgeDays: t.MaxAgeDays, Multiplier: t.Multiplier}
		}
	}
	ranker, err := rank.New(tiers)
	if err != nil {
		return nil, request.Defaults{}, fmt.Errorf("newsrank: boost tiers: %w", err)
	}

	defaults := request.DefaultDefaults()
	if cfg.threshold != nil {
		defaults.Threshold = *cfg.threshold
	}
	if cfg.limit > 0 {
		defaults.Limit = cfg.limit
	}
	if cfg.maxLimit > 0 {
		defaults.MaxLimit = cfg.maxLimit
	}
	return ranker, defaults, nil
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Ping checks document store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Dimensions returns the embedding dimension documents and queries must have.
func (c *Client) Dimensions() int { return c.searchSvc.Dimensions() }

// Search ranks the documents of the request window against the query.
// Errors match ErrValidation, ErrVectorDimMismatch or ErrUpstream via errors.Is.
func (c *Client) Search(ctx context.Context, req SearchRequest) (_ SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	ctx, usage := domain.WithQueryUsage(searchuc.WithSource(ctx, searchuc.SourceSDK))
	resp, err := c.searchSvc.Search(ctx, request.Params{
		Query:          req.Query,
		QueryEmbedding: req.QueryEmbedding,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Threshold:      req.Threshold,
		Limit:          req.Limit,
	})
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		hits[i] = Hit{
			ID:          r.ID(),
			Content:     r.Content(),
			Metadata:    r.Metadata(),
			Similarity:  r.Similarity(),
			ContentDate: r.ContentDate(),
		}
	}
	return SearchResponse{
		Hits:       hits,
		StartDate:  resp.StartDate,
		EndDate:    resp.EndDate,
		Threshold:  resp.Threshold,
		Limit:      resp.Limit,
		Candidates: resp.Candidates,
		Tokens:     usage.TotalTokens,
	}, nil
}

// Insert stores a document and returns its assigned id.
func (c *Client) Insert(ctx context.Context, doc Document) (_ int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("insert", start, err) }()

	if dim := c.searchSvc.Dimensions(); dim > 0 && len(doc.Embedding) != dim {
		return 0, domain.NewDimensionMismatch(dim, len(doc.Embedding))
	}
	d, err := domdoc.New(doc.Content, doc.Metadata, doc.Embedding)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	stored, err := c.docs.Insert(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("insert: %w: %w", ErrDocumentStore, err)
	}
	return stored.ID(), nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", ErrEmbeddingProviderError, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"newsrank: embedder not configured (use WithEmbedder or pass QueryEmbedding)",
	)
}
