package newsrank

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// BoostTier multiplies the similarity of documents at most MaxAgeDays older than the
// window end. Tiers are checked in ascending age order.
type BoostTier struct {
	MaxAgeDays int
	Multiplier float64
}

type clientConfig struct {
	dsn      string
	maxConns int32
	migrate  bool

	cacheAddr     string
	cachePassword string
	cacheTTL      time.Duration

	embedder Embedder

	dimensions int
	threshold  *float64
	limit      int
	maxLimit   int
	tiers      []BoostTier

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the document store connection string.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithMaxConns caps the document store pool size. Default: 25.
func WithMaxConns(n int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = n
	})
}

// WithMigrations applies the embedded schema migrations on New.
func WithMigrations() Option {
	return optionFunc(func(c *clientConfig) {
		c.migrate = true
	})
}

// WithRedisCache caches query embeddings in Redis. ttl 0 keeps entries forever.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddr = addr
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithEmbedder sets the query encoder. Without one, only embedding queries work.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions sets the embedding dimension. Default: 1024 (Titan Text Embeddings v2).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithDefaults sets the threshold and limit used when a request omits them.
// Defaults: threshold 0.6, limit 10, max limit 100.
func WithDefaults(threshold float64, limit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = &threshold
		c.limit = limit
		c.maxLimit = maxLimit
	})
}

// WithBoostTiers replaces the recency tiers. Default: 7 days ×1.3, 30 days ×1.1.
func WithBoostTiers(tiers ...BoostTier) Option {
	return optionFunc(func(c *clientConfig) {
		c.tiers = tiers
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
