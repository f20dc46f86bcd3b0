package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gauravkeywords/gameloft/internal/domain"
)

// Config holds the newsrank configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	MCP       MCPConfig       `yaml:"mcp"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// RequestTimeoutSec bounds a single search (encoder + store + ranking).
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

// DatabaseConfig holds the Postgres document store settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxConns         int32  `yaml:"max_conns"`
	MinConns         int32  `yaml:"min_conns"`
	MigrateOnStart   bool   `yaml:"migrate_on_start"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds the Redis embedding cache settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTLHours  int      `yaml:"ttl_hours"` // 0 = no expiry
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// EmbeddingConfig holds query encoder settings.
type EmbeddingConfig struct {
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	QueryInstruction string `yaml:"query_instruction"`
}

// SearchConfig holds ranking defaults.
type SearchConfig struct {
	Dimensions       int         `yaml:"dimensions"`
	DefaultThreshold *float64    `yaml:"default_similarity_threshold"`
	DefaultLimit     int         `yaml:"default_result_limit"`
	MaxLimit         int         `yaml:"max_result_limit"`
	BoostTiers       []BoostTier `yaml:"boost_tiers"`
}

// BoostTier is one recency boost step.
type BoostTier struct {
	MaxAgeDays int     `yaml:"max_age_days"`
	Multiplier float64 `yaml:"multiplier"`
}

// MCPConfig holds Model Context Protocol endpoint settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// DefaultThreshold applies to tool calls that omit similarity_threshold.
	DefaultThreshold *float64 `yaml:"default_similarity_threshold"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RequestTimeoutSec <= 0 {
		c.HTTP.RequestTimeoutSec = 20
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 25
	}
	if c.Database.MinConns <= 0 {
		c.Database.MinConns = 5
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	// Unset ${VAR} list entries expand to empty strings.
	c.Cache.Addrs = dropEmpty(c.Cache.Addrs)
	c.Auth.APIKeys = dropEmpty(c.Auth.APIKeys)
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "newsrank:"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = domain.DefaultVectorConfig().Model
	}
	if c.Search.Dimensions <= 0 {
		c.Search.Dimensions = domain.DefaultVectorConfig().Dimensions
	}
	if c.Search.DefaultThreshold == nil {
		v := 0.6
		c.Search.DefaultThreshold = &v
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.BoostTiers == nil {
		c.Search.BoostTiers = []BoostTier{
			{MaxAgeDays: 7, Multiplier: 1.3},
			{MaxAgeDays: 30, Multiplier: 1.1},
		}
	}
	if c.MCP.Path == "" {
		c.MCP.Path = "/mcp"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds database.max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if err := c.Search.validate(); err != nil {
		return err
	}
	if c.MCP.DefaultThreshold != nil && !inUnitRange(*c.MCP.DefaultThreshold) {
		return fmt.Errorf("mcp.default_similarity_threshold must be in [-1, 1], got %v", *c.MCP.DefaultThreshold)
	}
	if !strings.HasPrefix(c.MCP.Path, "/") {
		return fmt.Errorf("mcp.path must start with '/', got %q", c.MCP.Path)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.DefaultThreshold != nil && !inUnitRange(*s.DefaultThreshold) {
		return fmt.Errorf("search.default_similarity_threshold must be in [-1, 1], got %v", *s.DefaultThreshold)
	}
	if s.DefaultLimit > s.MaxLimit {
		return fmt.Errorf("search.default_result_limit (%d) exceeds search.max_result_limit (%d)",
			s.DefaultLimit, s.MaxLimit)
	}
	prev := -1
	for i, t := range s.BoostTiers {
		if t.MaxAgeDays <= prev {
			return fmt.Errorf("search.boost_tiers[%d]: max_age_days must be strictly ascending and >= 0, got %d",
				i, t.MaxAgeDays)
		}
		if t.Multiplier <= 0 {
			return fmt.Errorf("search.boost_tiers[%d]: multiplier must be positive, got %v", i, t.Multiplier)
		}
		prev = t.MaxAgeDays
	}
	return nil
}

func dropEmpty(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func inUnitRange(v float64) bool { return v >= -1 && v <= 1 }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
