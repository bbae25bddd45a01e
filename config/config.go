// Package config holds process-wide defaults for lazygraph, loaded from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/golog"

	"github.com/smallnest/lazygraph/log"
)

// Store backends understood by store/open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSqlite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config carries defaults consulted when callers pass zero values.
type Config struct {
	// BenchmarkCapacity is the ring buffer size used by benchmark patching.
	BenchmarkCapacity int `env:"LAZYGRAPH_BENCHMARK_CAPACITY" envDefault:"100" validate:"gte=1"`

	LogLevel string `env:"LAZYGRAPH_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn warning error none disable off"`

	// StoreBackend selects the snapshot store built by store/open.
	StoreBackend string `env:"LAZYGRAPH_STORE_BACKEND" envDefault:"memory" validate:"oneof=memory file sqlite redis postgres"`

	// StoreDSN is a directory for file, a path for sqlite, an address for
	// redis and a connection string for postgres.
	StoreDSN string `env:"LAZYGRAPH_STORE_DSN" validate:"required_unless=StoreBackend memory"`

	// StoreTTL expires snapshots in backends that support it (redis).
	StoreTTL time.Duration `env:"LAZYGRAPH_STORE_TTL" envDefault:"0s" validate:"gte=0"`
}

// Option mutates a Config.
type Option func(*Config)

var validate = validator.New()

// Default returns the built-in configuration without reading the environment.
func Default() Config {
	return Config{
		BenchmarkCapacity: 100,
		LogLevel:          "warn",
		StoreBackend:      BackendMemory,
	}
}

// Load parses the environment, applies opts and validates the result.
func Load(opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.LogLevel {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LogLevelWarn
	}
	return level
}

// Logger builds a golog-backed logger at the configured level.
func (c *Config) Logger() *log.GologLogger {
	glogger := golog.New()
	glogger.SetPrefix("[lazygraph] ")
	logger := log.NewGologLogger(glogger)
	logger.SetLevel(c.Level())
	return logger
}

// Apply installs the configured logger as the package-level logger.
func (c *Config) Apply() {
	log.SetDefaultLogger(c.Logger())
}

func WithBenchmarkCapacity(n int) Option {
	return func(c *Config) {
		c.BenchmarkCapacity = n
	}
}

func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithStore selects a snapshot backend and its DSN.
func WithStore(backend, dsn string) Option {
	return func(c *Config) {
		c.StoreBackend = backend
		c.StoreDSN = dsn
	}
}

func WithStoreTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.StoreTTL = ttl
	}
}
