// Package open builds a store.SnapshotStore from configuration.
package open

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/smallnest/lazygraph/config"
	"github.com/smallnest/lazygraph/log"
	"github.com/smallnest/lazygraph/store"
	"github.com/smallnest/lazygraph/store/file"
	"github.com/smallnest/lazygraph/store/memory"
	"github.com/smallnest/lazygraph/store/postgres"
	"github.com/smallnest/lazygraph/store/redis"
	"github.com/smallnest/lazygraph/store/sqlite"
)

// Open returns the snapshot store selected by cfg.StoreBackend. For redis the
// DSN may be a bare address or a redis:// URL. Postgres tables are created if
// missing.
func Open(ctx context.Context, cfg config.Config) (store.SnapshotStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("opening %s snapshot store", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.NewMemorySnapshotStore(), nil

	case config.BackendFile:
		return file.NewFileSnapshotStore(cfg.StoreDSN)

	case config.BackendSqlite:
		return sqlite.NewSqliteSnapshotStore(sqlite.SqliteOptions{Path: cfg.StoreDSN})

	case config.BackendRedis:
		opts := &goredis.Options{Addr: cfg.StoreDSN}
		if strings.Contains(cfg.StoreDSN, "://") {
			parsed, err := goredis.ParseURL(cfg.StoreDSN)
			if err != nil {
				return nil, fmt.Errorf("invalid redis url: %w", err)
			}
			opts = parsed
		}
		return redis.NewRedisSnapshotStoreWithClient(goredis.NewClient(opts), "", cfg.StoreTTL), nil

	case config.BackendPostgres:
		s, err := postgres.NewPostgresSnapshotStore(ctx, postgres.PostgresOptions{ConnString: cfg.StoreDSN})
		if err != nil {
			return nil, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
