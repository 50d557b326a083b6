package storage

import (
	"context"
	"fmt"

	"github.com/caredesk/clinic-console/internal/config"
)

// Open builds the substrate selected by the configuration.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.DataFile)
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
