package cache

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/earnings-tracker/internal/config"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type factoryConfig interface {
	Backend() string
	TTL() time.Duration
}

// New builds the backend selected in config.
func New(cfg *config.CacheConfig) (Cache, error) {
	return build(cfg, &cfg.Memcached, &cfg.Redis)
}

func build(cfg factoryConfig, mc memcachedConfig, rc redisConfig) (Cache, error) {
	switch cfg.Backend() {
	case config.CacheMemcached:
		return NewMemcache(mc, cfg.TTL())
	case config.CacheRedis:
		return NewRedis(rc, cfg.TTL())
	case config.CacheMemory, "":
		return NewMemory(cfg.TTL()), nil
	case config.CacheNone:
		return Nop{}, nil
	default:
		return nil, errors.Errorf("unknown cache backend %q", cfg.Backend())
	}
}

// Close releases backends that hold connections.
func Close(c Cache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
