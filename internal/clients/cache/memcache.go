package cache

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/logger"
)

type MemcacheClient struct {
	client *memcache.Client
	ttl    int32
}

type memcachedConfig interface {
	Hosts() []string
}

func NewMemcache(config memcachedConfig, ttl time.Duration) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{client: mc, ttl: int32(ttl.Seconds())}, mc.Ping()
}

func (mc *MemcacheClient) Get(_ context.Context, key string) ([]byte, error) {
	item, err := mc.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "memcache get")
	}
	return item.Value, nil
}

func (mc *MemcacheClient) Set(_ context.Context, key string, value []byte) error {
	err := mc.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: mc.ttl,
	})
	return errors.Wrap(err, "memcache set")
}
