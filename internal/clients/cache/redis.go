package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/logger"
)

const pingTimeout = 5 * time.Second

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

type redisConfig interface {
	Addr() string
	Password() string
	DB() int
}

func NewRedis(config redisConfig, ttl time.Duration) (*RedisClient, error) {
	logger.Info("redis address", zap.String("addr", config.Addr()))
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr(),
		Password: config.Password(),
		DB:       config.DB(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}
	return &RedisClient{client: client, ttl: ttl}, nil
}

func (rc *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}
	return val, nil
}

func (rc *RedisClient) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(rc.client.Set(ctx, key, value, rc.ttl).Err(), "redis set")
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
