// Package countcache keeps query totals in redis so repeated page requests
// skip the COUNT(*) round trip.
package countcache

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/pagedquery/internal/config"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Client is the part of redis.Cmdable the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Cache struct {
	client Client
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

// New returns a cache storing totals under prefix+key for ttl.
func New(client Client, ttl time.Duration, prefix string, logger zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		log:    logger.With().Str("component", "countcache").Logger(),
	}
}

// NewClient opens a redis client for cfg. It returns nil when no address is set.
func NewClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Wrap serves the total from redis when present and stores it after a miss.
// Redis failures never fail the count.
func (c *Cache) Wrap(key string, fn pagedquery.CountFunc) pagedquery.CountFunc {
	key = c.prefix + key
	return func(ctx context.Context) (int, pagedquery.CountStrategy, error) {
		n, err := c.client.Get(ctx, key).Int()
		if err == nil {
			return n, pagedquery.CountCached, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("count cache read failed")
		}

		n, strategy, err := fn(ctx)
		if err != nil {
			return 0, strategy, err
		}
		if err := c.client.Set(ctx, key, n, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("count cache write failed")
		}
		return n, strategy, nil
	}
}

var _ pagedquery.CountCache = (*Cache)(nil)
