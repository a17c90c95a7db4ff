package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aldalil-gateway/internal/common/errors"
	"aldalil-gateway/internal/common/metrics"
)

const redisKeyPrefix = "gateway:cache:"

// Redis is a Store backed by a shared Redis instance so multiple gateway
// replicas serve from one cache.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis wraps an existing client. The caller owns the connection.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.NewCacheFailureError("get", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, false, errors.NewCacheFailureError("decode", err)
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return entry, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, entry Entry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return errors.NewCacheFailureError("encode", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, encoded, r.ttl).Err(); err != nil {
		return errors.NewCacheFailureError("put", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.NewCacheFailureError("clear", err)
	}
	return nil
}

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Backend: "redis", Entries: len(keys), TTL: r.ttl}, nil
}

func (r *Redis) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, errors.NewCacheFailureError("scan", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// NewRedisClient dials a standalone Redis server and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
