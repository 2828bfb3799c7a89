package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend on Redis hashes, one hash per usage key.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a Redis usage backend.
func NewRedisBackend(addr, password string, db int, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "gemini_proxy:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisBackend{client: client, prefix: prefix}
}

// Initialize tests the Redis connection.
func (r *RedisBackend) Initialize(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func (r *RedisBackend) usageKey(key string) string {
	return r.prefix + "usage:" + key
}

func (r *RedisBackend) IncrementUsage(ctx context.Context, key, field string, value int64) error {
	return r.client.HIncrBy(ctx, r.usageKey(key), field, value).Err()
}

func (r *RedisBackend) GetUsage(ctx context.Context, key string) (map[string]int64, error) {
	data, err := r.client.HGetAll(ctx, r.usageKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &ErrNotFound{Key: key}
	}
	return parseCounters(data), nil
}

func (r *RedisBackend) ListUsage(ctx context.Context) (map[string]map[string]int64, error) {
	pattern := r.prefix + "usage:*"
	result := make(map[string]map[string]int64)
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		hashKey := iter.Val()
		data, err := r.client.HGetAll(ctx, hashKey).Result()
		if err != nil {
			return nil, err
		}
		usageKey := strings.TrimPrefix(hashKey, r.prefix+"usage:")
		result[usageKey] = parseCounters(data)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RedisBackend) ResetUsage(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.usageKey(key)).Err()
}

func (r *RedisBackend) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func parseCounters(data map[string]string) map[string]int64 {
	out := make(map[string]int64, len(data))
	for k, v := range data {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[k] = n
	}
	return out
}
