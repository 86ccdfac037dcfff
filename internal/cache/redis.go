package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores the same compressed blobs as FileCache, in Redis. Useful
// when several generator instances share one logic corpus.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(redisURL string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &RedisCache{
		client: redis.NewClient(opts),
		logger: logger,
		ttl:    30 * 24 * time.Hour,
	}, nil
}

func (c *RedisCache) key(key string) string {
	return "wadrando:records:" + key
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Load(ctx context.Context, key string, sourceTime time.Time) ([]Record, bool, error) {
	blob, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading cache %s: %w", key, err)
	}

	zr, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, false, fmt.Errorf("reading cache %s: %w", key, err)
	}
	defer zr.Close()

	var e entry
	if err := gob.NewDecoder(zr).Decode(&e); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	if !e.SourceTime.Equal(sourceTime) {
		return nil, false, nil
	}
	return e.Records, true, nil
}

func (c *RedisCache) Store(ctx context.Context, key string, sourceTime time.Time, records []Record) error {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("compressing cache %s: %w", key, err)
	}
	if err := gob.NewEncoder(zw).Encode(entry{SourceTime: sourceTime, Records: records}); err != nil {
		zw.Close()
		return fmt.Errorf("encoding cache %s: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing cache %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.key(key), buf.Bytes(), c.ttl).Err(); err != nil {
		return fmt.Errorf("storing cache %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
