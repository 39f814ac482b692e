package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"MROIntel/internal/config"
	"MROIntel/internal/ports"
)

const keyHashLength = 12

// RedisCache stores raw source responses keyed by source name, day,
// and a digest of the fetch parameters. When Redis is unreachable or
// disabled the cache degrades to a no-op.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.ResponseCache = (*RedisCache)(nil)

// New connects to Redis per config. A failed connection is logged and
// yields a disabled cache instead of an error.
func New(cfg config.CacheConfig, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}

	c := &RedisCache{ttl: cfg.TTL(), logger: logger, now: time.Now}
	if !cfg.Enabled {
		return c
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("response cache disabled", "error", err)
		return c
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("response cache disabled", "error", err)
		return c
	}

	c.client = client
	return c
}

// Get decodes a cached value into out. Misses, decode failures, and a
// disabled cache all report false.
func (c *RedisCache) Get(ctx context.Context, source string, params map[string]any, out any) bool {
	if c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, c.key(source, params)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("discarding undecodable cache entry", "source", source, "error", err)
		return false
	}
	return true
}

// Set stores a value best-effort; failures are logged only.
func (c *RedisCache) Set(ctx context.Context, source string, params map[string]any, value any) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "source", source, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(source, params), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "source", source, "error", err)
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// key is "{source}:{day}:{params digest}". json.Marshal sorts map keys
// so the digest is stable for equal parameter sets.
func (c *RedisCache) key(source string, params map[string]any) string {
	encoded, _ := json.Marshal(params)
	sum := sha256.Sum256(encoded)
	digest := hex.EncodeToString(sum[:])[:keyHashLength]
	return source + ":" + c.now().Format("2006-01-02") + ":" + digest
}
