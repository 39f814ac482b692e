package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"MROIntel/internal/config"
)

func fixedCache() *RedisCache {
	return &RedisCache{now: func() time.Time {
		return time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	}}
}

func TestKeyStableForEqualParams(t *testing.T) {
	t.Parallel()

	c := fixedCache()
	params := map[string]any{"gta_days_back": 30, "min_relevance": 0.6}

	first := c.key("gta", params)
	second := c.key("gta", map[string]any{"min_relevance": 0.6, "gta_days_back": 30})
	if first != second {
		t.Fatalf("key not stable: %q vs %q", first, second)
	}

	if !strings.HasPrefix(first, "gta:2026-08-01:") {
		t.Fatalf("unexpected key shape: %q", first)
	}
	digest := strings.TrimPrefix(first, "gta:2026-08-01:")
	if len(digest) != keyHashLength {
		t.Fatalf("expected %d-char digest, got %q", keyHashLength, digest)
	}
}

func TestKeyVariesWithParams(t *testing.T) {
	t.Parallel()

	c := fixedCache()
	a := c.key("gta", map[string]any{"gta_days_back": 30})
	b := c.key("gta", map[string]any{"gta_days_back": 60})
	if a == b {
		t.Fatalf("different params produced equal keys: %q", a)
	}
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	t.Parallel()

	c := New(config.CacheConfig{Enabled: false}, nil)

	var out []string
	if c.Get(context.Background(), "gta", nil, &out) {
		t.Fatalf("disabled cache reported a hit")
	}
	c.Set(context.Background(), "gta", nil, []string{"value"})
	if err := c.Close(); err != nil {
		t.Fatalf("close on disabled cache: %v", err)
	}
}

func TestBadRedisURLDisablesCache(t *testing.T) {
	t.Parallel()

	c := New(config.CacheConfig{Enabled: true, RedisURL: "not-a-url"}, nil)
	if c.Get(context.Background(), "gta", nil, new([]string)) {
		t.Fatalf("cache with bad URL must behave as disabled")
	}
}
