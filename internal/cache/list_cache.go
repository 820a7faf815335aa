package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "galleria:images:ver"

// ListCache holds serialized image listings under versioned keys. Every
// image or like mutation bumps the version, which orphans all prior keys;
// orphans expire on their own TTL, so no key scanning is needed.
//
// A nil *ListCache is valid and caches nothing.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

// Key builds a versioned cache key from the listing parameters. Each part
// is escaped so a delimiter inside a filter term cannot make two distinct
// filter combinations share a key.
func (c *ListCache) Key(ctx context.Context, parts ...string) string {
	if c == nil {
		return ""
	}
	version, err := c.client.Get(ctx, versionKey).Result()
	if err != nil {
		version = "0"
	}

	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.QueryEscape(part)
	}
	return "galleria:images:" + version + ":" + strings.Join(escaped, ":")
}

func (c *ListCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || key == "" {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *ListCache) Set(ctx context.Context, key string, value any) {
	if c == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, c.ttl)
}

// Bump invalidates all cached listings.
func (c *ListCache) Bump(ctx context.Context) {
	if c == nil {
		return
	}
	c.client.Incr(ctx, versionKey)
}
