package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// ImageCache stores inlined image payloads keyed by their source reference
type ImageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// CacheKey derives a stable cache key from an image reference
func CacheKey(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

// DiskImageCache keeps cached images as files under Dir
type DiskImageCache struct {
	Dir string
}

var _ ImageCache = (*DiskImageCache)(nil)

// NewDiskImageCache ensures the cache directory exists
func NewDiskImageCache(dir string) (*DiskImageCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskImageCache{Dir: dir}, nil
}

func (c *DiskImageCache) path(key string) string {
	return filepath.Join(c.Dir, key+".uri")
}

// Get reads a cached payload. A missing file is a miss, not an error.
func (c *DiskImageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read from cache: %w", err)
	}
	return data, true, nil
}

// Set writes a payload to the cache
func (c *DiskImageCache) Set(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", key)
	return nil
}

// RedisImageCache shares cached images between server instances
type RedisImageCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ImageCache = (*RedisImageCache)(nil)

// NewRedisImageCache connects using a redis:// URL
func NewRedisImageCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisImageCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	log.Printf("✓ Redis image cache connected: %s", opts.Addr)
	return &RedisImageCache{client: client, prefix: "catalog:img:", ttl: ttl}, nil
}

// Get returns ok=false on a miss
func (c *RedisImageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a payload with the configured TTL
func (c *RedisImageCache) Set(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Close releases the connection pool
func (c *RedisImageCache) Close() error {
	return c.client.Close()
}
