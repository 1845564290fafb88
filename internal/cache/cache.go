// Package cache holds the category lookup cache used by the enricher to
// skip detail navigations it has already paid for.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

// CategoryCache maps a detail URL to its breadcrumb category. Lookups and
// stores are best-effort: a failing backend degrades to cache misses and
// never fails the run.
type CategoryCache interface {
	Get(ctx context.Context, detailURL string) (string, bool)
	Set(ctx context.Context, detailURL, category string)
}

// Memory is an in-process LRU cache, the default backend.
type Memory struct {
	entries *lru.Cache[string, string]
}

func NewMemory(size int) (*Memory, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &Memory{entries: entries}, nil
}

func (m *Memory) Get(_ context.Context, detailURL string) (string, bool) {
	return m.entries.Get(detailURL)
}

func (m *Memory) Set(_ context.Context, detailURL, category string) {
	m.entries.Add(detailURL, category)
}

// Redis keeps categories across runs so repeat scrapes of a stable catalog
// skip most detail fetches.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "category_cache"),
	}, nil
}

func (r *Redis) Get(ctx context.Context, detailURL string) (string, bool) {
	category, err := r.client.Get(ctx, key(detailURL)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Debug("cache get failed", "url", detailURL, "error", err)
		}
		return "", false
	}
	return category, true
}

func (r *Redis) Set(ctx context.Context, detailURL, category string) {
	if err := r.client.Set(ctx, key(detailURL), category, r.ttl).Err(); err != nil {
		r.logger.Debug("cache set failed", "url", detailURL, "error", err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func key(detailURL string) string {
	return "bookstore:category:" + detailURL
}
