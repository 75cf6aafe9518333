package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meili-bridge/internal/query"
	"github.com/meili-bridge/internal/search"
)

// CacheStats reports result-cache effectiveness.
type CacheStats struct {
	HitRate   float64 `json:"hit_rate"`
	TotalHits int64   `json:"total_hits"`
	TotalMiss int64   `json:"total_miss"`
}

// ResultCache caches executed search results in Redis, keyed by a digest of
// the translated search parameters. Two requests that translate to the same
// engine query share one entry regardless of how the descriptor was phrased.
type ResultCache struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewResultCache connects to Redis and verifies the connection.
func NewResultCache(redisURL string, ttl time.Duration, logger *zap.Logger) (*ResultCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ResultCache{
		client: client,
		logger: logger,
		prefix: "meili_bridge:results:",
		ttl:    ttl,
	}, nil
}

// Key derives the cache key for a set of translated search parameters.
func (rc *ResultCache) Key(params *query.SearchParams) string {
	payload, _ := json.Marshal(params)
	return rc.prefix + fmt.Sprintf("%x", sha256.Sum256(payload))
}

// Get returns a cached result for the key, if present.
func (rc *ResultCache) Get(ctx context.Context, key string) (*search.Result, bool, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		rc.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rc.logger.Error("redis get failed", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}

	var result search.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		rc.logger.Error("failed to unmarshal cached result", zap.Error(err))
		return nil, false, err
	}

	rc.hits.Add(1)
	rc.logger.Debug("result cache hit", zap.String("key", key))
	return &result, true, nil
}

// Set stores a result under the key with the configured TTL.
func (rc *ResultCache) Set(ctx context.Context, key string, result *search.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return rc.client.Set(ctx, key, payload, rc.ttl).Err()
}

// Invalidate drops every cached result. Called after reindexing so stale
// hit lists never outlive the documents they point at.
func (rc *ResultCache) Invalidate(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, rc.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := rc.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	return iter.Err()
}

// Stats returns hit/miss counters for the admin surface.
func (rc *ResultCache) Stats() CacheStats {
	hits, misses := rc.hits.Load(), rc.misses.Load()
	total := hits + misses
	stats := CacheStats{TotalHits: hits, TotalMiss: misses}
	if total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// Close releases the Redis connection.
func (rc *ResultCache) Close() error {
	return rc.client.Close()
}
