package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
	"github.com/chamorrodict/dictsearch/internal/domain/providers"
	"github.com/chamorrodict/dictsearch/internal/infrastructure/observability"
	"github.com/chamorrodict/dictsearch/internal/matching"
)

// CachedSystem serves repeated searches from a CacheProvider. Cache failures
// are logged and fall through to the wrapped system.
type CachedSystem struct {
	next       providers.RankingSystem
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

var _ providers.RankingSystem = (*CachedSystem)(nil)

// NewCachedSystem wraps next with cache. metrics may be nil.
func NewCachedSystem(next providers.RankingSystem, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedSystem {
	return &CachedSystem{
		next:       next,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// Name returns the wrapped system's name so rank tables are unaffected.
func (c *CachedSystem) Name() string { return c.next.Name() }

// CacheKey is the key a search is stored under.
func CacheKey(system string, n int, query string) string {
	return fmt.Sprintf("search:%s:%d:%s", system, n, matching.Normalize(query))
}

// Search returns cached hits when present, otherwise searches and stores.
func (c *CachedSystem) Search(ctx context.Context, query string, n int) ([]entities.SearchHit, error) {
	logger := observability.LoggerFromContext(ctx)
	key := CacheKey(c.Name(), n, query)

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var hits []entities.SearchHit
		jsonErr := json.Unmarshal(data, &hits)
		if jsonErr == nil {
			observability.RecordCacheHit(ctx, c.metrics, c.Name())
			return hits, nil
		}
		logger.Warn().Err(jsonErr).Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, providers.ErrCacheMiss):
	default:
		logger.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	observability.RecordCacheMiss(ctx, c.metrics, c.Name())

	hits, err := c.next.Search(ctx, query, n)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search hits: %w", err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttlSeconds); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return hits, nil
}
