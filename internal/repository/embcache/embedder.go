package embcache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/decisionlab/unisearch/internal/domain"
)

// CachedEmbedder memoizes query embeddings in-process. Entries expire after
// the TTL; on capacity overflow the least-recently-used entry is evicted.
// The cache is pure cost reduction: it is process-local and lost on restart.
type CachedEmbedder struct {
	inner      domain.Embedder
	cache      *expirable.LRU[string, []float32]
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator around inner.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	capacity int,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		cache:      expirable.NewLRU[string, []float32](capacity, nil, ttl),
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder. Concurrent
// callers for the same uncached key share one in-flight provider call.
// Provider failure maps to domain.ErrEmbeddingUnavailable.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)

	if vec, ok := c.cache.Get(key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: copyVector(vec)}, nil
	}

	c.incCache("miss")

	v, err, _ := c.group.Do(key, func() (any, error) {
		result, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, result.Embedding)
		return result, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed %q: %w: %w", key, domain.ErrEmbeddingUnavailable, err)
	}

	result := v.(domain.EmbeddingResult)
	result.Embedding = copyVector(result.Embedding)
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("inner embedder: %w", err)
		}
	}
	return nil
}

// Len returns the number of live cache entries.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey normalizes the query text: repeated queries differing only in
// surrounding whitespace or letter case share one entry.
func cacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// copyVector guards cached entries against caller mutation.
func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
