// Package respcache caches batched index responses in a key-value store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/db"
	"github.com/kailas-cloud/coursedex/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "msearch:"

// multiSearcher is the decorated index client.
type multiSearcher interface {
	MultiSearch(ctx context.Context, indices []string, bodies []map[string]any) ([]json.RawMessage, error)
}

// CachedSearcher serves repeated batches from the cache.
// Cache failures never fail a search; they fall through to the index.
type CachedSearcher struct {
	inner      multiSearcher
	store      db.KVStore
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 stores entries without expiry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner multiSearcher,
	s db.KVStore,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// MultiSearch returns cached responses for an identical batch or calls the index.
// Only complete successful batches are stored.
func (c *CachedSearcher) MultiSearch(
	ctx context.Context, indices []string, bodies []map[string]any,
) ([]json.RawMessage, error) {
	key, err := cacheKey(indices, bodies)
	if err != nil {
		c.logger.Warn("Failed to build cache key", zap.Error(err))
		return c.inner.MultiSearch(ctx, indices, bodies)
	}

	if responses, ok := c.getFromCache(ctx, key, len(bodies)); ok {
		c.incCache("hit")
		return responses, nil
	}

	c.incCache("miss")

	responses, err := c.inner.MultiSearch(ctx, indices, bodies)
	if err != nil {
		return nil, fmt.Errorf("multi search: %w", err)
	}

	c.putToCache(ctx, key, responses)
	return responses, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the index list and bodies. Map keys encode sorted, so
// equal batches always hash the same.
func cacheKey(indices []string, bodies []map[string]any) (string, error) {
	h := sha256.New()
	h.Write([]byte(strings.Join(indices, ",")))
	h.Write([]byte{'\n'})
	for _, body := range bodies {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(body)
		if err != nil {
			return "", err
		}
		h.Write(data)
		h.Write([]byte{'\n'})
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string, want int) ([]json.RawMessage, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var responses []json.RawMessage
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &responses); err != nil {
		c.logger.Warn("Failed to parse cached response", zap.String("key", key), zap.Error(err))
		c.evict(ctx, key)
		return nil, false
	}
	if len(responses) != want {
		c.logger.Warn("Cached response has wrong length",
			zap.String("key", key), zap.Int("got", len(responses)), zap.Int("want", want))
		c.evict(ctx, key)
		return nil, false
	}
	return responses, true
}

// evict drops an unusable entry so the next identical batch rewrites it.
func (c *CachedSearcher) evict(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn("Failed to evict cached response", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, responses []json.RawMessage) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(responses)
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if c.ttl <= 0 {
		err = c.store.Set(ctx, key, data)
	} else {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
