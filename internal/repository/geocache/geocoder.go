// Package geocache is a caching decorator for reverse geocoding.
// Addresses are static data and the upstream service is rate-limited,
// so results are kept in the key-value store under a TTL.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/db"
	"github.com/healthagg/healthagg/internal/domain/geo"
)

// store is the consumer interface for the geocode cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Geocoder resolves a point to an address.
type Geocoder interface {
	Reverse(ctx context.Context, p geo.Point) (geo.Address, error)
}

// CachedGeocoder caches reverse-geocode results in a key-value store.
// Cache failures degrade to the inner geocoder, never to an error.
type CachedGeocoder struct {
	inner      Geocoder
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Geocoder,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedGeocoder {
	return &CachedGeocoder{
		inner:      inner,
		store:      s,
		keyPrefix:  keyPrefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Reverse returns a cached address or calls the inner geocoder.
func (c *CachedGeocoder) Reverse(ctx context.Context, p geo.Point) (geo.Address, error) {
	key := c.cacheKey(p)

	if addr, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return addr, nil
	}

	c.incCache("miss")

	addr, err := c.inner.Reverse(ctx, p)
	if err != nil {
		return geo.Address{}, fmt.Errorf("reverse geocode: %w", err)
	}

	c.putToCache(ctx, key, addr)
	return addr, nil
}

func (c *CachedGeocoder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey rounds coordinates to four decimal places (~11 m) so nearby
// lookups share an entry.
func (c *CachedGeocoder) cacheKey(p geo.Point) string {
	return c.keyPrefix + "geocode:" +
		strconv.FormatFloat(p.Lat, 'f', 4, 64) + "," +
		strconv.FormatFloat(p.Lon, 'f', 4, 64)
}

func (c *CachedGeocoder) getFromCache(ctx context.Context, key string) (geo.Address, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached address", zap.String("key", key), zap.Error(err))
		}
		return geo.Address{}, false
	}
	if len(data) == 0 {
		return geo.Address{}, false
	}

	var addr geo.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		c.logger.Warn("Failed to parse cached address", zap.String("key", key), zap.Error(err))
		return geo.Address{}, false
	}
	return addr, true
}

func (c *CachedGeocoder) putToCache(ctx context.Context, key string, addr geo.Address) {
	data, err := json.Marshal(addr)
	if err != nil {
		c.logger.Warn("Failed to encode address for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache address", zap.String("key", key), zap.Error(err))
	}
}
