package cache

import (
	"channel-coach/shared/config"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Store holds encoded API records for a short while so repeated dashboard
// requests don't spend quota.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type FreeCache struct {
	cache *freecache.Cache
	ttl   int
}

// New returns a freecache-backed store, or a store that never hits when
// caching is disabled.
func New(cfg config.CacheConfig) Store {
	if !cfg.Enabled || cfg.SizeMB <= 0 {
		log.Info().Msg("Cache disabled")
		return noopCache{}
	}

	ttl := max(cfg.TTLSeconds, 1)
	log.Info().Msgf("Cache initialized: %dMB, TTL=%ds", cfg.SizeMB, ttl)

	return &FreeCache{
		cache: freecache.NewCache(cfg.SizeMB * 1024 * 1024),
		ttl:   ttl,
	}
}

func (c *FreeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *FreeCache) Set(key string, value []byte) {
	if err := c.cache.Set([]byte(key), value, c.ttl); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache set skipped")
	}
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}

// GetJSON decodes the cached value under key into dst.
func GetJSON(s Store, key string, dst any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		return false
	}
	return true
}

func SetJSON(s Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	s.Set(key, raw)
}

// Recorder receives hit/miss notifications.
type Recorder interface {
	IncCacheHits()
	IncCacheMisses()
}

type instrumented struct {
	inner   Store
	metrics Recorder
}

// Instrument counts hits and misses of s. Disabled caches are returned
// unwrapped so they don't report phantom misses.
func Instrument(s Store, metrics Recorder) Store {
	if _, ok := s.(noopCache); ok {
		return s
	}
	return &instrumented{inner: s, metrics: metrics}
}

func (c *instrumented) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *instrumented) Set(key string, value []byte) {
	c.inner.Set(key, value)
}
