package common

import (
	"strings"
	"time"

	"river-transit/ticketdesk/internal/metrics"
)

// InstrumentedCache counts hits and misses of the wrapped cache by key prefix.
type InstrumentedCache struct {
	CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewInstrumentedCache(inner CacheInterface, m *metrics.MetricsRegistry) *InstrumentedCache {
	return &InstrumentedCache{CacheInterface: inner, metrics: m}
}

func (c *InstrumentedCache) Get(key string, dest interface{}) bool {
	hit := c.CacheInterface.Get(key, dest)
	if hit {
		c.metrics.CacheHitsTotal.WithLabelValues(keyPattern(key)).Inc()
	} else {
		c.metrics.CacheMissesTotal.WithLabelValues(keyPattern(key)).Inc()
	}
	return hit
}

func (c *InstrumentedCache) Set(key string, value interface{}, duration time.Duration) {
	c.CacheInterface.Set(key, value, duration)
}

// keyPattern keeps the prefix of a key, "VESSEL_abc" becomes "VESSEL_".
func keyPattern(key string) string {
	if i := strings.Index(key, "_"); i >= 0 {
		return key[:i+1]
	}
	return "other"
}
