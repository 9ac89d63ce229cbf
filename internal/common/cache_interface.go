package common

import "time"

// CacheInterface defines the contract for cache implementations.
// Values are stored as JSON so both backends hand back the same types.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value into dest.
	// Returns false when the key is missing or cannot be decoded.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key, or calls loader and caches its
// result. Loader errors are not cached.
func GetOrLoad[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, error) {
	var val T
	if c.Get(key, &val) {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return val, err
	}

	c.Set(key, val, duration)
	return val, nil
}
