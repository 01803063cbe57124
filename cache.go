package gitversioning

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResultCache memoizes project versions by artifact id for a single run.
// Concurrent lookups of the same key share one computation.
type ResultCache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*ProjectVersion
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]*ProjectVersion)}
}

// Get returns the cached version for key, if any.
func (c *ResultCache) Get(key string) (*ProjectVersion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pv, ok := c.entries[key]
	return pv, ok
}

// GetOrCompute returns the cached version for key or stores the result of
// compute. Errors are not cached.
func (c *ResultCache) GetOrCompute(key string, compute func() (*ProjectVersion, error)) (*ProjectVersion, error) {
	if pv, ok := c.Get(key); ok {
		return pv, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// another caller may have finished between Get and Do
		if pv, ok := c.Get(key); ok {
			return pv, nil
		}
		pv, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = pv
		c.mu.Unlock()
		return pv, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ProjectVersion), nil
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
