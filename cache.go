package rango

import (
	"sync"
	"time"
)

// CategoryCache is an in-memory cache of the full category list with TTL.
// The sidebar navigation and the suggestion endpoint read from it on every
// request, so those paths never hit SQLite while the cache is warm.
type CategoryCache struct {
	mu      sync.RWMutex
	cats    []Category
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewCategoryCache creates a CategoryCache backed by the given Store.
func NewCategoryCache(s *Store, ttl time.Duration) *CategoryCache {
	return &CategoryCache{store: s, ttl: ttl}
}

func (c *CategoryCache) valid() bool {
	return c.cats != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Called after every category write.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.cats = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached list after ensuring it is fresh. It tries
// a read lock first; only takes a write lock if a reload is needed.
func (c *CategoryCache) ensureLoaded() ([]Category, error) {
	c.mu.RLock()
	if c.valid() {
		cats := c.cats
		c.mu.RUnlock()
		return cats, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.cats, nil
	}
	cats, err := c.store.ListCategories()
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []Category{}
	}
	c.cats = cats
	c.fetched = time.Now()
	return c.cats, nil
}

// List returns all categories in insertion order.
func (c *CategoryCache) List() ([]Category, error) {
	return c.ensureLoaded()
}

// Suggest returns categories whose name starts with prefix, in insertion
// order, truncated to max when max > 0.
func (c *CategoryCache) Suggest(prefix string, max int) ([]Category, error) {
	cats, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	return Suggest(cats, prefix, max), nil
}
