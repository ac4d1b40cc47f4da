package layout

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the layout cache
type CacheConfig struct {
	// MaxSize is the maximum number of layouts to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached layouts. 0 means no expiration.
	TTL time.Duration
}

// LayoutCache keeps compiled layouts keyed by their source text. Least
// recently used entries are evicted first.
type LayoutCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key     string
	layout  *Layout
	expiry  time.Time
	element *list.Element
}

// NewLayoutCache creates a new layout cache from the global configuration
func NewLayoutCache() *LayoutCache {
	return NewLayoutCacheWithConfig(GetGlobalConfig().cacheConfig())
}

// NewLayoutCacheWithConfig creates a new layout cache with the given configuration
func NewLayoutCacheWithConfig(config CacheConfig) *LayoutCache {
	return &LayoutCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// SourceKey returns the cache key for a layout source.
func SourceKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// GetOrCompile returns the cached layout for key or calls compile and caches
// its result. Errors are not cached.
func (c *LayoutCache) GetOrCompile(key string, compile func() (*Layout, error)) (*Layout, error) {
	if l, ok := c.Get(key); ok {
		return l, nil
	}
	l, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(key, l)
	return l, nil
}

// Get retrieves a layout from the cache
func (c *LayoutCache) Get(key string) (*Layout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	if c.config.TTL > 0 && time.Now().After(entry.expiry) {
		c.removeLocked(entry)
		return nil, false
	}

	c.lru.MoveToFront(entry.element)
	return entry.layout, true
}

// Set adds a layout to the cache
func (c *LayoutCache) Set(key string, layout *Layout) {
	if c.config.MaxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiry := time.Time{}
	if c.config.TTL > 0 {
		expiry = time.Now().Add(c.config.TTL)
	}

	if existing, exists := c.cache[key]; exists {
		existing.layout = layout
		existing.expiry = expiry
		c.lru.MoveToFront(existing.element)
		return
	}

	if c.lru.Len() >= c.config.MaxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:    key,
		layout: layout,
		expiry: expiry,
	}
	entry.element = c.lru.PushFront(entry)
	c.cache[key] = entry
}

// Remove removes a layout from the cache
func (c *LayoutCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.cache[key]; exists {
		c.removeLocked(entry)
	}
}

func (c *LayoutCache) removeLocked(entry *cacheEntry) {
	delete(c.cache, entry.key)
	c.lru.Remove(entry.element)
}

// Clear removes all layouts from the cache
func (c *LayoutCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cacheEntry)
	c.lru = list.New()
}

// Size returns the current number of cached layouts
func (c *LayoutCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
