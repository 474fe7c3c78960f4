package codec

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// Cache memoizes decoded assets by path. An entry is reloaded when the
// file's modification time or size changes. Cached buffers are shared and
// must be treated as read-only.
type Cache struct {
	ports.Codec

	mu      sync.Mutex
	entries map[string]cacheEntry
	limit   int
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	buf     *domain.Buffer
	modTime time.Time
	size    int64
}

// NewCache wraps codec. limit bounds the number of cached assets; when
// full, an arbitrary entry is evicted. limit <= 0 means unbounded.
func NewCache(codec ports.Codec, limit int) *Cache {
	return &Cache{
		Codec:   codec,
		entries: make(map[string]cacheEntry),
		limit:   limit,
	}
}

// Decode returns the cached buffer for path or decodes it.
func (c *Cache) Decode(ctx context.Context, path string) (*domain.Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.forget(path)
		return nil, &domain.LoadError{Path: path, Err: err}
	}

	c.mu.Lock()
	e, ok := c.entries[path]
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.hits++
		c.mu.Unlock()
		return e.buf, nil
	}
	c.misses++
	c.mu.Unlock()

	buf, err := c.Codec.Decode(ctx, path)
	if err != nil {
		c.forget(path)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limit > 0 && len(c.entries) >= c.limit {
		if _, exists := c.entries[path]; !exists {
			for k := range c.entries {
				delete(c.entries, k)
				break
			}
		}
	}
	c.entries[path] = cacheEntry{buf: buf, modTime: info.ModTime(), size: info.Size()}
	return buf, nil
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached assets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) forget(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
