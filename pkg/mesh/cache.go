package mesh

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// BufferCache memoizes resolved buffers by index for one document-load
// session. Concurrent misses on the same index share a single read.
// Failed resolutions are not cached.
type BufferCache struct {
	src   BufferResolver
	mu    sync.RWMutex
	data  map[int][]byte
	group singleflight.Group

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
}

// NewBufferCache creates a cache in front of src.
func NewBufferCache(src BufferResolver) *BufferCache {
	return &BufferCache{
		src:  src,
		data: make(map[int][]byte),
	}
}

// Resolve returns the cached bytes of buffer index, reading them on first use.
func (c *BufferCache) Resolve(index int) ([]byte, error) {
	if data, ok := c.get(index); ok {
		c.hits.Add(1)
		return data, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(index), func() (any, error) {
		// A concurrent flight may have filled the entry in the meantime
		if data, ok := c.get(index); ok {
			return data, nil
		}
		c.misses.Add(1)
		data, err := c.src.Resolve(index)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data[index] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *BufferCache) get(index int) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data[index]
	return data, ok
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear drops all cached buffers and resets statistics.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[int][]byte)
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache statistics.
func (c *BufferCache) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
