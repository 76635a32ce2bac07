package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of ignore files kept by NewCache(0).
const DefaultCacheSize = 256

// Cache holds loaded ignore files keyed by absolute path. An entry is
// reloaded when the file's modification time or size changes.
type Cache struct {
	entries *lru.Cache[string, cachedPatterns]
}

type cachedPatterns struct {
	patterns Patterns
	modTime  time.Time
	size     int64
}

// NewCache creates a cache holding at most size files.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cachedPatterns](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create ignore cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Load returns the patterns in path, reading the file only when it is not
// cached or has changed since it was cached.
func (c *Cache) Load(path string) (Patterns, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	info, err := os.Stat(abs)
	if err != nil {
		c.entries.Remove(abs)
		return Load(abs)
	}

	if cached, ok := c.entries.Get(abs); ok {
		if cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
			return cached.patterns, nil
		}
	}

	patterns, err := Load(abs)
	if err != nil {
		return patterns, err
	}
	c.entries.Add(abs, cachedPatterns{
		patterns: patterns,
		modTime:  info.ModTime(),
		size:     info.Size(),
	})
	return patterns, nil
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached file.
func (c *Cache) Purge() {
	c.entries.Purge()
}
