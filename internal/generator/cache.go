package generator

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 16

// cacheKey identifies a generator configuration. Every field is kept
// separately so an absent project never collides with a real one.
type cacheKey struct {
	Mode            string
	ProjectID       string
	Location        string
	CredentialsPath string
}

func keyFor(opts Options) cacheKey {
	opts = opts.withDefaults()
	return cacheKey{
		Mode:            opts.Mode,
		ProjectID:       opts.ProjectID,
		Location:        opts.Location,
		CredentialsPath: opts.CredentialsPath,
	}
}

// Cache reuses generators across requests for identical configurations.
// Construction failures are returned and not cached. Builds run outside the
// lock, so a slow client setup for one key never blocks hits on another;
// concurrent callers asking for the same key share a single build.
type Cache struct {
	mu       sync.Mutex
	items    *lru.Cache[cacheKey, *Generator]
	building map[cacheKey]chan struct{}
}

// NewCache creates a cache holding up to size generators
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	items, err := lru.New[cacheKey, *Generator](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator cache: %w", err)
	}
	return &Cache{items: items, building: map[cacheKey]chan struct{}{}}, nil
}

// Get returns the cached generator for opts, building it on first use.
// Callers waiting on another caller's build give up when ctx is done.
func (c *Cache) Get(ctx context.Context, opts Options) (*Generator, error) {
	key := keyFor(opts)

	for {
		c.mu.Lock()
		if g, ok := c.items.Get(key); ok {
			c.mu.Unlock()
			return g, nil
		}
		wait, inFlight := c.building[key]
		if !inFlight {
			done := make(chan struct{})
			c.building[key] = done
			c.mu.Unlock()
			return c.build(ctx, key, opts, done)
		}
		c.mu.Unlock()

		// The other build either cached a generator or failed; look again.
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Cache) build(ctx context.Context, key cacheKey, opts Options, done chan struct{}) (*Generator, error) {
	g, err := New(ctx, opts)

	c.mu.Lock()
	delete(c.building, key)
	if err == nil {
		c.items.Add(key, g)
	}
	c.mu.Unlock()
	close(done)

	if err != nil {
		return nil, err
	}
	return g, nil
}

// Len returns the number of cached generators
func (c *Cache) Len() int {
	return c.items.Len()
}

// Purge drops every cached generator
func (c *Cache) Purge() {
	c.items.Purge()
}
