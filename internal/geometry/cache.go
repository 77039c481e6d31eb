package geometry

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache loads each board source once per session and shares it read-only afterwards.
// Concurrent first requests for the same source share a single load.
type Cache struct {
	loader *Loader
	group  singleflight.Group

	mu     sync.RWMutex
	boards map[string]*Board
}

// NewCache creates a Cache backed by loader.
func NewCache(loader *Loader) *Cache {
	return &Cache{
		loader: loader,
		boards: make(map[string]*Board),
	}
}

// Get returns the board for source, loading it on first use. Failed loads are not cached.
func (c *Cache) Get(ctx context.Context, source string) (*Board, error) {
	c.mu.RLock()
	board, ok := c.boards[source]
	c.mu.RUnlock()
	if ok {
		return board, nil
	}

	v, err, _ := c.group.Do(source, func() (any, error) {
		board, err := c.loader.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.boards[source] = board
		c.mu.Unlock()
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Board), nil
}

// Put seeds the cache, e.g. with a board decoded from an embedded definition.
func (c *Cache) Put(source string, board *Board) {
	c.mu.Lock()
	c.boards[source] = board
	c.mu.Unlock()
}
