package resolve

import (
	"context"
	"fmt"
	"sync"
)

// LoaderCache memoises batch loader results for the lifetime of one request.
// Keys already loaded or in flight are never requested twice.
type LoaderCache struct {
	loaders map[string]BatchFunc
	onBatch func(loader string, keys int)

	mu      sync.Mutex
	entries map[string]map[Key]*cacheEntry
}

type cacheEntry struct {
	done chan struct{}
	rows []any
	err  error
}

func NewLoaderCache(loaders map[string]BatchFunc, onBatch func(loader string, keys int)) *LoaderCache {
	return &LoaderCache{
		loaders: loaders,
		onBatch: onBatch,
		entries: make(map[string]map[Key]*cacheEntry),
	}
}

// Load returns the rows of every key, calling the named loader once for the
// keys that are neither cached nor in flight.
func (c *LoaderCache) Load(ctx context.Context, loader string, keys []Key) (map[Key][]any, error) {
	const op = "resolve.LoaderCache.Load"

	fn, ok := c.loaders[loader]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, loader, ErrUnknownLoader)
	}

	c.mu.Lock()
	byKey, ok := c.entries[loader]
	if !ok {
		byKey = make(map[Key]*cacheEntry)
		c.entries[loader] = byKey
	}
	wanted := make(map[Key]*cacheEntry, len(keys))
	var missing []Key
	for _, k := range keys {
		if _, ok := wanted[k]; ok {
			continue
		}
		e, ok := byKey[k]
		if !ok {
			e = &cacheEntry{done: make(chan struct{})}
			byKey[k] = e
			missing = append(missing, k)
		}
		wanted[k] = e
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		c.fetch(ctx, loader, fn, missing, byKey)
	}

	out := make(map[Key][]any, len(wanted))
	for k, e := range wanted {
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, loader, e.err)
		}
		out[k] = e.rows
	}

	return out, nil
}

func (c *LoaderCache) fetch(ctx context.Context, loader string, fn BatchFunc, keys []Key, byKey map[Key]*cacheEntry) {
	if c.onBatch != nil {
		c.onBatch(loader, len(keys))
	}

	rows, err := callBatch(ctx, fn, keys)

	c.mu.Lock()
	entries := make([]*cacheEntry, len(keys))
	for i, k := range keys {
		entries[i] = byKey[k]
		if err != nil {
			// drop failed keys so a later level may retry them
			delete(byKey, k)
		}
	}
	c.mu.Unlock()

	for i, k := range keys {
		e := entries[i]
		e.rows, e.err = rows[k], err
		close(e.done)
	}
}

func callBatch(ctx context.Context, fn BatchFunc, keys []Key) (rows map[Key][]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch loader panic: %v", r)
		}
	}()
	return fn(ctx, keys)
}
