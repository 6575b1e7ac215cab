package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/andst/staffboard/internal/model"
)

// Cache holds a LoadAll snapshot between writes.
//
// Reads are served from the snapshot once loaded. Every write made through
// the cache drops it, so the next read sees the change. Writes made to the
// Store directly are not observed until Invalidate is called.
type Cache struct {
	store *Store

	mu      sync.Mutex
	records []model.Record
	names   []string
	loaded  bool
}

// NewCache creates an empty cache over store.
func NewCache(store *Store) *Cache {
	return &Cache{store: store}
}

// Store returns the underlying store.
func (c *Cache) Store() *Store {
	return c.store
}

// Records returns a copy of the cached records, loading them if needed.
func (c *Cache) Records(ctx context.Context) ([]model.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.records), nil
}

// Names returns the sorted distinct staff names seen in the records.
func (c *Cache) Names(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.names), nil
}

// Invalidate drops the snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.names = nil
	c.loaded = false
}

// Upsert delegates to Store.Upsert and invalidates the cache.
func (c *Cache) Upsert(ctx context.Context, date, name, typ string, count int) (model.Record, error) {
	defer c.Invalidate()
	return c.store.Upsert(ctx, date, name, typ, count)
}

// Add delegates to Store.Add and invalidates the cache.
func (c *Cache) Add(ctx context.Context, date, name, typ string, delta int) (model.Record, error) {
	defer c.Invalidate()
	return c.store.Add(ctx, date, name, typ, delta)
}

// Delete delegates to Store.Delete and invalidates the cache.
func (c *Cache) Delete(ctx context.Context, date, name, typ string) (bool, error) {
	defer c.Invalidate()
	return c.store.Delete(ctx, date, name, typ)
}

// SetTarget delegates to Store.SetTarget and invalidates the cache.
func (c *Cache) SetTarget(ctx context.Context, month, category string, value int) (model.Target, error) {
	defer c.Invalidate()
	return c.store.SetTarget(ctx, month, category, value)
}

// GetTarget reads through to the store.
func (c *Cache) GetTarget(ctx context.Context, month, category string) (int, error) {
	return c.store.GetTarget(ctx, month, category)
}

func (c *Cache) load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	records, err := c.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	slices.Sort(names)

	c.records = records
	c.names = slices.Compact(names)
	c.loaded = true
	return nil
}
