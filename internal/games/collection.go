package games

import (
	"slices"
	"sync"
)

// Entity is anything a Collection can hold: it has a stable id and can be
// deep-copied.
type Entity[T any] interface {
	EntityID() string
	Clone() T
}

// Collection is the shared, ordered set of entities a client holds. Readers
// get deep copies; every write replaces whole entries under the lock.
type Collection[T Entity[T]] struct {
	mu    sync.RWMutex
	items []T
}

func NewCollection[T Entity[T]](items ...T) *Collection[T] {
	c := &Collection[T]{}
	c.Restore(items)
	return c
}

func cloneAll[T Entity[T]](items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.items)
}

// Restore replaces the whole collection with a copy of items.
func (c *Collection[T]) Restore(items []T) {
	cp := cloneAll(items)
	c.mu.Lock()
	c.items = cp
	c.mu.Unlock()
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.find(id); i >= 0 {
		return c.items[i].Clone(), true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) find(id string) int {
	return slices.IndexFunc(c.items, func(it T) bool { return it.EntityID() == id })
}

// Replace swaps the entry with oldID for item, keeping its position. If
// oldID is gone item is inserted at the front. Any other entry already
// carrying item's id is dropped.
func (c *Collection[T]) Replace(oldID string, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item.EntityID() != oldID {
		if i := c.find(item.EntityID()); i >= 0 {
			c.items = slices.Delete(c.items, i, i+1)
		}
	}
	if i := c.find(oldID); i >= 0 {
		c.items[i] = item.Clone()
		return
	}
	c.items = slices.Insert(c.items, 0, item.Clone())
}

// Upsert replaces the entry with item's id or inserts item at the front.
func (c *Collection[T]) Upsert(item T) {
	c.Replace(item.EntityID(), item)
}
