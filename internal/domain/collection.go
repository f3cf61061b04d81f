package domain

import "sync"

// Collection is the in-memory set of persisted reports, in store order.
// It supports exactly the four mutations applied by store-operation
// completion handlers: append after create, replace-all after a full read,
// remove after delete, and patch after update. All methods are safe for
// concurrent use.
type Collection struct {
	mu    sync.RWMutex
	items []Report
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a newly persisted report after all existing entries.
func (c *Collection) Append(r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, r)
}

// ReplaceAll swaps the entire collection for the store's current contents.
func (c *Collection) ReplaceAll(reports []Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]Report, len(reports))
	copy(c.items, reports)
}

// Remove deletes the report with the given identifier.
// Returns false if no such report exists.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.items {
		if r.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Patch applies fn to the report with the given identifier in place.
// Returns false if no such report exists.
func (c *Collection) Patch(id string, fn func(*Report)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

// Get returns the report with the given identifier.
func (c *Collection) Get(id string) (Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.items {
		if r.ID == id {
			return r, true
		}
	}
	return Report{}, false
}

// Snapshot returns a copy of the collection in its current order.
// Mutating the returned slice does not affect the collection.
func (c *Collection) Snapshot() []Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Report, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of reports currently held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
