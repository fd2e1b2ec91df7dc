package router

import (
	"sync"

	"github.com/vango-dev/vroute/pkg/history"
)

// LocationContext is the value published by a Router: the latest location
// and the number of navigations observed since mount.
type LocationContext struct {
	Location history.Location
	Revision uint64
}

// Equal compares by revision only. Locations with equal URLs but different
// revisions are different navigations.
func (c LocationContext) Equal(other LocationContext) bool {
	return c.Revision == other.Revision
}

type subscriber struct {
	id uint64
	fn func(LocationContext)
}

// cell holds the current LocationContext and its subscribers.
type cell struct {
	mu     sync.RWMutex
	value  LocationContext
	subs   []subscriber
	nextID uint64
}

func (c *cell) get() LocationContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// reset sets the value without notifying. Used on mount.
func (c *cell) reset(loc history.Location) {
	c.mu.Lock()
	c.value = LocationContext{Location: loc}
	c.mu.Unlock()
}

// advance publishes loc under the next revision and notifies subscribers.
func (c *cell) advance(loc history.Location) LocationContext {
	c.mu.Lock()
	c.value = LocationContext{Location: loc, Revision: c.value.Revision + 1}
	next := c.value
	// Copy before notify so subscribers can unsubscribe from the callback.
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		if c.subscribed(s.id) {
			s.fn(next)
		}
	}
	return next
}

func (c *cell) subscribe(fn func(LocationContext)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}
}

func (c *cell) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

func (c *cell) subscribed(id uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (c *cell) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
