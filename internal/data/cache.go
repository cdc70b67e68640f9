package data

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// RunCache keeps results keyed by run id for a limited time.
// Expired entries are invisible to Get and removed by the janitor started in
// NewRunCache; call Close to stop it.
type RunCache[V any] struct {
	mu    sync.RWMutex
	store map[uuid.UUID]*cacheEntry[V]
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRunCache returns a cache whose entries live for ttl. A cleanup pass runs
// every ttl/2, but at most every 5 minutes.
func NewRunCache[V any](ttl time.Duration) *RunCache[V] {
	c := &RunCache[V]{
		store: make(map[uuid.UUID]*cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	interval := min(ttl/2, 5*time.Minute)
	if interval > 0 {
		go c.cleanup(interval)
	}
	return c
}

// Put stores v under a fresh run id.
func (c *RunCache[V]) Put(v V) uuid.UUID {
	id := uuid.New()
	c.Set(id, v)
	return id
}

func (c *RunCache[V]) Set(id uuid.UUID, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[id] = &cacheEntry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
}

// Get retrieves a value if present and not expired.
func (c *RunCache[V]) Get(id uuid.UUID) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[id]
	if !ok || c.now().After(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *RunCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *RunCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[uuid.UUID]*cacheEntry[V])
}

func (c *RunCache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Evict removes expired entries.
func (c *RunCache[V]) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, id)
		}
	}
}

func (c *RunCache[V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Evict()
		case <-c.stop:
			return
		}
	}
}
