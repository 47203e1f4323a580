package repository

import (
	"context"
	"sync"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// MemoryEventCache keeps events in process memory until restart
type MemoryEventCache struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

// NewMemoryEventCache creates an empty cache
func NewMemoryEventCache() *MemoryEventCache {
	return &MemoryEventCache{events: make(map[string]*domain.Event)}
}

// Put stores deep copies so callers can keep mutating their records
func (c *MemoryEventCache) Put(ctx context.Context, events ...*domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ev := range events {
		if ev == nil || ev.ID == "" {
			continue
		}
		c.events[ev.ID] = ev.Clone()
	}
	return nil
}

// Get returns a copy of the cached event
func (c *MemoryEventCache) Get(ctx context.Context, id string) (*domain.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ev, ok := c.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return ev.Clone(), nil
}

// Len returns the number of cached events
func (c *MemoryEventCache) Len(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events), nil
}
