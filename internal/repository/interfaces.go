package repository

import (
	"context"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// EventCache stores events seen by searches so packages can be built by id
type EventCache interface {
	// Put upserts events by id, last writer wins
	Put(ctx context.Context, events ...*domain.Event) error
	// Get returns the event or domain.ErrEventNotFound
	Get(ctx context.Context, id string) (*domain.Event, error)
	// Len returns the number of cached events
	Len(ctx context.Context) (int, error)
}
