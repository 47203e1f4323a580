package service

import (
	"context"
	"time"

	"github.com/Amitro123/EventPulse/internal/collector"
	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/provider"
)

// EventService defines the interface for event discovery and packages
type EventService interface {
	// SearchEvents finds events on a date and caches them
	SearchEvents(ctx context.Context, q *domain.SearchQuery) (*SearchResult, error)
	// SearchByArtist finds events for a performer and caches them
	SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) (*SearchResult, error)
	// GetPackage builds the ticket and hotel package for a cached event
	GetPackage(ctx context.Context, eventID string) (*Package, error)
}

// EventCollector is the multi-provider search the service depends on
type EventCollector interface {
	Collect(ctx context.Context, q *domain.SearchQuery) *collector.Result
	CollectByArtist(ctx context.Context, q *domain.ArtistSearchQuery) *collector.Result
	Primary() provider.CrossReferencer
	AdapterTimeout() time.Duration
}

// DiscoveryPublisher announces search results to downstream consumers
type DiscoveryPublisher interface {
	// PublishDiscovery publishes one discovery notification
	PublishDiscovery(ctx context.Context, d *Discovery) error
	// Close releases the publisher
	Close() error
}
