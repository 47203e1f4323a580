package provider

import (
	"context"
	"errors"

	"github.com/Amitro123/EventPulse/internal/domain"
)

var (
	// ErrMalformedPayload is returned when an upstream body cannot be decoded
	ErrMalformedPayload = errors.New("malformed provider payload")
	// ErrUnknownProvider is returned by the factory for an unsupported name
	ErrUnknownProvider = errors.New("unknown provider")
)

// Adapter normalises one external event source into domain events.
// An empty slice means no results; an error means the source is unavailable.
type Adapter interface {
	// Name identifies the provider in logs, metrics and the metadata tag
	Name() domain.ProviderID
	// Search finds events on a calendar date
	Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, error)
	// SearchByArtist finds events for a performer and returns the upstream total
	SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) ([]*domain.Event, int, error)
}

// PagedSearcher is implemented by adapters that know the upstream total of a date search
type PagedSearcher interface {
	// SearchPage is Search plus the number of matches the source holds across all pages
	SearchPage(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, int, error)
}

// CrossReferencer is implemented by the primary provider to confirm an event found elsewhere
type CrossReferencer interface {
	// ResolveExact returns the event with exactly this name on this date in this city, or nil
	ResolveExact(ctx context.Context, name, city, date string) (*domain.Event, error)
}
