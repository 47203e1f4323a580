package service

import (
	"time"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// SearchResult is one page of events
type SearchResult struct {
	Events  []*domain.Event
	Page    int
	Limit   int
	Total   int
	HasMore bool
}

// Package bundles an event with its ticket and hotel links
type Package struct {
	Event   *domain.Event `json:"event"`
	Tickets TicketsInfo   `json:"tickets"`
	Hotels  HotelsInfo    `json:"hotels"`
}

// TicketsInfo is the attributed ticket link. URL is null when tickets are not purchasable.
type TicketsInfo struct {
	URL            *string           `json:"url"`
	TicketProvider domain.ProviderID `json:"ticket_provider,omitempty"`
}

// HotelsInfo is the hotel affiliate search for the event night
type HotelsInfo struct {
	City         string `json:"city"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	AffiliateURL string `json:"affiliate_url"`
}

// Discovery kinds
const (
	DiscoveryKindSearch   = "search"
	DiscoveryKindByArtist = "search_by_artist"
)

// Discovery is published after every search that found events
type Discovery struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Provider   domain.ProviderID `json:"provider,omitempty"`
	EventIDs   []string          `json:"event_ids"`
	Total      int               `json:"total"`
	Query      map[string]string `json:"query"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Key partitions discoveries by kind so consumers see them in order per kind
func (d *Discovery) Key() string {
	return d.Kind
}
