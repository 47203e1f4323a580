package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProviderID identifies an event data source or a ticket seller
type ProviderID string

const (
	// ProviderTicketmaster is the primary ticketing provider
	ProviderTicketmaster ProviderID = "ticketmaster"
	// ProviderViagogo is the secondary marketplace
	ProviderViagogo ProviderID = "viagogo"
	// ProviderOfficialSite credits the organiser's own box office
	ProviderOfficialSite ProviderID = "official_site"
)

// IsValid reports whether p is a known ticket provider
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderTicketmaster, ProviderViagogo, ProviderOfficialSite:
		return true
	}
	return false
}

// String returns the string representation of ProviderID
func (p ProviderID) String() string {
	return string(p)
}

// PriceRange is a ticket price band. Min, Max and Currency always travel together.
type PriceRange struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

// NewPriceRange builds a price range, returning nil unless all three parts are present
func NewPriceRange(min, max *float64, currency string) *PriceRange {
	if min == nil || max == nil || strings.TrimSpace(currency) == "" {
		return nil
	}
	return &PriceRange{
		Min:      decimal.NewFromFloat(*min),
		Max:      decimal.NewFromFloat(*max),
		Currency: strings.ToUpper(currency),
	}
}

// Text renders the range as "$150 - $450"
func (p *PriceRange) Text() string {
	return fmt.Sprintf("$%s - $%s", p.Min.Round(0).String(), p.Max.Round(0).String())
}

// Coordinates is a venue location
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is a normalised event record produced by a provider adapter
type Event struct {
	ID             string             `json:"id"`
	Name           string             `json:"text"`
	URL            string             `json:"url"`
	Date           string             `json:"timestamp"`
	VenueName      string             `json:"venue_name"`
	City           string             `json:"city"`
	Category       string             `json:"category,omitempty"`
	ImageURL       string             `json:"image_url,omitempty"`
	PriceRangeText string             `json:"price_range,omitempty"`
	Price          *PriceRange        `json:"price,omitempty"`
	Location       *Coordinates       `json:"location,omitempty"`
	Scores         map[string]float64 `json:"scores"`
	Provider       ProviderID         `json:"provider"`
	TicketProvider ProviderID         `json:"ticket_provider,omitempty"`
	SecondaryURL   string             `json:"viagogo_url,omitempty"`
	Available      *bool              `json:"available,omitempty"`
	Raw            json.RawMessage    `json:"raw_data,omitempty"`
}

// IsAvailable reports the availability flag; unset means available
func (e *Event) IsAvailable() bool {
	return e.Available == nil || *e.Available
}

// SetAvailable sets the availability flag
func (e *Event) SetAvailable(available bool) {
	e.Available = &available
}

// Validate checks the record invariants
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidEventID
	}
	if e.Price != nil && e.Price.Currency == "" {
		return ErrPartialPriceRange
	}
	if e.TicketProvider != "" && !e.TicketProvider.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnknownTicketProvider, e.TicketProvider)
	}
	return nil
}

// Clone returns a deep copy that shares no mutable state with e
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.Price != nil {
		p := *e.Price
		c.Price = &p
	}
	if e.Location != nil {
		l := *e.Location
		c.Location = &l
	}
	if e.Scores != nil {
		c.Scores = make(map[string]float64, len(e.Scores))
		for k, v := range e.Scores {
			c.Scores[k] = v
		}
	}
	if e.Available != nil {
		a := *e.Available
		c.Available = &a
	}
	if e.Raw != nil {
		c.Raw = append(json.RawMessage(nil), e.Raw...)
	}
	return &c
}

// EventIDs returns the ids of events in order
func EventIDs(events []*Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
