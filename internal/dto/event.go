package dto

import (
	"strings"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// SearchEventsRequest is the query string of GET /api/events
type SearchEventsRequest struct {
	Date        string `form:"date"`
	City        string `form:"city"`
	Category    string `form:"category"`
	Limit       *int   `form:"limit"`
	CountryCode string `form:"country_code"`
	Page        int    `form:"page"`
}

// Validate checks the fields the domain query cannot tell apart from defaults
func (r *SearchEventsRequest) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return domain.ErrInvalidDate
	}
	return validateLimit(r.Limit)
}

// ToQuery converts the request to a domain query
func (r *SearchEventsRequest) ToQuery(defaultCountry string) *domain.SearchQuery {
	q := &domain.SearchQuery{
		Date:        strings.TrimSpace(r.Date),
		City:        strings.TrimSpace(r.City),
		Category:    strings.TrimSpace(r.Category),
		CountryCode: strings.TrimSpace(r.CountryCode),
		Page:        r.Page,
	}
	if r.Limit != nil {
		q.Limit = *r.Limit
	}
	if q.CountryCode == "" {
		q.CountryCode = defaultCountry
	}
	return q
}

// ArtistSearchRequest is the query string of GET /api/events/by-artist
type ArtistSearchRequest struct {
	Artist      string `form:"artist"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	CountryCode string `form:"country_code"`
	Limit       *int   `form:"limit"`
	Page        int    `form:"page"`
}

// Validate checks the fields the domain query cannot tell apart from defaults
func (r *ArtistSearchRequest) Validate() error {
	return validateLimit(r.Limit)
}

// ToQuery converts the request to a domain query
func (r *ArtistSearchRequest) ToQuery() *domain.ArtistSearchQuery {
	q := &domain.ArtistSearchQuery{
		Artist:      r.Artist,
		DateFrom:    strings.TrimSpace(r.DateFrom),
		DateTo:      strings.TrimSpace(r.DateTo),
		CountryCode: strings.TrimSpace(r.CountryCode),
		Page:        r.Page,
	}
	if r.Limit != nil {
		q.Limit = *r.Limit
	}
	return q
}

// an explicit limit=0 is rejected instead of silently becoming the default
func validateLimit(limit *int) error {
	if limit != nil && (*limit < 1 || *limit > domain.MaxLimit) {
		return domain.ErrInvalidLimit
	}
	return nil
}

