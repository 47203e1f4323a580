package domain

import (
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used across the API
	DateLayout = "2006-01-02"

	DefaultLimit             = 20
	MaxLimit                 = 100
	DefaultSearchCountryCode = "IL"
	DefaultArtistCountryCode = "US"
)

// SearchQuery is a date based event search
type SearchQuery struct {
	Date        string
	City        string
	Category    string
	Limit       int
	CountryCode string
	Page        int
}

// SetDefaults fills zero values
func (q *SearchQuery) SetDefaults() {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.CountryCode == "" {
		q.CountryCode = DefaultSearchCountryCode
	}
	q.CountryCode = strings.ToUpper(q.CountryCode)
}

// Validate checks the query bounds
func (q *SearchQuery) Validate() error {
	if !IsISODate(q.Date) {
		return ErrInvalidDate
	}
	return validatePaging(q.Limit, q.Page)
}

// ArtistSearchQuery searches by performer name
type ArtistSearchQuery struct {
	Artist      string
	DateFrom    string
	DateTo      string
	CountryCode string
	Limit       int
	Page        int
}

// SetDefaults fills zero values
func (q *ArtistSearchQuery) SetDefaults() {
	q.Artist = strings.TrimSpace(q.Artist)
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.CountryCode == "" {
		q.CountryCode = DefaultArtistCountryCode
	}
	q.CountryCode = strings.ToUpper(q.CountryCode)
}

// Validate checks the query bounds
func (q *ArtistSearchQuery) Validate() error {
	if strings.TrimSpace(q.Artist) == "" {
		return ErrArtistRequired
	}
	if q.DateFrom != "" && !IsISODate(q.DateFrom) {
		return ErrInvalidDate
	}
	if q.DateTo != "" && !IsISODate(q.DateTo) {
		return ErrInvalidDate
	}
	// ISO dates compare lexically
	if q.DateFrom != "" && q.DateTo != "" && q.DateFrom > q.DateTo {
		return ErrInvalidDateRange
	}
	return validatePaging(q.Limit, q.Page)
}

func validatePaging(limit, page int) error {
	if limit < 1 || limit > MaxLimit {
		return ErrInvalidLimit
	}
	if page < 0 {
		return ErrInvalidPage
	}
	return nil
}

// IsISODate reports whether s is a valid YYYY-MM-DD calendar date
func IsISODate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// HasMore reports whether pages remain after page for the given total
func HasMore(total, page, limit int) bool {
	return total > (page+1)*limit
}
