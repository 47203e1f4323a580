package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_SetDefaults(t *testing.T) {
	q := &SearchQuery{Date: "2025-06-15"}
	q.SetDefaults()

	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, "IL", q.CountryCode)
	assert.Equal(t, 0, q.Page)
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr error
	}{
		{"valid", SearchQuery{Date: "2025-06-15", Limit: 20}, nil},
		{"missing date", SearchQuery{Limit: 20}, ErrInvalidDate},
		{"bad format", SearchQuery{Date: "15/06/2025", Limit: 20}, ErrInvalidDate},
		{"impossible date", SearchQuery{Date: "2025-02-30", Limit: 20}, ErrInvalidDate},
		{"limit zero", SearchQuery{Date: "2025-06-15", Limit: 0}, ErrInvalidLimit},
		{"limit too big", SearchQuery{Date: "2025-06-15", Limit: 101}, ErrInvalidLimit},
		{"limit max", SearchQuery{Date: "2025-06-15", Limit: 100}, nil},
		{"negative page", SearchQuery{Date: "2025-06-15", Limit: 20, Page: -1}, ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestArtistSearchQuery_Defaults(t *testing.T) {
	q := &ArtistSearchQuery{Artist: "  Lady Gaga ", CountryCode: "gb"}
	q.SetDefaults()

	assert.Equal(t, "Lady Gaga", q.Artist)
	assert.Equal(t, "GB", q.CountryCode)
	assert.Equal(t, DefaultLimit, q.Limit)

	q2 := &ArtistSearchQuery{Artist: "Adele"}
	q2.SetDefaults()
	assert.Equal(t, "US", q2.CountryCode)
}

func TestArtistSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   ArtistSearchQuery
		wantErr error
	}{
		{"valid", ArtistSearchQuery{Artist: "Adele", Limit: 20}, nil},
		{"missing artist", ArtistSearchQuery{Artist: " ", Limit: 20}, ErrArtistRequired},
		{"bad from", ArtistSearchQuery{Artist: "Adele", DateFrom: "2025-13-01", Limit: 20}, ErrInvalidDate},
		{"bad to", ArtistSearchQuery{Artist: "Adele", DateTo: "tomorrow", Limit: 20}, ErrInvalidDate},
		{"inverted range", ArtistSearchQuery{Artist: "Adele", DateFrom: "2025-07-01", DateTo: "2025-06-01", Limit: 20}, ErrInvalidDateRange},
		{"open range", ArtistSearchQuery{Artist: "Adele", DateFrom: "2025-07-01", Limit: 20}, nil},
		{"limit", ArtistSearchQuery{Artist: "Adele", Limit: 500}, ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHasMore(t *testing.T) {
	tests := []struct {
		total, page, limit int
		want               bool
	}{
		{25, 0, 20, true},
		{25, 1, 20, false},
		{20, 0, 20, false},
		{21, 0, 20, true},
		{0, 0, 20, false},
		{100, 3, 25, false},
		{101, 3, 25, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasMore(tt.total, tt.page, tt.limit), "total=%d page=%d limit=%d", tt.total, tt.page, tt.limit)
	}
}
