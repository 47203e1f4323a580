package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Amitro123/EventPulse/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestSearchEventsRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchEventsRequest
		wantErr error
	}{
		{"valid", SearchEventsRequest{Date: "2025-03-31"}, nil},
		{"missing date", SearchEventsRequest{}, domain.ErrInvalidDate},
		{"blank date", SearchEventsRequest{Date: "  "}, domain.ErrInvalidDate},
		{"explicit zero limit", SearchEventsRequest{Date: "2025-03-31", Limit: intPtr(0)}, domain.ErrInvalidLimit},
		{"limit too large", SearchEventsRequest{Date: "2025-03-31", Limit: intPtr(101)}, domain.ErrInvalidLimit},
		{"max limit", SearchEventsRequest{Date: "2025-03-31", Limit: intPtr(100)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearchEventsRequest_ToQuery(t *testing.T) {
	req := SearchEventsRequest{Date: " 2025-03-31 ", City: " Tel Aviv ", Limit: intPtr(5), Page: 2}

	q := req.ToQuery("IL")
	assert.Equal(t, "2025-03-31", q.Date)
	assert.Equal(t, "Tel Aviv", q.City)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "IL", q.CountryCode)

	req = SearchEventsRequest{Date: "2025-03-31", CountryCode: "us"}
	q = req.ToQuery("IL")
	assert.Equal(t, "us", q.CountryCode, "normalisation is left to the domain query")
	assert.Zero(t, q.Limit)
}

func TestArtistSearchRequest(t *testing.T) {
	req := ArtistSearchRequest{Artist: "Coldplay", DateFrom: "2025-06-01", Limit: intPtr(0)}
	assert.ErrorIs(t, req.Validate(), domain.ErrInvalidLimit)

	req.Limit = intPtr(10)
	assert.NoError(t, req.Validate())

	q := req.ToQuery()
	assert.Equal(t, "Coldplay", q.Artist)
	assert.Equal(t, "2025-06-01", q.DateFrom)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, q.CountryCode)
}
