package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/pkg/config"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

const (
	defaultTicketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"
	ticketmasterEventURL       = "https://www.ticketmaster.com/event/"
	defaultArtistBaseDate      = "2025-06-15"
)

// Ticketmaster is the primary provider adapter backed by the Discovery API
type Ticketmaster struct {
	apiKey  string
	baseURL string
	mock    bool
	client  *apiClient
	log     *logger.Logger
}

// NewTicketmaster creates the adapter. A missing or placeholder key switches it to mock data.
func NewTicketmaster(cfg config.TicketmasterConfig, opts Options, log *logger.Logger) *Ticketmaster {
	if log == nil {
		log = logger.Get()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultTicketmasterBaseURL
	}
	return &Ticketmaster{
		apiKey:  cfg.APIKey,
		baseURL: base,
		mock:    cfg.MockMode(),
		client:  newAPIClient(domain.ProviderTicketmaster, opts),
		log:     log.With(zap.String("provider", domain.ProviderTicketmaster.String())),
	}
}

// Name implements Adapter
func (t *Ticketmaster) Name() domain.ProviderID {
	return domain.ProviderTicketmaster
}

// MockMode reports whether the adapter serves canned events
func (t *Ticketmaster) MockMode() bool {
	return t.mock
}

// Search implements Adapter
func (t *Ticketmaster) Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, error) {
	events, _, err := t.SearchPage(ctx, q)
	return events, err
}

// SearchPage implements PagedSearcher
func (t *Ticketmaster) SearchPage(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, int, error) {
	if t.mock {
		t.log.Debug("mock mode: no valid api key configured")
		events := mockDateEvents(q.Date, q.City, q.Category)
		return events, len(events), nil
	}

	params := t.baseParams(q.CountryCode, q.Limit, q.Page)
	params.Set("localStartDateTime", fmt.Sprintf("%sT00:00:00,%sT23:59:59", q.Date, q.Date))
	if q.City != "" {
		params.Set("city", q.City)
	}
	if q.Category != "" {
		params.Set("classificationName", q.Category)
	}

	resp, err := t.fetch(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	events := make([]*domain.Event, 0, len(resp.Embedded.Events))
	for _, raw := range resp.Embedded.Events {
		ev, err := parseTicketmasterEvent(raw, eventDefaults{date: q.Date, city: q.City, category: q.Category})
		if err != nil {
			t.log.Warn("skipping malformed event", zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	return events, resp.Page.TotalElements, nil
}

// SearchByArtist implements Adapter
func (t *Ticketmaster) SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) ([]*domain.Event, int, error) {
	if t.mock {
		t.log.Debug("mock mode: using canned artist events")
		events := mockArtistEvents(q.Artist, q.DateFrom)
		return events, len(events), nil
	}

	params := t.baseParams(q.CountryCode, q.Limit, q.Page)
	params.Set("keyword", q.Artist)
	if window := dateWindow(q.DateFrom, q.DateTo); window != "" {
		params.Set("localStartDateTime", window)
	}

	resp, err := t.fetch(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	events := make([]*domain.Event, 0, len(resp.Embedded.Events))
	for _, raw := range resp.Embedded.Events {
		ev, err := parseTicketmasterEvent(raw, eventDefaults{city: "Unknown", category: "music", classify: true})
		if err != nil {
			t.log.Warn("skipping malformed event", zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	return events, resp.Page.TotalElements, nil
}

// ResolveExact looks up an event with the same name on the same day in the same city
func (t *Ticketmaster) ResolveExact(ctx context.Context, name, city, date string) (*domain.Event, error) {
	var candidates []*domain.Event
	if t.mock {
		candidates = mockDateEvents(date, city, "")
	} else {
		params := t.baseParams("", 5, 0)
		params.Set("keyword", name)
		params.Set("localStartDateTime", fmt.Sprintf("%sT00:00:00,%sT23:59:59", date, date))
		if city != "" {
			params.Set("city", city)
		}
		resp, err := t.fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, raw := range resp.Embedded.Events {
			ev, err := parseTicketmasterEvent(raw, eventDefaults{date: date, city: city})
			if err != nil {
				continue
			}
			candidates = append(candidates, ev)
		}
	}

	for _, ev := range candidates {
		if strings.EqualFold(strings.TrimSpace(ev.Name), strings.TrimSpace(name)) && ev.Date == date {
			return ev, nil
		}
	}
	return nil, nil
}

func (t *Ticketmaster) baseParams(countryCode string, limit, page int) url.Values {
	params := url.Values{}
	params.Set("apikey", t.apiKey)
	if countryCode != "" {
		params.Set("countryCode", countryCode)
	}
	params.Set("size", strconv.Itoa(limit))
	params.Set("sort", "date,asc")
	params.Set("page", strconv.Itoa(page))
	return params
}

func (t *Ticketmaster) fetch(ctx context.Context, params url.Values) (*tmResponse, error) {
	var resp tmResponse
	if err := t.client.getJSON(ctx, t.baseURL+"/events.json", params, &resp); err != nil {
		return nil, fmt.Errorf("ticketmaster: %w", err)
	}
	return &resp, nil
}

// dateWindow renders the localStartDateTime filter for an optional range
func dateWindow(from, to string) string {
	switch {
	case from != "" && to != "":
		return fmt.Sprintf("%sT00:00:00,%sT23:59:59", from, to)
	case from != "":
		return from + "T00:00:00,*"
	case to != "":
		return "*," + to + "T23:59:59"
	}
	return ""
}

type tmResponse struct {
	Embedded struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalElements int `json:"totalElements"`
	} `json:"page"`
}

type tmEvent struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Score *float64 `json:"score"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
		} `json:"start"`
		Status struct {
			Code string `json:"code"`
		} `json:"status"`
	} `json:"dates"`
	Images []struct {
		URL   string `json:"url"`
		Width int    `json:"width"`
	} `json:"images"`
	PriceRanges []struct {
		Min      *float64 `json:"min"`
		Max      *float64 `json:"max"`
		Currency string   `json:"currency"`
	} `json:"priceRanges"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			Location *struct {
				Latitude  string `json:"latitude"`
				Longitude string `json:"longitude"`
			} `json:"location"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// eventDefaults fills fields the payload leaves out
type eventDefaults struct {
	date     string
	city     string
	category string
	// classify prefers the payload classification over category
	classify bool
}

func parseTicketmasterEvent(raw json.RawMessage, def eventDefaults) (*domain.Event, error) {
	var e tmEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if e.ID == "" {
		return nil, fmt.Errorf("%w: event without id", ErrMalformedPayload)
	}

	ev := &domain.Event{
		ID:             e.ID,
		Name:           e.Name,
		URL:            e.URL,
		Date:           e.Dates.Start.LocalDate,
		VenueName:      "TBA",
		City:           def.city,
		Scores:         map[string]float64{},
		Provider:       domain.ProviderTicketmaster,
		TicketProvider: domain.ProviderTicketmaster,
		Raw:            append(json.RawMessage(nil), raw...),
	}
	if ev.Name == "" {
		ev.Name = "Unknown Event"
	}
	if ev.Date == "" {
		ev.Date = def.date
	}
	if ev.URL == "" {
		ev.URL = ticketmasterEventURL + e.ID
	}

	if len(e.Embedded.Venues) > 0 {
		venue := e.Embedded.Venues[0]
		if venue.Name != "" {
			ev.VenueName = venue.Name
		}
		if venue.City.Name != "" {
			ev.City = venue.City.Name
		}
		if venue.Location != nil {
			lat, errLat := strconv.ParseFloat(venue.Location.Latitude, 64)
			lng, errLng := strconv.ParseFloat(venue.Location.Longitude, 64)
			if errLat == nil && errLng == nil {
				ev.Location = &domain.Coordinates{Lat: lat, Lng: lng}
			}
		}
	}

	if len(e.PriceRanges) > 0 {
		pr := e.PriceRanges[0]
		if pr.Min != nil && pr.Max != nil {
			ev.PriceRangeText = fmt.Sprintf("$%.0f - $%.0f", *pr.Min, *pr.Max)
		}
		ev.Price = domain.NewPriceRange(pr.Min, pr.Max, pr.Currency)
	}

	width := -1
	for _, img := range e.Images {
		if img.Width > width && img.URL != "" {
			width = img.Width
			ev.ImageURL = img.URL
		}
	}

	segment := ""
	if len(e.Classifications) > 0 {
		segment = strings.ToLower(e.Classifications[0].Segment.Name)
	}
	switch {
	case def.classify && segment != "":
		ev.Category = segment
	case def.classify:
		ev.Category = def.category
	case def.category != "":
		ev.Category = def.category
	default:
		ev.Category = segment
	}

	if e.Score != nil {
		ev.Scores["popularity"] = *e.Score
	}

	switch strings.ToLower(e.Dates.Status.Code) {
	case "cancelled", "canceled", "offsale":
		ev.SetAvailable(false)
	}

	return ev, nil
}
