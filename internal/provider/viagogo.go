package provider

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/pkg/config"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

const (
	defaultViagogoBaseURL = "https://www.viagogo.com"
	defaultViagogoCity    = "New York"
)

//go:embed viagogo_catalog.yaml
var viagogoCatalogYAML []byte

type catalogEntry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Slug        string  `yaml:"slug"`
	Venue       string  `yaml:"venue"`
	DefaultCity string  `yaml:"default_city"`
	Image       string  `yaml:"image"`
	MinPrice    float64 `yaml:"min_price"`
	MaxPrice    float64 `yaml:"max_price"`
	Currency    string  `yaml:"currency"`
	Popularity  float64 `yaml:"popularity"`
}

type catalog struct {
	Events       []catalogEntry `yaml:"events"`
	ArtistEvents []catalogEntry `yaml:"artist_events"`
}

func parseCatalog(data []byte) (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse viagogo catalog: %w", err)
	}
	for _, e := range append(c.Events, c.ArtistEvents...) {
		if e.ID == "" || e.Slug == "" {
			return nil, fmt.Errorf("parse viagogo catalog: entry %q missing id or slug", e.Name)
		}
	}
	return &c, nil
}

// Viagogo is the secondary marketplace adapter. Without a partner API it serves a fixed catalogue.
type Viagogo struct {
	baseURL     string
	affiliateID string
	useMock     bool
	catalog     *catalog
	log         *logger.Logger
}

// NewViagogo creates the adapter and loads the embedded catalogue
func NewViagogo(cfg config.ViagogoConfig, log *logger.Logger) (*Viagogo, error) {
	if log == nil {
		log = logger.Get()
	}
	c, err := parseCatalog(viagogoCatalogYAML)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultViagogoBaseURL
	}
	return &Viagogo{
		baseURL:     base,
		affiliateID: cfg.AffiliateID,
		useMock:     cfg.UseMock,
		catalog:     c,
		log:         log.With(zap.String("provider", domain.ProviderViagogo.String())),
	}, nil
}

// Name implements Adapter
func (v *Viagogo) Name() domain.ProviderID {
	return domain.ProviderViagogo
}

// Search implements Adapter
func (v *Viagogo) Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, error) {
	if !v.useMock {
		v.log.Debug("live search not available")
		return []*domain.Event{}, nil
	}

	category := q.Category
	if category == "" {
		category = "music"
	}

	events := make([]*domain.Event, 0, len(v.catalog.Events))
	for _, entry := range v.catalog.Events {
		city := q.City
		if city == "" {
			city = entry.DefaultCity
		}
		if city == "" {
			city = defaultViagogoCity
		}
		events = append(events, v.build(entry, entry.Name, entry.Slug, q.Date, city, category, ""))
	}
	return events, nil
}

// SearchByArtist implements Adapter
func (v *Viagogo) SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) ([]*domain.Event, int, error) {
	if !v.useMock {
		v.log.Debug("live artist search not available")
		return []*domain.Event{}, 0, nil
	}

	date := q.DateFrom
	if date == "" {
		date = defaultArtistBaseDate
	}
	artistSlug := strings.ReplaceAll(strings.ToLower(q.Artist), " ", "-")

	events := make([]*domain.Event, 0, len(v.catalog.ArtistEvents))
	for _, entry := range v.catalog.ArtistEvents {
		name := q.Artist + " - " + entry.Name
		slug := artistSlug + "-" + entry.Slug
		events = append(events, v.build(entry, name, slug, date, entry.DefaultCity, "music", domain.ProviderViagogo))
	}
	return events, len(events), nil
}

// EventURL builds an affiliate event link
func (v *Viagogo) EventURL(slug string) string {
	params := url.Values{}
	params.Set("affiliateId", v.affiliateID)
	return v.baseURL + "/event/" + url.PathEscape(slug) + "?" + params.Encode()
}

func (v *Viagogo) build(entry catalogEntry, name, slug, date, city, category string, ticketProvider domain.ProviderID) *domain.Event {
	link := v.EventURL(slug)
	min, max := entry.MinPrice, entry.MaxPrice
	ev := &domain.Event{
		ID:             entry.ID,
		Name:           name,
		URL:            link,
		Date:           date,
		VenueName:      entry.Venue,
		City:           city,
		Category:       category,
		ImageURL:       entry.Image,
		Price:          domain.NewPriceRange(&min, &max, entry.Currency),
		Scores:         map[string]float64{"popularity": entry.Popularity},
		Provider:       domain.ProviderViagogo,
		TicketProvider: ticketProvider,
		SecondaryURL:   link,
	}
	if ev.Price != nil {
		ev.PriceRangeText = ev.Price.Text()
	}
	return ev
}
