package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/internal/attribution"
	"github.com/Amitro123/EventPulse/internal/collector"
	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/metrics"
	"github.com/Amitro123/EventPulse/internal/repository"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

const (
	demoEventName  = "Event Package Demo"
	demoEventURL   = "https://www.ticketmaster.com/"
	demoVenue      = "Demo Venue"
	demoCity       = "New York"
	demoCategory   = "music"
	publishTimeout = 5 * time.Second
)

// eventService implements EventService
type eventService struct {
	collector EventCollector
	cache     repository.EventCache
	resolver  *attribution.Resolver
	hotels    *HotelLinkBuilder
	publisher DiscoveryPublisher
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// EventServiceDeps groups the collaborators of the event service
type EventServiceDeps struct {
	Collector EventCollector
	Cache     repository.EventCache
	Resolver  *attribution.Resolver
	Hotels    *HotelLinkBuilder
	Publisher DiscoveryPublisher
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
}

// NewEventService creates a new EventService
func NewEventService(deps EventServiceDeps) EventService {
	s := &eventService{
		collector: deps.Collector,
		cache:     deps.Cache,
		resolver:  deps.Resolver,
		hotels:    deps.Hotels,
		publisher: deps.Publisher,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		now:       time.Now,
	}
	if s.resolver == nil {
		s.resolver = attribution.NewResolver()
	}
	if s.hotels == nil {
		s.hotels = NewHotelLinkBuilder("", "")
	}
	if s.publisher == nil {
		s.publisher = NewNoOpDiscoveryPublisher()
	}
	if s.cache == nil {
		s.cache = repository.NewMemoryEventCache()
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// SearchEvents finds events on a date and caches them
func (s *eventService) SearchEvents(ctx context.Context, q *domain.SearchQuery) (*SearchResult, error) {
	q.SetDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	res := s.collector.Collect(ctx, q)
	s.remember(ctx, res.Events)
	s.announce(ctx, DiscoveryKindSearch, res, map[string]string{
		"date":         q.Date,
		"city":         q.City,
		"category":     q.Category,
		"country_code": q.CountryCode,
		"page":         strconv.Itoa(q.Page),
	})

	return &SearchResult{
		Events:  res.Events,
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   res.Total,
		HasMore: domain.HasMore(res.Total, q.Page, q.Limit),
	}, nil
}

// SearchByArtist finds events for a performer and caches them
func (s *eventService) SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) (*SearchResult, error) {
	q.SetDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	res := s.collector.CollectByArtist(ctx, q)
	s.remember(ctx, res.Events)
	s.announce(ctx, DiscoveryKindByArtist, res, map[string]string{
		"artist":       q.Artist,
		"date_from":    q.DateFrom,
		"date_to":      q.DateTo,
		"country_code": q.CountryCode,
		"page":         strconv.Itoa(q.Page),
	})

	return &SearchResult{
		Events:  res.Events,
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   res.Total,
		HasMore: domain.HasMore(res.Total, q.Page, q.Limit),
	}, nil
}

// GetPackage builds the ticket and hotel package for an event seen by an earlier search
func (s *eventService) GetPackage(ctx context.Context, eventID string) (*Package, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, domain.ErrInvalidEventID
	}

	ev, err := s.cache.Get(ctx, eventID)
	demo := false
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		ev, demo = s.demoEvent(eventID), true
	case err != nil:
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}

	crossRefURL := ""
	if !demo && ev.Provider != s.resolver.PrimaryProvider {
		crossRefURL = s.crossReference(ctx, ev)
	}

	decision := s.resolver.Resolve(ev, crossRefURL)
	attributed := attribution.Apply(ev, decision)

	s.log.Debug("ticket attribution resolved",
		zap.String("event_id", ev.ID),
		zap.String("provider", ev.Provider.String()),
		zap.String("ticket_provider", decision.TicketProvider.String()),
		zap.String("rule", decision.Rule.String()),
	)

	checkIn, err := time.Parse(domain.DateLayout, ev.Date)
	if err != nil {
		checkIn = s.today()
	}
	checkOut := checkIn.AddDate(0, 0, 1)

	tickets := TicketsInfo{TicketProvider: decision.TicketProvider}
	if decision.HasURL {
		u := decision.URL
		tickets.URL = &u
	}

	return &Package{
		Event:   attributed,
		Tickets: tickets,
		Hotels: HotelsInfo{
			City:         ev.City,
			CheckIn:      checkIn.Format(domain.DateLayout),
			CheckOut:     checkOut.Format(domain.DateLayout),
			AffiliateURL: s.hotels.Build(ev.City, checkIn, checkOut),
		},
	}, nil
}

// crossReference asks the primary provider for the same event; any failure means no match
func (s *eventService) crossReference(ctx context.Context, ev *domain.Event) string {
	primary := s.collector.Primary()
	if primary == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.collector.AdapterTimeout())
	defer cancel()

	match, err := primary.ResolveExact(ctx, ev.Name, ev.City, ev.Date)
	if err != nil {
		s.log.Warn("cross reference lookup failed", zap.String("event_id", ev.ID), zap.Error(err))
		return ""
	}
	if match == nil || match.URL == "" {
		return ""
	}
	return match.URL
}

func (s *eventService) demoEvent(id string) *domain.Event {
	return &domain.Event{
		ID:        id,
		Name:      demoEventName,
		URL:       demoEventURL,
		Date:      s.today().Format(domain.DateLayout),
		VenueName: demoVenue,
		City:      demoCity,
		Category:  demoCategory,
		Scores:    map[string]float64{},
	}
}

func (s *eventService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// remember writes events through to the cache; a failed write never fails the search
func (s *eventService) remember(ctx context.Context, events []*domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.cache.Put(ctx, events...); err != nil {
		s.log.Warn("failed to cache events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// announce publishes a discovery notification; failures are logged only
func (s *eventService) announce(ctx context.Context, kind string, res *collector.Result, query map[string]string) {
	if len(res.Events) == 0 {
		return
	}

	for k, v := range query {
		if v == "" {
			delete(query, k)
		}
	}

	d := &Discovery{
		ID:         uuid.New().String(),
		Kind:       kind,
		Provider:   res.Winner,
		EventIDs:   domain.EventIDs(res.Events),
		Total:      res.Total,
		Query:      query,
		OccurredAt: s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.PublishDiscovery(ctx, d); err != nil {
		s.metrics.PublishFailed()
		s.log.Warn("failed to publish discovery", zap.String("kind", kind), zap.Error(err))
	}
}
