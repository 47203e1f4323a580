package provider

import (
	"strings"

	"github.com/Amitro123/EventPulse/internal/domain"
)

const placeholderImage = "https://via.placeholder.com/300x200?text="

type mockEvent struct {
	id         string
	name       string
	url        string
	venue      string
	city       string
	category   string
	image      string
	min, max   float64
	popularity float64
}

func (m mockEvent) build(date string, provider domain.ProviderID) *domain.Event {
	min, max := m.min, m.max
	ev := &domain.Event{
		ID:             m.id,
		Name:           m.name,
		URL:            m.url,
		Date:           date,
		VenueName:      m.venue,
		City:           m.city,
		Category:       m.category,
		ImageURL:       m.image,
		Price:          domain.NewPriceRange(&min, &max, "USD"),
		Scores:         map[string]float64{"popularity": m.popularity},
		Provider:       provider,
		TicketProvider: provider,
	}
	ev.PriceRangeText = ev.Price.Text()
	return ev
}

func mockDateEvents(date, city, category string) []*domain.Event {
	if city == "" {
		city = "Tel Aviv"
	}
	if category == "" {
		category = "music"
	}

	mocks := []mockEvent{
		{
			id: "mock-1", name: "Coldplay - Music of the Spheres World Tour",
			url:   "https://www.ticketmaster.com/coldplay-tickets/artist/806431",
			venue: "Bloomfield Stadium", city: city, category: category,
			image: placeholderImage + "Coldplay", min: 150, max: 450, popularity: 0.95,
		},
		{
			id: "mock-2", name: "Ed Sheeran - Mathematics Tour",
			url:   "https://www.ticketmaster.com/ed-sheeran-tickets/artist/1616239",
			venue: "Yarkon Park", city: city, category: category,
			image: placeholderImage + "Ed+Sheeran", min: 120, max: 380, popularity: 0.92,
		},
		{
			id: "mock-3", name: "Maccabi Tel Aviv vs Hapoel Tel Aviv",
			url:   "https://www.ticketmaster.com/",
			venue: "Menora Mivtachim Arena", city: city, category: "sports",
			image: placeholderImage + "Basketball", min: 50, max: 200, popularity: 0.88,
		},
	}

	events := make([]*domain.Event, 0, len(mocks))
	for _, m := range mocks {
		events = append(events, m.build(date, domain.ProviderTicketmaster))
	}
	return events
}

func mockArtistEvents(artist, dateFrom string) []*domain.Event {
	date := dateFrom
	if date == "" {
		date = defaultArtistBaseDate
	}
	plus := strings.ReplaceAll(artist, " ", "+")

	mocks := []mockEvent{
		{
			id: "artist-mock-1", name: artist + " - Live in Concert",
			url:   "https://www.ticketmaster.com/search?q=" + plus,
			venue: "Madison Square Garden", city: "New York", category: "music",
			image: placeholderImage + plus, min: 75, max: 350, popularity: 0.90,
		},
		{
			id: "artist-mock-2", name: artist + " - World Tour",
			url:   "https://www.ticketmaster.com/search?q=" + plus,
			venue: "O2 Arena", city: "London", category: "music",
			image: placeholderImage + plus, min: 60, max: 280, popularity: 0.88,
		},
	}

	events := make([]*domain.Event, 0, len(mocks))
	for _, m := range mocks {
		events = append(events, m.build(date, domain.ProviderTicketmaster))
	}
	return events
}
