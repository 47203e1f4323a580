package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Amitro123/EventPulse/internal/collector"
	"github.com/Amitro123/EventPulse/internal/repository"
	"github.com/Amitro123/EventPulse/pkg/config"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "eventpulse", Environment: "test", Version: "9.9.9"},
		Viagogo: config.ViagogoConfig{
			BaseURL:     "https://www.viagogo.com",
			AffiliateID: "eventpulse",
			UseMock:     true,
		},
		Collector: config.CollectorConfig{
			Mode:           config.CollectorModeFallback,
			Order:          []string{"ticketmaster", "viagogo"},
			AdapterTimeout: 2 * time.Second,
		},
		Booking: config.BookingConfig{
			AffiliateID:        "TEST_AID",
			BaseURL:            "https://www.booking.com/searchresults.html",
			DefaultCountryCode: "IL",
		},
		CORS: config.CORSConfig{Origins: []string{"*"}},
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), &ContainerConfig{Config: cfg, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestNewContainer_Defaults(t *testing.T) {
	c := newTestContainer(t, testConfig())

	assert.Len(t, c.Adapters, 2)
	assert.Equal(t, collector.ModeFallback, c.Orchestrator.Mode())
	assert.Equal(t, 2*time.Second, c.Orchestrator.AdapterTimeout())
	assert.NotNil(t, c.Orchestrator.Primary())
	assert.IsType(t, &repository.MemoryEventCache{}, c.EventCache)
}

func TestNewContainer_Errors(t *testing.T) {
	_, err := NewContainer(context.Background(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Collector.Order = []string{"ticketmaster", "eventbrite"}
	_, err = NewContainer(context.Background(), &ContainerConfig{Config: cfg, Logger: logger.NewNop()})
	assert.Error(t, err)
}

func TestRouter_SearchThenPackage(t *testing.T) {
	c := newTestContainer(t, testConfig())
	r := NewRouter(c)

	w := get(r, "/api/events?date=2025-06-15&city=Tel+Aviv")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Success bool `json:"success"`
		Data    []struct {
			ID       string `json:"id"`
			Provider string `json:"provider"`
		} `json:"data"`
		Meta struct {
			Total   int  `json:"total"`
			PerPage int  `json:"per_page"`
			HasMore bool `json:"has_more"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.NotEmpty(t, list.Data)
	assert.Equal(t, "ticketmaster", list.Data[0].Provider)
	assert.Equal(t, 20, list.Meta.PerPage)
	assert.Equal(t, len(list.Data), list.Meta.Total)
	assert.False(t, list.Meta.HasMore)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "/api/events/"+list.Data[0].ID+"/package")
	require.Equal(t, http.StatusOK, w.Code)

	var pkg struct {
		Data struct {
			Tickets struct {
				URL            *string `json:"url"`
				TicketProvider string  `json:"ticket_provider"`
			} `json:"tickets"`
			Hotels struct {
				City     string `json:"city"`
				CheckIn  string `json:"check_in"`
				CheckOut string `json:"check_out"`
			} `json:"hotels"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkg))
	require.NotNil(t, pkg.Data.Tickets.URL)
	assert.Contains(t, *pkg.Data.Tickets.URL, "ticketmaster.com")
	assert.Equal(t, "ticketmaster", pkg.Data.Tickets.TicketProvider)
	assert.Equal(t, "Tel Aviv", pkg.Data.Hotels.City)
	assert.Equal(t, "2025-06-15", pkg.Data.Hotels.CheckIn)
	assert.Equal(t, "2025-06-16", pkg.Data.Hotels.CheckOut)
}

func TestContainer_LogFieldsAreNotRepeated(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := NewContainer(context.Background(), &ContainerConfig{Config: testConfig(), Logger: logger.FromZap(zap.New(core))})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.Equal(t, http.StatusOK, get(NewRouter(c), "/api/events?date=2025-06-15").Code)

	require.NotZero(t, logs.FilterMessage("provider call finished").Len())
	require.NotZero(t, logs.FilterMessage("mock mode: no valid api key configured").Len())
	for _, entry := range logs.All() {
		seen := make(map[string]int)
		for _, f := range entry.Context {
			seen[f.Key]++
		}
		for key, n := range seen {
			assert.Equal(t, 1, n, "%q repeats field %q", entry.Message, key)
		}
	}

	finished := logs.FilterMessage("provider call finished").All()[0].ContextMap()
	assert.Equal(t, "collector", finished["component"])
}

func TestRouter_Validation(t *testing.T) {
	r := NewRouter(newTestContainer(t, testConfig()))

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events?date=2025-13-01").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events?date=2025-06-15&page=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events/by-artist").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events/by-artist?artist=x&date_from=2025-07-01&date_to=2025-06-01").Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := NewRouter(newTestContainer(t, testConfig()))

	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"9.9.9"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(r, "/ready").Code)

	get(r, "/api/events?date=2025-06-15")
	w = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "eventpulse_adapter_calls_total")
	assert.Contains(t, w.Body.String(), "eventpulse_http_requests_total")
}
