package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/metrics"
	"github.com/Amitro123/EventPulse/internal/provider"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

// MockAdapter is a mock implementation of provider.Adapter
type MockAdapter struct {
	mock.Mock
	name domain.ProviderID
}

func newMockAdapter(name domain.ProviderID) *MockAdapter {
	return &MockAdapter{name: name}
}

func (m *MockAdapter) Name() domain.ProviderID {
	return m.name
}

func (m *MockAdapter) Search(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

func (m *MockAdapter) SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) ([]*domain.Event, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Event), args.Int(1), args.Error(2)
}

// MockPrimary also cross-references events
type MockPrimary struct {
	MockAdapter
}

func (m *MockPrimary) ResolveExact(ctx context.Context, name, city, date string) (*domain.Event, error) {
	args := m.Called(ctx, name, city, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func events(provider domain.ProviderID, ids ...string) []*domain.Event {
	out := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Event{ID: id, Name: id, Provider: provider})
	}
	return out
}

func newTestOrchestrator(t *testing.T, mode Mode, timeout time.Duration, adapters ...provider.Adapter) *Orchestrator {
	t.Helper()
	o, err := New(adapters, Config{Mode: mode, AdapterTimeout: timeout}, logger.NewNop(), metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)
	return o
}

var searchQuery = &domain.SearchQuery{Date: "2025-06-15", Limit: 20, CountryCode: "IL"}

func TestSearch_FirstNonEmptyWins(t *testing.T) {
	first := newMockAdapter("first")
	second := newMockAdapter("second")
	third := newMockAdapter("third")

	first.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{}, nil)
	second.On("Search", mock.Anything, searchQuery).Return(events("second", "b1", "b2"), nil)

	o := newTestOrchestrator(t, ModeFallback, time.Second, first, second, third)
	res := o.Collect(context.Background(), searchQuery)

	assert.Equal(t, []string{"b1", "b2"}, domain.EventIDs(res.Events))
	assert.Equal(t, domain.ProviderID("second"), res.Winner)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, StatusEmpty, res.Outcomes[0].Status)
	assert.Equal(t, StatusSuccess, res.Outcomes[1].Status)

	third.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestSearch_FallbackOnError(t *testing.T) {
	first := newMockAdapter("first")
	second := newMockAdapter("second")

	first.On("Search", mock.Anything, searchQuery).Return(nil, errors.New("connection refused"))
	second.On("Search", mock.Anything, searchQuery).Return(events("second", "b1"), nil)

	o := newTestOrchestrator(t, ModeFallback, time.Second, first, second)
	got := o.Search(context.Background(), searchQuery)

	assert.Equal(t, []string{"b1"}, domain.EventIDs(got))
}

func TestSearch_AllExhaustedReturnsEmpty(t *testing.T) {
	first := newMockAdapter("first")
	second := newMockAdapter("second")

	first.On("Search", mock.Anything, searchQuery).Return(nil, errors.New("boom"))
	second.On("Search", mock.Anything, searchQuery).Return(nil, nil)

	o := newTestOrchestrator(t, ModeFallback, time.Second, first, second)
	res := o.Collect(context.Background(), searchQuery)

	require.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Winner)
	assert.Equal(t, StatusFailed, res.Outcomes[0].Status)
	assert.Equal(t, StatusEmpty, res.Outcomes[1].Status)
}

func TestSearch_TimeoutFallsBack(t *testing.T) {
	slow := newMockAdapter("slow")
	fast := newMockAdapter("fast")

	slow.On("Search", mock.Anything, searchQuery).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)
	fast.On("Search", mock.Anything, searchQuery).Return(events("fast", "f1"), nil)

	o := newTestOrchestrator(t, ModeFallback, 20*time.Millisecond, slow, fast)
	res := o.Collect(context.Background(), searchQuery)

	assert.Equal(t, []string{"f1"}, domain.EventIDs(res.Events))
	assert.Equal(t, StatusTimeout, res.Outcomes[0].Status)
	assert.ErrorIs(t, res.Outcomes[0].Err, context.DeadlineExceeded)
}

func TestSearch_HungAdapterIsBounded(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	hung := newMockAdapter("hung")
	hung.On("Search", mock.Anything, searchQuery).
		Run(func(mock.Arguments) { <-release }).
		Return(events("hung", "late"), nil)

	o := newTestOrchestrator(t, ModeFallback, 20*time.Millisecond, hung)

	start := time.Now()
	res := o.Collect(context.Background(), searchQuery)

	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, res.Events)
	assert.Equal(t, StatusTimeout, res.Outcomes[0].Status)
}

func TestSearch_PanicIsFailure(t *testing.T) {
	bad := newMockAdapter("bad")
	good := newMockAdapter("good")

	bad.On("Search", mock.Anything, searchQuery).Run(func(mock.Arguments) { panic("nil map") }).Return(nil, nil)
	good.On("Search", mock.Anything, searchQuery).Return(events("good", "g1"), nil)

	o := newTestOrchestrator(t, ModeFallback, time.Second, bad, good)
	res := o.Collect(context.Background(), searchQuery)

	assert.Equal(t, []string{"g1"}, domain.EventIDs(res.Events))
	assert.Equal(t, StatusFailed, res.Outcomes[0].Status)
	assert.ErrorIs(t, res.Outcomes[0].Err, ErrAdapterPanic)
}

func TestSearchByArtist_Total(t *testing.T) {
	q := &domain.ArtistSearchQuery{Artist: "Coldplay", Limit: 2, CountryCode: "US"}

	t.Run("winner total", func(t *testing.T) {
		first := newMockAdapter("first")
		second := newMockAdapter("second")
		first.On("SearchByArtist", mock.Anything, q).Return([]*domain.Event{}, 17, nil)
		second.On("SearchByArtist", mock.Anything, q).Return(events("second", "s1", "s2"), 25, nil)

		o := newTestOrchestrator(t, ModeFallback, time.Second, first, second)
		got, total := o.SearchByArtist(context.Background(), q)

		assert.Equal(t, []string{"s1", "s2"}, domain.EventIDs(got))
		assert.Equal(t, 25, total, "an empty adapter's total is ignored")
	})

	t.Run("total never below page size", func(t *testing.T) {
		only := newMockAdapter("only")
		only.On("SearchByArtist", mock.Anything, q).Return(events("only", "o1", "o2"), 0, nil)

		o := newTestOrchestrator(t, ModeFallback, time.Second, only)
		_, total := o.SearchByArtist(context.Background(), q)
		assert.Equal(t, 2, total)
	})

	t.Run("nothing matched", func(t *testing.T) {
		only := newMockAdapter("only")
		only.On("SearchByArtist", mock.Anything, q).Return(nil, 99, errors.New("503"))

		o := newTestOrchestrator(t, ModeFallback, time.Second, only)
		got, total := o.SearchByArtist(context.Background(), q)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Zero(t, total)
	})
}

func TestSearch_CallerCancelStopsFallback(t *testing.T) {
	first := newMockAdapter("first")
	second := newMockAdapter("second")

	ctx, cancel := context.WithCancel(context.Background())
	first.On("Search", mock.Anything, searchQuery).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	o := newTestOrchestrator(t, ModeFallback, time.Second, first, second)
	got := o.Search(ctx, searchQuery)

	assert.Empty(t, got)
	second.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestAggregate_MergesByPriority(t *testing.T) {
	q := &domain.ArtistSearchQuery{Artist: "Adele", Limit: 20}
	primary := newMockAdapter("primary")
	secondary := newMockAdapter("secondary")
	broken := newMockAdapter("broken")

	primary.On("SearchByArtist", mock.Anything, q).Return(events("primary", "a", "b"), 2, nil)
	secondary.On("SearchByArtist", mock.Anything, q).Return(events("secondary", "b", "c"), 10, nil)
	broken.On("SearchByArtist", mock.Anything, q).Return(nil, 0, errors.New("down"))

	o := newTestOrchestrator(t, ModeAggregate, time.Second, primary, secondary, broken)
	res := o.CollectByArtist(context.Background(), q)

	assert.Equal(t, []string{"a", "b", "c"}, domain.EventIDs(res.Events))
	assert.Equal(t, domain.ProviderID("primary"), res.Events[1].Provider, "higher priority wins on duplicate ids")
	assert.Equal(t, 12, res.Total)
	assert.Len(t, res.Outcomes, 3)
	assert.Equal(t, StatusFailed, res.Outcomes[2].Status)

	primary.AssertExpectations(t)
	secondary.AssertExpectations(t)
	broken.AssertExpectations(t)
}

func TestAggregate_AllEmpty(t *testing.T) {
	a := newMockAdapter("a")
	a.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{}, nil)

	o := newTestOrchestrator(t, ModeAggregate, time.Second, a)
	got := o.Search(context.Background(), searchQuery)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNew(t *testing.T) {
	a := newMockAdapter("a")

	_, err := New(nil, Config{}, logger.NewNop(), nil)
	assert.ErrorIs(t, err, ErrNoAdapters)

	_, err = New([]provider.Adapter{a}, Config{Mode: "round_robin"}, logger.NewNop(), nil)
	assert.ErrorIs(t, err, ErrUnknownMode)

	o, err := New([]provider.Adapter{a}, Config{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeFallback, o.Mode())
	assert.Equal(t, DefaultAdapterTimeout, o.AdapterTimeout())

	o, err = New([]provider.Adapter{a}, Config{AdapterTimeout: time.Minute}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, MaxAdapterTimeout, o.AdapterTimeout())
}

func TestPrimary(t *testing.T) {
	secondary := newMockAdapter(domain.ProviderViagogo)
	primary := &MockPrimary{MockAdapter{name: domain.ProviderTicketmaster}}

	o := newTestOrchestrator(t, ModeFallback, time.Second, secondary, primary)
	assert.Same(t, primary, o.Primary())
	assert.Len(t, o.Adapters(), 2)

	o = newTestOrchestrator(t, ModeFallback, time.Second, secondary)
	assert.Nil(t, o.Primary())
}

// MockPaged reports the upstream total of a date search
type MockPaged struct {
	MockAdapter
}

func (m *MockPaged) SearchPage(ctx context.Context, q *domain.SearchQuery) ([]*domain.Event, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Event), args.Int(1), args.Error(2)
}

func TestSearch_PagedAdapterTotal(t *testing.T) {
	q := &domain.SearchQuery{Date: "2025-06-15", Limit: 1, CountryCode: "IL"}
	paged := &MockPaged{MockAdapter{name: domain.ProviderTicketmaster}}
	paged.On("SearchPage", mock.Anything, q).Return(events(domain.ProviderTicketmaster, "tm-1"), 500, nil)

	o := newTestOrchestrator(t, ModeFallback, time.Second, paged)
	res := o.Collect(context.Background(), q)

	assert.Equal(t, []string{"tm-1"}, domain.EventIDs(res.Events))
	assert.Equal(t, 500, res.Total)
	paged.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_NilEventsAreSkipped(t *testing.T) {
	valid := events("first", "a1")[0]

	t.Run("fallback", func(t *testing.T) {
		first := newMockAdapter("first")
		first.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{nil, valid, nil}, nil)

		o := newTestOrchestrator(t, ModeFallback, time.Second, first)
		res := o.Collect(context.Background(), searchQuery)

		assert.Equal(t, []string{"a1"}, domain.EventIDs(res.Events))
		assert.Equal(t, 1, res.Total)
	})

	t.Run("only nil is empty", func(t *testing.T) {
		first := newMockAdapter("first")
		second := newMockAdapter("second")
		first.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{nil}, nil)
		second.On("Search", mock.Anything, searchQuery).Return(events("second", "b1"), nil)

		o := newTestOrchestrator(t, ModeFallback, time.Second, first, second)
		res := o.Collect(context.Background(), searchQuery)

		assert.Equal(t, StatusEmpty, res.Outcomes[0].Status)
		assert.Equal(t, []string{"b1"}, domain.EventIDs(res.Events))
	})

	t.Run("aggregate", func(t *testing.T) {
		first := newMockAdapter("first")
		second := newMockAdapter("second")
		first.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{nil, valid}, nil)
		second.On("Search", mock.Anything, searchQuery).Return([]*domain.Event{nil}, nil)

		o := newTestOrchestrator(t, ModeAggregate, time.Second, first, second)
		var res *Result
		require.NotPanics(t, func() { res = o.Collect(context.Background(), searchQuery) })

		assert.Equal(t, []string{"a1"}, domain.EventIDs(res.Events))
		assert.Equal(t, StatusEmpty, res.Outcomes[1].Status)
	})
}
