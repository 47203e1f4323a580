package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/metrics"
	"github.com/Amitro123/EventPulse/internal/provider"
	"github.com/Amitro123/EventPulse/pkg/logger"
	"github.com/Amitro123/EventPulse/pkg/telemetry"
)

// Mode selects how adapter results are combined
type Mode string

const (
	// ModeFallback returns the first non-empty result in priority order
	ModeFallback Mode = "fallback"
	// ModeAggregate queries every adapter and merges by event id
	ModeAggregate Mode = "aggregate"
)

const (
	DefaultAdapterTimeout = 10 * time.Second
	MaxAdapterTimeout     = 30 * time.Second

	opSearch   = "search"
	opByArtist = "search_by_artist"
)

var (
	ErrNoAdapters   = errors.New("collector needs at least one adapter")
	ErrUnknownMode  = errors.New("unknown collector mode")
	ErrAdapterPanic = errors.New("adapter panicked")
)

// Config holds orchestration settings
type Config struct {
	Mode           Mode
	AdapterTimeout time.Duration
}

// Orchestrator queries providers in priority order and shields callers from their failures
type Orchestrator struct {
	adapters []provider.Adapter
	mode     Mode
	timeout  time.Duration
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates an orchestrator over adapters, highest priority first
func New(adapters []provider.Adapter, cfg Config, log *logger.Logger, m *metrics.Metrics) (*Orchestrator, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeFallback
	}
	if mode != ModeFallback && mode != ModeAggregate {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, cfg.Mode)
	}

	timeout := cfg.AdapterTimeout
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	if timeout > MaxAdapterTimeout {
		timeout = MaxAdapterTimeout
	}

	if log == nil {
		log = logger.Get()
	}

	return &Orchestrator{
		adapters: append([]provider.Adapter(nil), adapters...),
		mode:     mode,
		timeout:  timeout,
		log:      log,
		metrics:  m,
	}, nil
}

// Mode returns the active composition policy
func (o *Orchestrator) Mode() Mode {
	return o.mode
}

// AdapterTimeout returns the per-call deadline
func (o *Orchestrator) AdapterTimeout() time.Duration {
	return o.timeout
}

// Adapters returns the adapters in priority order
func (o *Orchestrator) Adapters() []provider.Adapter {
	return append([]provider.Adapter(nil), o.adapters...)
}

// Primary returns the highest-priority adapter able to cross-reference events, or nil
func (o *Orchestrator) Primary() provider.CrossReferencer {
	for _, a := range o.adapters {
		if cr, ok := a.(provider.CrossReferencer); ok {
			return cr
		}
	}
	return nil
}

// Search returns events for a date. It never fails: no results is an empty slice.
func (o *Orchestrator) Search(ctx context.Context, q *domain.SearchQuery) []*domain.Event {
	return o.Collect(ctx, q).Events
}

// SearchByArtist returns events for a performer and the upstream total of the winning source
func (o *Orchestrator) SearchByArtist(ctx context.Context, q *domain.ArtistSearchQuery) ([]*domain.Event, int) {
	res := o.CollectByArtist(ctx, q)
	return res.Events, res.Total
}

// Collect is Search with the per-adapter outcomes attached
func (o *Orchestrator) Collect(ctx context.Context, q *domain.SearchQuery) *Result {
	return o.collect(ctx, opSearch, func(ctx context.Context, a provider.Adapter) ([]*domain.Event, int, error) {
		if ps, ok := a.(provider.PagedSearcher); ok {
			return ps.SearchPage(ctx, q)
		}
		events, err := a.Search(ctx, q)
		return events, len(events), err
	})
}

// CollectByArtist is SearchByArtist with the per-adapter outcomes attached
func (o *Orchestrator) CollectByArtist(ctx context.Context, q *domain.ArtistSearchQuery) *Result {
	return o.collect(ctx, opByArtist, func(ctx context.Context, a provider.Adapter) ([]*domain.Event, int, error) {
		return a.SearchByArtist(ctx, q)
	})
}

type call func(ctx context.Context, a provider.Adapter) ([]*domain.Event, int, error)

func (o *Orchestrator) collect(ctx context.Context, op string, fn call) *Result {
	ctx, span := telemetry.StartSpan(ctx, "collector."+op,
		trace.WithAttributes(attribute.String("collector.mode", string(o.mode))))
	defer span.End()

	var res *Result
	if o.mode == ModeAggregate {
		res = o.aggregate(ctx, op, fn)
	} else {
		res = o.fallback(ctx, op, fn)
	}

	span.SetAttributes(
		attribute.Int("collector.events", len(res.Events)),
		attribute.String("collector.winner", res.Winner.String()),
	)
	o.metrics.ObserveSearchResults(op, len(res.Events))
	return res
}

// fallback tries adapters in order and stops at the first success
func (o *Orchestrator) fallback(ctx context.Context, op string, fn call) *Result {
	outcomes := make([]Outcome, 0, len(o.adapters))
	for _, a := range o.adapters {
		out := o.run(ctx, op, a, fn)
		outcomes = append(outcomes, out)

		switch out.Status {
		case StatusSuccess:
			return &Result{Events: out.Events, Total: out.Total, Winner: out.Provider, Outcomes: outcomes}
		case StatusEmpty, StatusFailed, StatusTimeout:
			if ctx.Err() != nil {
				o.log.Warn("request ended before fallback finished", zap.String("operation", op), zap.Error(ctx.Err()))
				return emptyResult(outcomes)
			}
		}
	}

	o.log.Info("no provider returned events", zap.String("operation", op), zap.Int("adapters", len(o.adapters)))
	return emptyResult(outcomes)
}

// aggregate queries all adapters concurrently and merges their events by id
func (o *Orchestrator) aggregate(ctx context.Context, op string, fn call) *Result {
	outcomes := make([]Outcome, len(o.adapters))

	var g errgroup.Group
	for i, a := range o.adapters {
		i, a := i, a
		g.Go(func() error {
			outcomes[i] = o.run(ctx, op, a, fn)
			return nil
		})
	}
	_ = g.Wait()

	res := emptyResult(outcomes)
	seen := make(map[string]bool)
	for _, out := range outcomes {
		if !out.OK() {
			continue
		}
		res.Total += out.Total
		for _, ev := range out.Events {
			if seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			res.Events = append(res.Events, ev)
		}
	}
	return res
}

// run performs one bounded adapter call and classifies it
func (o *Orchestrator) run(ctx context.Context, op string, a provider.Adapter, fn call) Outcome {
	name := a.Name()
	ctx, span := telemetry.StartSpan(ctx, "provider."+op,
		trace.WithAttributes(attribute.String("provider", name.String())))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	events, total, err := invoke(callCtx, a, fn)
	events = dropNil(events)
	out := Outcome{
		Provider: name,
		Events:   events,
		Total:    total,
		Err:      err,
		Duration: time.Since(start),
	}

	switch {
	case err != nil && isTimeout(callCtx, err):
		out.Status = StatusTimeout
	case err != nil:
		out.Status = StatusFailed
	case len(events) == 0:
		out.Status = StatusEmpty
	default:
		out.Status = StatusSuccess
	}
	if out.Status != StatusSuccess {
		out.Events = []*domain.Event{}
		out.Total = 0
	} else if out.Total < len(out.Events) {
		out.Total = len(out.Events)
	}

	o.record(ctx, op, out)
	return out
}

func (o *Orchestrator) record(ctx context.Context, op string, out Outcome) {
	fields := []zap.Field{
		zap.String("provider", out.Provider.String()),
		zap.String("operation", op),
		zap.String("status", string(out.Status)),
		zap.Int("events", len(out.Events)),
		zap.Duration("duration", out.Duration),
	}

	switch out.Status {
	case StatusFailed, StatusTimeout:
		telemetry.SetSpanError(ctx, out.Err)
		o.log.Warn("provider unavailable, falling back", append(fields, zap.Error(out.Err))...)
	default:
		o.log.Debug("provider call finished", fields...)
	}

	telemetry.SetSpanAttributes(ctx,
		attribute.String("provider.status", string(out.Status)),
		attribute.Int("provider.events", len(out.Events)),
	)
	o.metrics.ObserveAdapterCall(out.Provider.String(), op, string(out.Status), out.Duration)
}

type callResult struct {
	events []*domain.Event
	total  int
	err    error
}

// invoke runs fn and gives up when ctx expires, even if the adapter ignores ctx
func invoke(ctx context.Context, a provider.Adapter, fn call) ([]*domain.Event, int, error) {
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: fmt.Errorf("%w: %v", ErrAdapterPanic, r)}
			}
		}()
		events, total, err := fn(ctx, a)
		done <- callResult{events: events, total: total, err: err}
	}()

	select {
	case r := <-done:
		return r.events, r.total, r.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// dropNil removes nil entries an adapter may have returned
func dropNil(events []*domain.Event) []*domain.Event {
	for _, ev := range events {
		if ev == nil {
			kept := make([]*domain.Event, 0, len(events))
			for _, e := range events {
				if e != nil {
					kept = append(kept, e)
				}
			}
			return kept
		}
	}
	return events
}
