package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/internal/metrics"
	"github.com/Amitro123/EventPulse/pkg/logger"
	"github.com/Amitro123/EventPulse/pkg/redis"
)

const eventDetailKeyPrefix = "event:detail:"

// CachedEventStore wraps an EventCache with a Redis read-through and write-through layer
type CachedEventStore struct {
	store   EventCache
	cache   *redis.Client
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewCachedEventStore creates a new CachedEventStore. A zero ttl keeps entries until evicted by Redis.
func NewCachedEventStore(store EventCache, cache *redis.Client, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *CachedEventStore {
	if log == nil {
		log = logger.Get()
	}
	return &CachedEventStore{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

// Put writes to the backing store first, then refreshes Redis
func (s *CachedEventStore) Put(ctx context.Context, events ...*domain.Event) error {
	if err := s.store.Put(ctx, events...); err != nil {
		s.metrics.CacheOp("put", "error")
		return err
	}
	for _, ev := range events {
		if ev == nil || ev.ID == "" {
			continue
		}
		s.cacheEvent(ctx, ev)
	}
	s.metrics.CacheOp("put", "ok")
	return nil
}

// Get tries Redis first and falls back to the backing store
func (s *CachedEventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	cached, err := s.cache.Get(ctx, eventDetailKeyPrefix+id).Result()
	switch {
	case err == nil && cached != "":
		if ev, err := decodeEvent([]byte(cached)); err == nil {
			s.metrics.CacheOp("get", "hit")
			return ev, nil
		}
		s.log.Warn("dropping undecodable cache entry", zap.String("event_id", id))
	case err != nil && !errors.Is(err, redis.Nil):
		s.log.Warn("redis get failed, using backing store", zap.String("event_id", id), zap.Error(err))
	}

	ev, err := s.store.Get(ctx, id)
	if err != nil {
		s.metrics.CacheOp("get", "miss")
		return nil, err
	}
	s.metrics.CacheOp("get", "backfill")
	s.cacheEvent(ctx, ev)
	return ev, nil
}

// Len delegates to the backing store, which holds every event
func (s *CachedEventStore) Len(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}

func (s *CachedEventStore) cacheEvent(ctx context.Context, ev *domain.Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, eventDetailKeyPrefix+ev.ID, string(data), s.ttl).Err(); err != nil {
		s.log.Warn("redis set failed", zap.String("event_id", ev.ID), zap.Error(err))
	}
}
