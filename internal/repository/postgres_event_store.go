package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Amitro123/EventPulse/internal/domain"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	provider    TEXT NOT NULL,
	event_date  TEXT NOT NULL DEFAULT '',
	payload     JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_events_provider ON events (provider);`

const upsertEventQuery = `
	INSERT INTO events (id, provider, event_date, payload, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (id) DO UPDATE SET
		provider = EXCLUDED.provider,
		event_date = EXCLUDED.event_date,
		payload = EXCLUDED.payload,
		updated_at = NOW()`

// PostgresEventStore persists events as JSONB so they survive restarts
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a new PostgresEventStore
func NewPostgresEventStore(pool *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

// EnsureSchema creates the events table when missing
func (s *PostgresEventStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, eventsSchema); err != nil {
		return fmt.Errorf("failed to create events schema: %w", err)
	}
	return nil
}

// Put upserts events in one batch
func (s *PostgresEventStore) Put(ctx context.Context, events ...*domain.Event) error {
	batch := &pgx.Batch{}
	for _, ev := range events {
		if ev == nil || ev.ID == "" {
			continue
		}
		payload, err := encodeEvent(ev)
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", ev.ID, err)
		}
		batch.Queue(upsertEventQuery, ev.ID, ev.Provider.String(), ev.Date, payload)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert event: %w", err)
		}
	}
	return nil
}

// Get loads one event by id
func (s *PostgresEventStore) Get(ctx context.Context, id string) (*domain.Event, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM events WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	ev, err := decodeEvent(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode event %s: %w", id, err)
	}
	return ev, nil
}

// Len counts stored events
func (s *PostgresEventStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
