package repository

import (
	"bytes"
	"encoding/json"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// storedEvent is the persisted form of an event. Raw travels as an opaque
// string so neither re-encoding nor JSONB normalisation can touch its bytes.
type storedEvent struct {
	*domain.Event
	Raw string `json:"raw_data,omitempty"`
}

// encodeEvent serialises ev for Redis and Postgres
func encodeEvent(ev *domain.Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(storedEvent{Event: ev, Raw: string(ev.Raw)}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeEvent is the inverse of encodeEvent
func decodeEvent(data []byte) (*domain.Event, error) {
	ev := &domain.Event{}
	rec := storedEvent{Event: ev}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	ev.Raw = nil
	if rec.Raw != "" {
		ev.Raw = json.RawMessage(rec.Raw)
	}
	return ev, nil
}
