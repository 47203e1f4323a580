package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/pkg/kafka"
)

type fakeProducer struct {
	sent   []*kafka.Message
	err    error
	closed bool
}

func (p *fakeProducer) Produce(ctx context.Context, msg *kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakeProducer) Close() {
	p.closed = true
}

func TestKafkaDiscoveryPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewDiscoveryPublisherWithProducer(producer, "", "")

	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	d := &Discovery{
		ID:         "d-1",
		Kind:       DiscoveryKindByArtist,
		Provider:   domain.ProviderViagogo,
		EventIDs:   []string{"viagogo-artist-1"},
		Total:      1,
		Query:      map[string]string{"artist": "Lady Gaga"},
		OccurredAt: at,
	}
	require.NoError(t, pub.PublishDiscovery(context.Background(), d))

	require.Len(t, producer.sent, 1)
	msg := producer.sent[0]
	assert.Equal(t, "events.discovered", msg.Topic)
	assert.Equal(t, []byte(DiscoveryKindByArtist), msg.Key)
	assert.Equal(t, "d-1", msg.Headers["event_id"])
	assert.Equal(t, "eventpulse", msg.Headers["source"])
	assert.Equal(t, at, msg.Timestamp)

	var decoded Discovery
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, *d, decoded)

	require.NoError(t, pub.Close())
	assert.True(t, producer.closed)
}

func TestKafkaDiscoveryPublisher_ProduceError(t *testing.T) {
	pub := NewDiscoveryPublisherWithProducer(&fakeProducer{err: errors.New("not leader")}, "custom.topic", "svc")
	err := pub.PublishDiscovery(context.Background(), &Discovery{ID: "x", Kind: DiscoveryKindSearch})
	assert.ErrorContains(t, err, "not leader")
}

func TestNewKafkaDiscoveryPublisher_Validation(t *testing.T) {
	_, err := NewKafkaDiscoveryPublisher(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewKafkaDiscoveryPublisher(context.Background(), &DiscoveryPublisherConfig{})
	assert.ErrorIs(t, err, kafka.ErrNoBrokers)
}

func TestNoOpDiscoveryPublisher(t *testing.T) {
	pub := NewNoOpDiscoveryPublisher()
	assert.NoError(t, pub.PublishDiscovery(context.Background(), &Discovery{}))
	assert.NoError(t, pub.Close())
}
