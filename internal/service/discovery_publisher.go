package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Amitro123/EventPulse/pkg/kafka"
)

// MessageProducer is the subset of the Kafka producer the publisher needs
type MessageProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// DiscoveryPublisherConfig contains configuration for the discovery publisher
type DiscoveryPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// KafkaDiscoveryPublisher implements DiscoveryPublisher using Kafka
type KafkaDiscoveryPublisher struct {
	producer    MessageProducer
	topic       string
	serviceName string
}

// NewKafkaDiscoveryPublisher connects to Kafka and creates the publisher
func NewKafkaDiscoveryPublisher(ctx context.Context, cfg *DiscoveryPublisherConfig) (*KafkaDiscoveryPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("discovery publisher config is required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "eventpulse-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewDiscoveryPublisherWithProducer(producer, cfg.Topic, cfg.ServiceName), nil
}

// NewDiscoveryPublisherWithProducer wraps an existing producer
func NewDiscoveryPublisherWithProducer(producer MessageProducer, topic, serviceName string) *KafkaDiscoveryPublisher {
	if topic == "" {
		topic = "events.discovered"
	}
	if serviceName == "" {
		serviceName = "eventpulse"
	}
	return &KafkaDiscoveryPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}
}

// PublishDiscovery publishes d as JSON
func (p *KafkaDiscoveryPublisher) PublishDiscovery(ctx context.Context, d *Discovery) error {
	value, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(d.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   "events.discovered",
			"event_id":     d.ID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
		Timestamp: d.OccurredAt,
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish discovery: %w", err)
	}
	return nil
}

// Close closes the underlying producer
func (p *KafkaDiscoveryPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpDiscoveryPublisher drops every notification
type NoOpDiscoveryPublisher struct{}

// NewNoOpDiscoveryPublisher creates a publisher for deployments without Kafka
func NewNoOpDiscoveryPublisher() *NoOpDiscoveryPublisher {
	return &NoOpDiscoveryPublisher{}
}

// PublishDiscovery does nothing
func (p *NoOpDiscoveryPublisher) PublishDiscovery(ctx context.Context, d *Discovery) error {
	return nil
}

// Close does nothing
func (p *NoOpDiscoveryPublisher) Close() error {
	return nil
}
