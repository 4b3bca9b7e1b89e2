// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TripCalculated = "trip.calculated"
	TripDeleted    = "trip.deleted"
	UserRegistered = "auth.user_registered"
	UserLoggedIn   = "auth.user_logged_in"
)

// Publisher publishes domain events to Kafka.
type Publisher struct {
	writer *kafka.Writer
	source string
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(brokers []string, topic, source string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer, source: source}
}

// PublishTripEvent publishes an event keyed by trip id.
func (p *Publisher) PublishTripEvent(ctx context.Context, tripID uuid.UUID, eventType string, data any) error {
	return p.publish(ctx, tripID.String(), eventType, data)
}

// PublishAuthEvent publishes an event keyed by user id.
func (p *Publisher) PublishAuthEvent(ctx context.Context, userID uuid.UUID, eventType string, data any) error {
	return p.publish(ctx, userID.String(), eventType, data)
}

func (p *Publisher) publish(ctx context.Context, key, eventType string, data any) error {
	envelope := map[string]any{
		"event_type": eventType,
		"data":       data,
		"timestamp":  time.Now().UTC(),
		"source":     p.source,
		"version":    "1.0",
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "entity-id", Value: []byte(key)},
			{Key: "source", Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Close releases the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Health checks Kafka connectivity.
func (p *Publisher) Health(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.writer.Addr.String())
	if err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	defer conn.Close()
	return nil
}
