package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventPublisher appends an event to the stream it was built for.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// StreamPublisher writes events to one Redis stream. Each entry carries the
// event type as its own field so consumers can filter without decoding.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: []any{"type", eventType, "event", payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append %s to %s: %w", eventType, p.stream, err)
	}
	return nil
}

// NopPublisher drops every event. Used when no events server is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error {
	return nil
}

// Emitter publishes transaction events and logs failures instead of
// returning them; an event that cannot be sent never fails the request.
type Emitter struct {
	publisher EventPublisher
	log       zerolog.Logger
}

func NewEmitter(publisher EventPublisher, log zerolog.Logger) *Emitter {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Emitter{publisher: publisher, log: log}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, data any) {
	if err := e.publisher.Publish(ctx, eventType, data); err != nil {
		e.log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
