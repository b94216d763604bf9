package producer

import (
	"context"

	"go-shiftly/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publishEvent relays one staged row. Messages are keyed by company so every
// consumer sees a single company's events in commit order.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	key := event.CompanyID
	if key == "" {
		key = event.AggregateID
	}

	return writer.WriteMessages(ctx, kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(key),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "aggregate_id", Value: []byte(event.AggregateID)},
			{Key: "company_id", Value: []byte(event.CompanyID)},
		},
	})
}
