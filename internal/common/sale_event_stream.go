package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SaleEventsStream is the Redis stream sale events are appended to.
const SaleEventsStream = "ticketdesk:sale_events"

const (
	EventSaleConfirmed = "sale.confirmed"
	EventSaleVoided    = "sale.voided"
	EventSaleRefunded  = "sale.refunded"
)

// SaleEvent is published after a sale is committed or changes status.
type SaleEvent struct {
	Type       string    `json:"type"`
	SaleID     string    `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	RouteID    string    `json:"route_id"`
	VesselID   string    `json:"vessel_id"`
	TravelDate string    `json:"travel_date"`
	TravelTime string    `json:"travel_time"`
	Seats      int       `json:"seats"`
	Total      float64   `json:"total"`
	Actor      string    `json:"actor"`
	At         time.Time `json:"at"`
}

// EventPublisher hands sale events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *SaleEvent) error
}

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, *SaleEvent) error { return nil }

// RedisEventStream appends events to a capped Redis Stream.
type RedisEventStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisEventStream(client *redis.Client, stream string, maxLen int64) *RedisEventStream {
	return &RedisEventStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Publish adds the event to the stream
func (s *RedisEventStream) Publish(ctx context.Context, event *SaleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sale event: %w", err)
	}

	// XADD stream MAXLEN ~ n * type <t> data <json>
	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": event.Type,
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}
	return nil
}

// Len returns the number of events currently held in the stream.
func (s *RedisEventStream) Len(ctx context.Context) (int64, error) {
	n, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get stream length: %w", err)
	}
	return n, nil
}

// Recent returns up to count of the newest events, newest first.
func (s *RedisEventStream) Recent(ctx context.Context, count int64) ([]SaleEvent, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	events := make([]SaleEvent, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}
		var ev SaleEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
