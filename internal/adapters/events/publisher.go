package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// rentalEnvelope is the subset of the outbox envelope the local publisher reads.
type rentalEnvelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		HouseID  string `json:"house_id"`
		RenterID string `json:"renter_id"`
		TicketID string `json:"ticket_id"`
	} `json:"data"`
}

// LoggingPublisher stands in for Kafka when no brokers are configured. It
// rejects payloads that are not a rental envelope for eventType, so a bad
// record goes through the same retry path as a broker failure.
type LoggingPublisher struct {
	logger *slog.Logger

	mu        sync.Mutex
	delivered map[string]int
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{
		logger:    logger.With("module", "events.publisher", "layer", "adapter"),
		delivered: map[string]int{},
	}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	var env rentalEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode %s envelope: %w", eventType, err)
	}
	if env.EventType != eventType {
		return fmt.Errorf("envelope carries %q, record says %q", env.EventType, eventType)
	}

	p.mu.Lock()
	p.delivered[eventType]++
	p.mu.Unlock()

	fields := []any{
		"operation", "publish",
		"outcome", "success",
		"event_id", env.EventID,
		"event_type", eventType,
		"partition_key", partitionKey,
	}
	if env.Data.HouseID != "" {
		fields = append(fields, "house_id", env.Data.HouseID)
	}
	if env.Data.RenterID != "" {
		fields = append(fields, "renter_id", env.Data.RenterID)
	}
	if env.Data.TicketID != "" {
		fields = append(fields, "ticket_id", env.Data.TicketID)
	}
	p.logger.InfoContext(ctx, "rental event delivered", fields...)
	return nil
}

// Delivered returns how many events of eventType were published.
func (p *LoggingPublisher) Delivered(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delivered[eventType]
}
