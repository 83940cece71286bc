package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/adapters/events"
	"github.com/viralforge/rental-service/internal/adapters/memory"
	"github.com/viralforge/rental-service/internal/ports"
)

type flakyPublisher struct {
	failFor map[string]bool
	sent    []string
}

func (p *flakyPublisher) Publish(_ context.Context, eventType string, _ []byte, partitionKey string) error {
	if p.failFor[partitionKey] {
		return errors.New("broker unavailable")
	}
	p.sent = append(p.sent, eventType+":"+partitionKey)
	return nil
}

func enqueue(t *testing.T, outbox ports.OutboxRepository, eventType, key string) {
	t.Helper()
	err := outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: key,
		Payload:      []byte(`{}`),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestOutboxWorkerPublishesAndRetries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	outbox := memory.NewRepositories().Outbox
	enqueue(t, outbox, "rental.house_created", "h1")
	enqueue(t, outbox, "rental.tenancy_started", "h2")

	pub := &flakyPublisher{failFor: map[string]bool{"h2": true}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	worker := events.NewOutboxWorker(logger, outbox, pub, time.Second, 10, events.WithMaxRetries(2))

	n, err := worker.ProcessOnce(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected one published record, got %d %v", n, err)
	}
	if len(pub.sent) != 1 || pub.sent[0] != "rental.house_created:h1" {
		t.Fatalf("unexpected publish order: %v", pub.sent)
	}

	pending, _ := outbox.FetchUnpublished(ctx, 10, 0)
	if len(pending) != 1 || pending[0].RetryCount != 1 {
		t.Fatalf("expected failed record to stay pending with one retry, got %+v", pending)
	}

	_, _ = worker.ProcessOnce(ctx)
	pub.failFor = nil
	n, err = worker.ProcessOnce(ctx)
	if err != nil || n != 0 {
		t.Fatalf("expected record past retry budget to be skipped, got %d %v", n, err)
	}
}

func TestOutboxWorkerDeliversPastExhaustedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	outbox := memory.NewRepositories().Outbox
	enqueue(t, outbox, "rental.tenancy_started", "dead")

	pub := &flakyPublisher{failFor: map[string]bool{"dead": true}}
	worker := events.NewOutboxWorker(slog.New(slog.NewJSONHandler(io.Discard, nil)), outbox, pub, time.Second, 1, events.WithMaxRetries(1))
	if _, err := worker.ProcessOnce(ctx); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	enqueue(t, outbox, "rental.house_created", "live")
	for i := 0; i < 3; i++ {
		if _, err := worker.ProcessOnce(ctx); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	if len(pub.sent) != 1 || pub.sent[0] != "rental.house_created:live" {
		t.Fatalf("expected the newer event to be delivered, got %v", pub.sent)
	}

	all, _ := outbox.FetchUnpublished(ctx, 10, 0)
	if len(all) != 1 || all[0].PartitionKey != "dead" || all[0].RetryCount != 1 {
		t.Fatalf("expected exhausted record to stay undelivered, got %+v", all)
	}
}

func TestOutboxWorkerRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	outbox := memory.NewRepositories().Outbox
	enqueue(t, outbox, "rental.house_deleted", "h9")
	pub := &flakyPublisher{}
	worker := events.NewOutboxWorker(slog.New(slog.NewJSONHandler(io.Discard, nil)), outbox, pub, 10*time.Millisecond, 10)

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("worker did not stop")
	}
	if len(pub.sent) != 1 {
		t.Fatalf("expected event delivered once, got %v", pub.sent)
	}
}

func TestLoggingPublisherChecksEnvelope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pub := events.NewLoggingPublisher(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	good := []byte(`{"event_id":"e1","event_type":"rental.tenancy_started","data":{"house_id":"h1","renter_id":"r1"}}`)
	if err := pub.Publish(ctx, "rental.tenancy_started", good, "h1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Publish(ctx, "rental.tenancy_ended", good, "h1"); err == nil {
		t.Fatalf("expected mismatched event type to be rejected")
	}
	if err := pub.Publish(ctx, "rental.tenancy_started", []byte(`{}`), "h1"); err == nil {
		t.Fatalf("expected empty envelope to be rejected")
	}
	if err := pub.Publish(ctx, "rental.tenancy_started", []byte(`not json`), "h1"); err == nil {
		t.Fatalf("expected malformed payload to be rejected")
	}
	if got := pub.Delivered("rental.tenancy_started"); got != 1 {
		t.Fatalf("expected one delivery, got %d", got)
	}
}
