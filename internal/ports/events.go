package ports

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// TransitionRecorder counts state machine outcomes by transition name.
type TransitionRecorder interface {
	RecordTransition(transition, outcome string)
}
