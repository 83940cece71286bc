package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
)

// HouseFilter narrows FindMatching. Zero-valued fields do not constrain the result.
type HouseFilter struct {
	// Text matches title or location as a case-insensitive substring.
	Text           string
	OwnerID        string
	TenantRenterID string
}

// HouseStore is the listing store. Implementations must:
//   - assign ID, Version=1 and timestamps on Create;
//   - apply UpdateFields only when the stored version equals expectedVersion,
//     returning domain.ErrStaleWrite otherwise and bumping the version on success;
//   - reject with domain.ErrAlreadyResident any Create or UpdateFields that would seat
//     a renter already seated in another house.
type HouseStore interface {
	Get(ctx context.Context, id string) (domain.House, error)
	Create(ctx context.Context, house domain.House) (domain.House, error)
	FindMatching(ctx context.Context, filter HouseFilter) ([]domain.House, error)
	UpdateFields(ctx context.Context, id string, expectedVersion int64, update domain.Update) (domain.House, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	Get(ctx context.Context, id string) (domain.Ticket, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Ticket, error)
	ListByHouse(ctx context.Context, houseID string) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, at time.Time) (domain.Ticket, error)
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	// FetchUnpublished returns the oldest undelivered records whose retry count is
	// below maxRetries. A maxRetries of zero or less disables the ceiling.
	FetchUnpublished(ctx context.Context, limit, maxRetries int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}
