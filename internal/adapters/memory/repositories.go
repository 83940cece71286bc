package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

type Repositories struct {
	Houses  *HouseStore
	Users   *UserRepository
	Tickets *TicketRepository
	Outbox  *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Houses:  NewHouseStore(),
		Users:   &UserRepository{rows: map[string]domain.User{}},
		Tickets: &TicketRepository{rows: map[string]domain.Ticket{}},
		Outbox:  &OutboxRepository{},
	}
}

type UserRepository struct {
	mu   sync.Mutex
	rows map[string]domain.User
}

func (r *UserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[user.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range r.rows {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrConflict
		}
	}
	r.rows[user.ID] = user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.rows[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.rows {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(ids))
	seen := map[string]struct{}{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if user, ok := r.rows[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type TicketRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Ticket
}

func (r *TicketRepository) Create(_ context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[ticket.ID]; ok {
		return domain.ErrConflict
	}
	r.rows[ticket.ID] = ticket
	return nil
}

func (r *TicketRepository) Get(_ context.Context, id string) (domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.rows[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return ticket, nil
}

func (r *TicketRepository) ListByTenant(_ context.Context, tenantID string) ([]domain.Ticket, error) {
	return r.list(func(t domain.Ticket) bool { return t.TenantID == tenantID }), nil
}

func (r *TicketRepository) ListByHouse(_ context.Context, houseID string) ([]domain.Ticket, error) {
	return r.list(func(t domain.Ticket) bool { return t.HouseID == houseID }), nil
}

func (r *TicketRepository) UpdateStatus(_ context.Context, id string, status domain.TicketStatus, at time.Time) (domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.rows[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = at
	r.rows[id] = ticket
	return ticket, nil
}

func (r *TicketRepository) list(match func(domain.Ticket) bool) []domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0)
	for _, t := range r.rows {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type OutboxRepository struct {
	mu   sync.Mutex
	rows []ports.OutboxRecord
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	})
	return nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit, maxRetries int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutboxRecord, 0)
	for _, rec := range r.rows {
		if rec.PublishedAt != nil || (maxRetries > 0 && rec.RetryCount >= maxRetries) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].OutboxID == outboxID {
			published := at
			r.rows[i].PublishedAt = &published
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].OutboxID == outboxID {
			msg := errMsg
			r.rows[i].RetryCount++
			r.rows[i].LastError = &msg
			return nil
		}
	}
	return domain.ErrNotFound
}

// EventTypes returns the type of every enqueued event in order.
func (r *OutboxRepository) EventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, rec.EventType)
	}
	return out
}
