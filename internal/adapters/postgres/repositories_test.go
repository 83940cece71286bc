package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func newUser(email string) domain.User {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.User{
		ID:           uuid.NewString(),
		Name:         "Asha",
		Email:        email,
		Role:         domain.RoleOwner,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(setupDB(t))

	user := newUser("Asha@Example.com")
	require.NoError(t, repos.Users.Create(ctx, user))

	got, err := repos.Users.GetByEmail(ctx, " asha@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "asha@example.com", got.Email)

	err = repos.Users.Create(ctx, newUser("asha@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = repos.Users.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	listed, err := repos.Users.ListByIDs(ctx, []string{user.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTicketRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(setupDB(t))

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := domain.Ticket{
		ID: uuid.NewString(), HouseID: "house-1", TenantID: "tenant-1",
		Title: "Leak", Description: "Kitchen tap", Status: domain.TicketPending,
		Priority: domain.PriorityHigh, CreatedAt: base, UpdatedAt: base,
	}
	newer := older
	newer.ID = uuid.NewString()
	newer.Title = "Fan"
	newer.CreatedAt = base.Add(time.Hour)
	require.NoError(t, repos.Tickets.Create(ctx, older))
	require.NoError(t, repos.Tickets.Create(ctx, newer))

	byHouse, err := repos.Tickets.ListByHouse(ctx, "house-1")
	require.NoError(t, err)
	require.Len(t, byHouse, 2)
	assert.Equal(t, newer.ID, byHouse[0].ID)

	updated, err := repos.Tickets.UpdateStatus(ctx, older.ID, domain.TicketInProgress, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.TicketInProgress, updated.Status)

	_, err = repos.Tickets.UpdateStatus(ctx, uuid.NewString(), domain.TicketResolved, base)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	byTenant, err := repos.Tickets.ListByTenant(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, byTenant)
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(setupDB(t))

	first := ports.OutboxEvent{
		EventID: uuid.New(), EventType: "rental.house_created", PartitionKey: "h1",
		Payload: []byte(`{"a":1}`), OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	second := first
	second.EventID = uuid.New()
	second.OccurredAt = first.OccurredAt.Add(time.Minute)
	require.NoError(t, repos.Outbox.Enqueue(ctx, first))
	require.NoError(t, repos.Outbox.Enqueue(ctx, second))

	pending, err := repos.Outbox.FetchUnpublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.EventID, pending[0].OutboxID)
	assert.JSONEq(t, `{"a":1}`, string(pending[0].Payload))

	require.NoError(t, repos.Outbox.MarkFailed(ctx, first.EventID, "broker down", time.Now()))
	require.NoError(t, repos.Outbox.MarkPublished(ctx, second.EventID, time.Now()))

	pending, err = repos.Outbox.FetchUnpublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "broker down", *pending[0].LastError)

	exhausted, err := repos.Outbox.FetchUnpublished(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, exhausted, "records at the retry ceiling must not be fetched")
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_outbox.sql"}, names)
}
