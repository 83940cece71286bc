package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Phone        string    `gorm:"column:phone"`
	Role         string    `gorm:"column:role"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type ticketModel struct {
	TicketID    string    `gorm:"column:ticket_id;primaryKey"`
	HouseID     string    `gorm:"column:house_id;index"`
	TenantID    string    `gorm:"column:tenant_id;index"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	Priority    string    `gorm:"column:priority"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (ticketModel) TableName() string { return "maintenance_tickets" }

type outboxModel struct {
	OutboxID         uuid.UUID  `gorm:"column:outbox_id;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	FirstSeenAt      time.Time  `gorm:"column:first_seen_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "rental_outbox" }

// Models lists every table model, for schema bootstrap on engines without the
// SQL migrations.
func Models() []any {
	return []any{&userModel{}, &ticketModel{}, &outboxModel{}}
}
