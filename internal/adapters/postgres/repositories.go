package postgres

import (
	"github.com/viralforge/rental-service/internal/ports"
	"gorm.io/gorm"
)

// Repositories holds the relational side of the service: accounts,
// maintenance tickets and the event outbox. Houses live in the document store.
type Repositories struct {
	Users   ports.UserRepository
	Tickets ports.TicketRepository
	Outbox  ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:   &userRepository{db: db},
		Tickets: &ticketRepository{db: db},
		Outbox:  &outboxRepository{db: db},
	}
}
