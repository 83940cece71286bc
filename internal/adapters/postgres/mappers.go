package postgres

import (
	"github.com/viralforge/rental-service/internal/domain"
)

func toDomainUser(m userModel) domain.User {
	return domain.User{
		ID:           m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func toDomainTicket(m ticketModel) domain.Ticket {
	return domain.Ticket{
		ID:          m.TicketID,
		HouseID:     m.HouseID,
		TenantID:    m.TenantID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TicketStatus(m.Status),
		Priority:    domain.TicketPriority(m.Priority),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
