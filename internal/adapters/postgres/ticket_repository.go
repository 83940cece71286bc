package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viralforge/rental-service/internal/domain"
	"gorm.io/gorm"
)

type ticketRepository struct {
	db *gorm.DB
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	row := ticketModel{
		TicketID:    ticket.ID,
		HouseID:     ticket.HouseID,
		TenantID:    ticket.TenantID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ticketRepository) Get(ctx context.Context, id string) (domain.Ticket, error) {
	var row ticketModel
	err := r.db.WithContext(ctx).Where("ticket_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	if err != nil {
		return domain.Ticket{}, err
	}
	return toDomainTicket(row), nil
}

func (r *ticketRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Ticket, error) {
	return r.list(ctx, "tenant_id = ?", tenantID)
}

func (r *ticketRepository) ListByHouse(ctx context.Context, houseID string) ([]domain.Ticket, error) {
	return r.list(ctx, "house_id = ?", houseID)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, at time.Time) (domain.Ticket, error) {
	res := r.db.WithContext(ctx).
		Model(&ticketModel{}).
		Where("ticket_id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": at,
		})
	if res.Error != nil {
		return domain.Ticket{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return r.Get(ctx, id)
}

func (r *ticketRepository) list(ctx context.Context, where string, arg string) ([]domain.Ticket, error) {
	var rows []ticketModel
	if err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTicket(row))
	}
	return out, nil
}
