package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
)

// CreateTicket files a maintenance ticket against a house the actor owns or lives in.
func (s *Service) CreateTicket(ctx context.Context, actor domain.Identity, req CreateTicketRequest) (TicketView, error) {
	houseID, err := requireText("house_id", req.HouseID)
	if err != nil {
		return TicketView{}, err
	}
	title, err := requireText("title", req.Title)
	if err != nil {
		return TicketView{}, err
	}
	description, err := requireText("description", req.Description)
	if err != nil {
		return TicketView{}, err
	}
	priority, err := domain.ParseTicketPriority(req.Priority)
	if err != nil {
		return TicketView{}, err
	}

	house, err := s.houses.Get(ctx, houseID)
	if err != nil {
		return TicketView{}, err
	}
	if !domain.CanVacate(house, actor.ID) {
		return TicketView{}, domain.ErrTicketReadOnly
	}

	now := s.nowFn()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		HouseID:     houseID,
		TenantID:    actor.ID,
		Title:       title,
		Description: description,
		Status:      domain.TicketPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return TicketView{}, err
	}
	s.logger.InfoContext(ctx, "maintenance ticket created",
		"operation", "create_ticket",
		"outcome", "success",
		"ticket_id", ticket.ID,
		"house_id", houseID,
		"priority", string(priority),
	)
	s.enqueueEvent(ctx, EventTicketCreated, houseID, ticketEvent(ticket))
	return toTicketView(ticket), nil
}

func (s *Service) MyTickets(ctx context.Context, actor domain.Identity) ([]TicketView, error) {
	tickets, err := s.tickets.ListByTenant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketView(t))
	}
	return out, nil
}

// HouseTickets lists a house's tickets for its owner, joined with the filer's contact.
func (s *Service) HouseTickets(ctx context.Context, actor domain.Identity, houseID string) ([]TicketView, error) {
	house, err := s.houses.Get(ctx, strings.TrimSpace(houseID))
	if err != nil {
		return nil, err
	}
	if !domain.CanManage(house, actor.ID) {
		return nil, domain.ErrNotHouseOwner
	}
	tickets, err := s.tickets.ListByHouse(ctx, house.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.TenantID)
	}
	filers := map[string]UserView{}
	if len(ids) > 0 {
		users, err := s.users.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			filers[u.ID] = toUserView(u)
		}
	}

	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		view := toTicketView(t)
		if u, ok := filers[t.TenantID]; ok {
			u := u
			view.Tenant = &u
		}
		out = append(out, view)
	}
	return out, nil
}

// UpdateTicketStatus lets the filer or the house owner move a ticket between states.
func (s *Service) UpdateTicketStatus(ctx context.Context, actor domain.Identity, ticketID string, req UpdateTicketStatusRequest) (TicketView, error) {
	status, err := domain.ParseTicketStatus(req.Status)
	if err != nil {
		return TicketView{}, err
	}
	ticket, err := s.tickets.Get(ctx, strings.TrimSpace(ticketID))
	if err != nil {
		return TicketView{}, err
	}
	if ticket.TenantID != actor.ID {
		house, err := s.houses.Get(ctx, ticket.HouseID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return TicketView{}, domain.ErrTicketReadOnly
		case err != nil:
			return TicketView{}, err
		case !domain.CanManage(house, actor.ID):
			return TicketView{}, domain.ErrTicketReadOnly
		}
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticket.ID, status, s.nowFn())
	if err != nil {
		return TicketView{}, err
	}
	s.enqueueEvent(ctx, EventTicketUpdated, updated.HouseID, ticketEvent(updated))
	return toTicketView(updated), nil
}

func ticketEvent(t domain.Ticket) ticketEventData {
	return ticketEventData{
		TicketID: t.ID,
		HouseID:  t.HouseID,
		TenantID: t.TenantID,
		Status:   string(t.Status),
		Priority: string(t.Priority),
	}
}
