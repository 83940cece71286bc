package http

import (
	"net/http"

	"github.com/viralforge/rental-service/internal/application"
)

func (h *Handler) createTicket(w http.ResponseWriter, r *http.Request) {
	var req application.CreateTicketRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_ticket", err)
		return
	}
	identity, _ := identityFromContext(r.Context())
	ticket, err := h.service.CreateTicket(r.Context(), identity, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_ticket", err)
		return
	}
	writeSuccess(w, http.StatusCreated, ticket)
}

func (h *Handler) myTickets(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	tickets, err := h.service.MyTickets(r.Context(), identity)
	if err != nil {
		writeMappedError(r.Context(), w, "my_tickets", err)
		return
	}
	writeSuccess(w, http.StatusOK, tickets)
}

func (h *Handler) houseTickets(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	tickets, err := h.service.HouseTickets(r.Context(), identity, pathParam(r, "houseId"))
	if err != nil {
		writeMappedError(r.Context(), w, "house_tickets", err)
		return
	}
	writeSuccess(w, http.StatusOK, tickets)
}

func (h *Handler) updateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateTicketStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_ticket_status", err)
		return
	}
	identity, _ := identityFromContext(r.Context())
	ticket, err := h.service.UpdateTicketStatus(r.Context(), identity, pathParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_ticket_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, ticket)
}
