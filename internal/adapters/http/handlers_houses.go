package http

import (
	"context"
	"net/http"

	"github.com/viralforge/rental-service/internal/application"
	"github.com/viralforge/rental-service/internal/domain"
)

func (h *Handler) listHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.service.ListHouses(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_houses", err)
		return
	}
	writeSuccess(w, http.StatusOK, houses)
}

func (h *Handler) getHouse(w http.ResponseWriter, r *http.Request) {
	house, err := h.service.GetHouse(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_house", err)
		return
	}
	writeSuccess(w, http.StatusOK, house)
}

func (h *Handler) createHouse(w http.ResponseWriter, r *http.Request) {
	var req application.CreateHouseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_house", err)
		return
	}
	identity, _ := identityFromContext(r.Context())
	house, err := h.service.CreateHouse(r.Context(), identity, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_house", err)
		return
	}
	writeSuccess(w, http.StatusCreated, house)
}

func (h *Handler) myHouses(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	houses, err := h.service.MyHouses(r.Context(), identity)
	if err != nil {
		writeMappedError(r.Context(), w, "my_houses", err)
		return
	}
	writeSuccess(w, http.StatusOK, houses)
}

func (h *Handler) submitRequest(w http.ResponseWriter, r *http.Request) {
	var req application.SubmitRequestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "submit_request", err)
		return
	}
	h.transition(w, r, "submit_request", func(ctx context.Context, actor domain.Identity, houseID string) (application.HouseView, error) {
		return h.service.SubmitRequest(ctx, actor, houseID, req)
	})
}

func (h *Handler) acceptRequest(w http.ResponseWriter, r *http.Request) {
	var req application.DecideRequestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "accept_request", err)
		return
	}
	h.transition(w, r, "accept_request", func(ctx context.Context, actor domain.Identity, houseID string) (application.HouseView, error) {
		return h.service.AcceptRequest(ctx, actor, houseID, req)
	})
}

func (h *Handler) declineRequest(w http.ResponseWriter, r *http.Request) {
	var req application.DecideRequestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "decline_request", err)
		return
	}
	h.transition(w, r, "decline_request", func(ctx context.Context, actor domain.Identity, houseID string) (application.HouseView, error) {
		return h.service.DeclineRequest(ctx, actor, houseID, req)
	})
}

func (h *Handler) toggleRentPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "toggle_rent_paid", h.service.ToggleRentPaid)
}

func (h *Handler) updateTenantDetails(w http.ResponseWriter, r *http.Request) {
	var req application.UpdateTenantDetailsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_tenant_details", err)
		return
	}
	h.transition(w, r, "update_tenant_details", func(ctx context.Context, actor domain.Identity, houseID string) (application.HouseView, error) {
		return h.service.UpdateTenantDetails(ctx, actor, houseID, req)
	})
}

func (h *Handler) vacate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "vacate", h.service.Vacate)
}

func (h *Handler) deleteHouse(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	res, err := h.service.DeleteHouse(r.Context(), identity, pathParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "delete_house", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

type houseTransition func(ctx context.Context, actor domain.Identity, houseID string) (application.HouseView, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, operation string, call houseTransition) {
	identity, _ := identityFromContext(r.Context())
	house, err := call(r.Context(), identity, pathParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeSuccess(w, http.StatusOK, house)
}
