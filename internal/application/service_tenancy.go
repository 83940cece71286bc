package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
)

// SubmitRequest queues a booking request from actor on a vacant house.
func (s *Service) SubmitRequest(ctx context.Context, actor domain.Identity, houseID string, req SubmitRequestRequest) (HouseView, error) {
	contact := actor.Contact()
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		contact.Phone = phone
	}
	booking := domain.BookingRequest{
		ID:          uuid.NewString(),
		RenterID:    actor.ID,
		Name:        contact.Name,
		Email:       contact.Email,
		Phone:       contact.Phone,
		SubmittedAt: s.nowFn(),
	}

	house, err := s.mutateHouse(ctx, "submit_request", houseID, func(h domain.House) (domain.Update, error) {
		if h.OwnerID == actor.ID {
			return domain.Update{}, domain.ErrOwnRequest
		}
		return h.SubmitRequest(booking)
	})
	if err != nil {
		return HouseView{}, err
	}
	data := houseEvent(house)
	data.RenterID = actor.ID
	data.RequestID = booking.ID
	s.enqueueEvent(ctx, EventRequestSubmitted, house.ID, data)
	return toHouseView(house), nil
}

// AcceptRequest seats the requesting renter. It fails with ErrAlreadyResident,
// leaving both houses untouched, when the renter already lives elsewhere.
func (s *Service) AcceptRequest(ctx context.Context, actor domain.Identity, houseID string, req DecideRequestRequest) (HouseView, error) {
	requestID, err := requireText("request_id", req.RequestID)
	if err != nil {
		return HouseView{}, err
	}
	house, err := s.mutateHouse(ctx, "accept_request", houseID, func(h domain.House) (domain.Update, error) {
		if !domain.CanManage(h, actor.ID) {
			return domain.Update{}, domain.ErrNotHouseOwner
		}
		upd, err := h.AcceptRequest(requestID, s.nowFn())
		if err != nil {
			return domain.Update{}, err
		}
		tenant, _ := upd.SeatedTenant()
		if err := s.ensureNotSeated(ctx, tenant.RenterID, h.ID); err != nil {
			return domain.Update{}, err
		}
		return upd, nil
	})
	if err != nil {
		return HouseView{}, err
	}
	data := houseEvent(house)
	data.RequestID = requestID
	s.enqueueEvent(ctx, EventTenancyStarted, house.ID, data)
	return toHouseView(house), nil
}

func (s *Service) DeclineRequest(ctx context.Context, actor domain.Identity, houseID string, req DecideRequestRequest) (HouseView, error) {
	requestID, err := requireText("request_id", req.RequestID)
	if err != nil {
		return HouseView{}, err
	}
	var declined domain.BookingRequest
	house, err := s.mutateHouse(ctx, "decline_request", houseID, func(h domain.House) (domain.Update, error) {
		if !domain.CanManage(h, actor.ID) {
			return domain.Update{}, domain.ErrNotHouseOwner
		}
		declined, _ = h.FindRequest(requestID)
		return h.DeclineRequest(requestID)
	})
	if err != nil {
		return HouseView{}, err
	}
	data := houseEvent(house)
	data.RenterID = declined.RenterID
	data.RequestID = requestID
	s.enqueueEvent(ctx, EventRequestDeclined, house.ID, data)
	return toHouseView(house), nil
}

// ToggleRentPaid flips the tenant's rent flag; on a vacant house it returns the
// house unchanged.
func (s *Service) ToggleRentPaid(ctx context.Context, actor domain.Identity, houseID string) (HouseView, error) {
	var changed bool
	house, err := s.mutateHouse(ctx, "toggle_rent_paid", houseID, func(h domain.House) (domain.Update, error) {
		if !domain.CanManage(h, actor.ID) {
			return domain.Update{}, domain.ErrNotHouseOwner
		}
		upd := h.ToggleRentPaid()
		changed = !upd.IsEmpty()
		return upd, nil
	})
	if err != nil {
		return HouseView{}, err
	}
	if changed {
		s.enqueueEvent(ctx, EventRentStatusChanged, house.ID, houseEvent(house))
	}
	return toHouseView(house), nil
}

func (s *Service) UpdateTenantDetails(ctx context.Context, actor domain.Identity, houseID string, req UpdateTenantDetailsRequest) (HouseView, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return HouseView{}, err
	}
	patch := domain.TenantPatch{Name: req.Name, Email: req.Email, Phone: req.Phone, StartDate: start}

	var changed bool
	house, err := s.mutateHouse(ctx, "update_tenant_details", houseID, func(h domain.House) (domain.Update, error) {
		if !domain.CanManage(h, actor.ID) {
			return domain.Update{}, domain.ErrNotHouseOwner
		}
		upd, err := h.UpdateTenantDetails(patch)
		changed = err == nil && !upd.IsEmpty()
		return upd, err
	})
	if err != nil {
		return HouseView{}, err
	}
	if changed {
		s.enqueueEvent(ctx, EventTenantUpdated, house.ID, houseEvent(house))
	}
	return toHouseView(house), nil
}

// Vacate ends the tenancy. The owner or the seated renter may call it; on a
// vacant house it only clears the request queue.
func (s *Service) Vacate(ctx context.Context, actor domain.Identity, houseID string) (HouseView, error) {
	var former *domain.Tenant
	house, err := s.mutateHouse(ctx, "vacate", houseID, func(h domain.House) (domain.Update, error) {
		if !domain.CanVacate(h, actor.ID) {
			return domain.Update{}, domain.ErrCannotVacate
		}
		former = h.CurrentTenant
		return h.Vacate(), nil
	})
	if err != nil {
		return HouseView{}, err
	}
	if former != nil {
		data := houseEvent(house)
		data.RenterID = former.RenterID
		s.enqueueEvent(ctx, EventTenancyEnded, house.ID, data)
	}
	return toHouseView(house), nil
}
