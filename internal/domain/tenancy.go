package domain

import (
	"slices"
	"strings"
	"time"
)

// TenantPatch carries the optional tenant fields an owner may correct.
// Empty strings and a nil StartDate leave the stored value untouched.
type TenantPatch struct {
	Name      string
	Email     string
	Phone     string
	StartDate *time.Time
}

// SubmitRequest appends a pending request from a renter to a vacant house.
func (h House) SubmitRequest(req BookingRequest) (Update, error) {
	if h.Occupied() {
		return Update{}, ErrHouseOccupied
	}
	if h.HasRequestFrom(req.RenterID) {
		return Update{}, ErrDuplicateRequest
	}
	req.Status = RequestStatusPending
	requests := append(slices.Clone(h.Requests), req)
	return NewUpdate().With(FieldRequests, requests), nil
}

// AcceptRequest seats the requesting renter and drops every other pending request.
// The caller is responsible for the cross-house residency check.
func (h House) AcceptRequest(requestID string, now time.Time) (Update, error) {
	if h.Occupied() {
		return Update{}, ErrHouseOccupied
	}
	req, ok := h.FindRequest(requestID)
	if !ok {
		return Update{}, ErrRequestNotFound
	}
	tenant := Tenant{
		RenterID:   req.RenterID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		StartDate:  now,
		IsRentPaid: false,
	}
	return NewUpdate().
		With(FieldCurrentTenant, tenant).
		With(FieldIsBooked, true).
		With(FieldRequests, []BookingRequest{}), nil
}

func (h House) DeclineRequest(requestID string) (Update, error) {
	if _, ok := h.FindRequest(requestID); !ok {
		return Update{}, ErrRequestNotFound
	}
	remaining := slices.DeleteFunc(slices.Clone(h.Requests), func(r BookingRequest) bool {
		return r.ID == requestID
	})
	return NewUpdate().With(FieldRequests, remaining), nil
}

// ToggleRentPaid flips the rent flag. A vacant house yields an empty update.
func (h House) ToggleRentPaid() Update {
	if !h.Occupied() {
		return Update{}
	}
	return NewUpdate().With(FieldTenantRentPaid, !h.CurrentTenant.IsRentPaid)
}

func (h House) UpdateTenantDetails(patch TenantPatch) (Update, error) {
	if !h.Occupied() {
		return Update{}, ErrNoTenant
	}
	upd := Update{}
	if v := strings.TrimSpace(patch.Name); v != "" {
		upd = upd.With(FieldTenantName, v)
	}
	if v := strings.TrimSpace(patch.Email); v != "" {
		upd = upd.With(FieldTenantEmail, v)
	}
	if v := strings.TrimSpace(patch.Phone); v != "" {
		upd = upd.With(FieldTenantPhone, v)
	}
	if patch.StartDate != nil && !patch.StartDate.IsZero() {
		upd = upd.With(FieldTenantStartDate, patch.StartDate.UTC())
	}
	return upd, nil
}

// Vacate returns the house to Vacant with an empty queue. The tenant record is
// removed outright rather than nulled.
func (h House) Vacate() Update {
	return NewUpdate().
		Without(FieldCurrentTenant).
		With(FieldIsBooked, false).
		With(FieldRequests, []BookingRequest{})
}

// CanVacate reports whether callerID may end the tenancy: the owner always can,
// the seated renter can end their own tenancy.
func CanVacate(h House, callerID string) bool {
	if callerID == "" {
		return false
	}
	if h.OwnerID == callerID {
		return true
	}
	return h.CurrentTenant != nil && h.CurrentTenant.RenterID == callerID
}

// CanManage reports whether callerID may run owner-side transitions on h.
func CanManage(h House, callerID string) bool {
	return callerID != "" && h.OwnerID == callerID
}
