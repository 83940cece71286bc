package domain

import (
	"slices"
	"time"
)

const (
	DefaultPropertyType = "Apartment"
	DefaultFurnishing   = "Unfurnished"

	RequestStatusPending = "pending"
)

// House is the aggregate root for one listing and its occupancy.
// IsBooked mirrors CurrentTenant != nil in every persisted state.
type House struct {
	ID            string
	OwnerID       string
	Title         string
	Location      string
	Rent          float64
	Images        []string
	PropertyType  string
	Furnishing    string
	Amenities     []string
	IsBooked      bool
	CurrentTenant *Tenant
	Requests      []BookingRequest
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Tenant struct {
	RenterID   string
	Name       string
	Email      string
	Phone      string
	StartDate  time.Time
	IsRentPaid bool
}

type BookingRequest struct {
	ID          string
	RenterID    string
	Name        string
	Email       string
	Phone       string
	SubmittedAt time.Time
	Status      string
}

// Contact is the snapshot a renter hands over with a request.
type Contact struct {
	Name  string
	Email string
	Phone string
}

func (h House) Occupied() bool {
	return h.CurrentTenant != nil
}

// Consistent reports whether IsBooked agrees with the tenant record.
func (h House) Consistent() bool {
	return h.IsBooked == (h.CurrentTenant != nil)
}

func (h House) HasRequestFrom(renterID string) bool {
	return slices.ContainsFunc(h.Requests, func(r BookingRequest) bool {
		return r.RenterID == renterID
	})
}

func (h House) FindRequest(requestID string) (BookingRequest, bool) {
	idx := slices.IndexFunc(h.Requests, func(r BookingRequest) bool {
		return r.ID == requestID
	})
	if idx < 0 {
		return BookingRequest{}, false
	}
	return h.Requests[idx], true
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (h House) Clone() House {
	out := h
	out.Images = slices.Clone(h.Images)
	out.Amenities = slices.Clone(h.Amenities)
	out.Requests = slices.Clone(h.Requests)
	if h.CurrentTenant != nil {
		tenant := *h.CurrentTenant
		out.CurrentTenant = &tenant
	}
	return out
}
