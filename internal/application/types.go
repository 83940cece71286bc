package application

import (
	"time"
)

type Config struct {
	ServiceName      string
	TokenTTL         time.Duration
	OwnerCacheTTL    time.Duration
	MaxWriteAttempts int
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserView `json:"user"`
}

// TenantSeed seeds an occupant at listing time. RenterID is empty for an
// occupant without an account.
type TenantSeed struct {
	RenterID  string `json:"renter_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StartDate string `json:"start_date"`
}

type CreateHouseRequest struct {
	Title        string      `json:"title"`
	Location     string      `json:"location"`
	Rent         float64     `json:"rent"`
	Images       []string    `json:"images"`
	PropertyType string      `json:"property_type"`
	Furnishing   string      `json:"furnishing"`
	Amenities    []string    `json:"amenities"`
	IsBooked     bool        `json:"is_booked"`
	Tenant       *TenantSeed `json:"tenant,omitempty"`
}

// SubmitRequestRequest lets a renter override the phone number on file.
type SubmitRequestRequest struct {
	Phone string `json:"phone"`
}

type DecideRequestRequest struct {
	RequestID string `json:"request_id"`
}

type UpdateTenantDetailsRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StartDate string `json:"start_date"`
}

type OwnerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TenantView struct {
	RenterID   string    `json:"renter_id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	StartDate  time.Time `json:"start_date"`
	IsRentPaid bool      `json:"is_rent_paid"`
}

type BookingRequestView struct {
	ID          string    `json:"id"`
	RenterID    string    `json:"renter_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	SubmittedAt time.Time `json:"submitted_at"`
	Status      string    `json:"status"`
}

type HouseView struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"owner_id"`
	Owner         *OwnerView           `json:"owner,omitempty"`
	Title         string               `json:"title"`
	Location      string               `json:"location"`
	Rent          float64              `json:"rent"`
	Images        []string             `json:"images"`
	PropertyType  string               `json:"property_type"`
	Furnishing    string               `json:"furnishing"`
	Amenities     []string             `json:"amenities"`
	IsBooked      bool                 `json:"is_booked"`
	CurrentTenant *TenantView          `json:"current_tenant,omitempty"`
	Requests      []BookingRequestView `json:"requests"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type DeleteHouseResponse struct {
	ID string `json:"id"`
}

type ResidencyResponse struct {
	RenterID string    `json:"renter_id"`
	House    HouseView `json:"house"`
}

type CreateTicketRequest struct {
	HouseID     string `json:"house_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

type TicketView struct {
	ID          string    `json:"id"`
	HouseID     string    `json:"house_id"`
	TenantID    string    `json:"tenant_id"`
	Tenant      *UserView `json:"tenant,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
