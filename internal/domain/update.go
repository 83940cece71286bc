package domain

import (
	"fmt"
	"slices"
	"time"
)

// Field names a house attribute addressable by a field-level update.
// Dotted names address a sub-field of the current tenant.
type Field string

const (
	FieldIsBooked        Field = "isBooked"
	FieldCurrentTenant   Field = "currentTenant"
	FieldRequests        Field = "requests"
	FieldTenantName      Field = "currentTenant.name"
	FieldTenantEmail     Field = "currentTenant.email"
	FieldTenantPhone     Field = "currentTenant.phone"
	FieldTenantStartDate Field = "currentTenant.startDate"
	FieldTenantRentPaid  Field = "currentTenant.isRentPaid"
)

// Update is a set of field assignments and removals applied to one house as a single write.
// A field never appears in both Set and Unset.
type Update struct {
	Set   map[Field]any
	Unset []Field
}

func NewUpdate() Update {
	return Update{Set: map[Field]any{}}
}

func (u Update) With(field Field, value any) Update {
	if u.Set == nil {
		u.Set = map[Field]any{}
	}
	u.Set[field] = value
	return u
}

func (u Update) Without(field Field) Update {
	u.Unset = append(u.Unset, field)
	return u
}

func (u Update) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Unset) == 0
}

// SeatedTenant returns the tenant this update installs, if any.
func (u Update) SeatedTenant() (Tenant, bool) {
	tenant, ok := u.Set[FieldCurrentTenant].(Tenant)
	return tenant, ok
}

// Apply mutates h in place. Stores without native field-level writes use it
// to emulate the same semantics.
func (h *House) Apply(u Update) error {
	for _, field := range u.Unset {
		switch field {
		case FieldCurrentTenant:
			h.CurrentTenant = nil
		case FieldRequests:
			h.Requests = nil
		default:
			return fmt.Errorf("%w: field %q cannot be unset", ErrInvalidInput, field)
		}
	}

	// whole-record fields first so tenant sub-fields land on the new record
	for _, field := range []Field{FieldCurrentTenant, FieldIsBooked, FieldRequests} {
		value, ok := u.Set[field]
		if !ok {
			continue
		}
		switch field {
		case FieldCurrentTenant:
			tenant, ok := value.(Tenant)
			if !ok {
				return typeMismatch(field, value)
			}
			h.CurrentTenant = &tenant
		case FieldIsBooked:
			booked, ok := value.(bool)
			if !ok {
				return typeMismatch(field, value)
			}
			h.IsBooked = booked
		case FieldRequests:
			requests, ok := value.([]BookingRequest)
			if !ok {
				return typeMismatch(field, value)
			}
			h.Requests = slices.Clone(requests)
		}
	}

	for field, value := range u.Set {
		switch field {
		case FieldCurrentTenant, FieldIsBooked, FieldRequests:
			continue
		}
		if h.CurrentTenant == nil {
			return ErrNoTenant
		}
		switch field {
		case FieldTenantName, FieldTenantEmail, FieldTenantPhone:
			s, ok := value.(string)
			if !ok {
				return typeMismatch(field, value)
			}
			switch field {
			case FieldTenantName:
				h.CurrentTenant.Name = s
			case FieldTenantEmail:
				h.CurrentTenant.Email = s
			default:
				h.CurrentTenant.Phone = s
			}
		case FieldTenantStartDate:
			at, ok := value.(time.Time)
			if !ok {
				return typeMismatch(field, value)
			}
			h.CurrentTenant.StartDate = at
		case FieldTenantRentPaid:
			paid, ok := value.(bool)
			if !ok {
				return typeMismatch(field, value)
			}
			h.CurrentTenant.IsRentPaid = paid
		default:
			return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
		}
	}
	return nil
}

func typeMismatch(field Field, value any) error {
	return fmt.Errorf("%w: field %q does not accept %T", ErrInvalidInput, field, value)
}
