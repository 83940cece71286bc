package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/viralforge/rental-service/internal/domain"
)

// transition computes the field-level update for one house from its current state.
type transition func(house domain.House) (domain.Update, error)

// mutateHouse runs fn against a fresh read and writes the result guarded by the
// version it read. A lost race re-reads and re-evaluates fn, so every
// precondition is checked against the state the write actually lands on.
func (s *Service) mutateHouse(ctx context.Context, operation, houseID string, fn transition) (domain.House, error) {
	houseID = strings.TrimSpace(houseID)
	if houseID == "" {
		return domain.House{}, fmt.Errorf("%w: house id is required", domain.ErrInvalidInput)
	}

	for attempt := 1; attempt <= s.cfg.MaxWriteAttempts; attempt++ {
		house, err := s.houses.Get(ctx, houseID)
		if err != nil {
			return domain.House{}, s.rejected(ctx, operation, houseID, err)
		}
		upd, err := fn(house)
		if err != nil {
			return domain.House{}, s.rejected(ctx, operation, houseID, err)
		}
		if upd.IsEmpty() {
			s.transitions.RecordTransition(operation, "noop")
			return house, nil
		}

		updated, err := s.houses.UpdateFields(ctx, houseID, house.Version, upd)
		if errors.Is(err, domain.ErrStaleWrite) {
			s.logger.DebugContext(ctx, "house write lost race, retrying",
				"operation", operation,
				"house_id", houseID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return domain.House{}, s.rejected(ctx, operation, houseID, err)
		}

		s.transitions.RecordTransition(operation, "success")
		s.logger.InfoContext(ctx, "house transition applied",
			"operation", operation,
			"outcome", "success",
			"house_id", houseID,
			"version", updated.Version,
		)
		return updated, nil
	}
	return domain.House{}, s.rejected(ctx, operation, houseID,
		fmt.Errorf("%w: house %s kept changing, retry later", domain.ErrConflict, houseID))
}

func (s *Service) rejected(ctx context.Context, operation, houseID string, err error) error {
	outcome := "rejected"
	logFn := s.logger.WarnContext
	if !isDomainError(err) {
		outcome = "failure"
		logFn = s.logger.ErrorContext
	}
	s.transitions.RecordTransition(operation, outcome)
	logFn(ctx, "house transition not applied",
		"operation", operation,
		"outcome", outcome,
		"house_id", houseID,
		"error", err,
	)
	return err
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrForbidden,
		domain.ErrUnauthorized, domain.ErrInvalidInput,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	return trimmed, nil
}

// parseDate accepts RFC 3339 timestamps or plain calendar dates.
func parseDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if at, err := time.Parse(layout, trimmed); err == nil {
			at = at.UTC()
			return &at, nil
		}
	}
	return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD or RFC 3339", domain.ErrInvalidInput)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func toHouseView(h domain.House) HouseView {
	view := HouseView{
		ID:           h.ID,
		OwnerID:      h.OwnerID,
		Title:        h.Title,
		Location:     h.Location,
		Rent:         h.Rent,
		Images:       nonNil(h.Images),
		PropertyType: h.PropertyType,
		Furnishing:   h.Furnishing,
		Amenities:    nonNil(h.Amenities),
		IsBooked:     h.IsBooked,
		Requests:     make([]BookingRequestView, 0, len(h.Requests)),
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
	if t := h.CurrentTenant; t != nil {
		view.CurrentTenant = &TenantView{
			RenterID:   t.RenterID,
			Name:       t.Name,
			Email:      t.Email,
			Phone:      t.Phone,
			StartDate:  t.StartDate,
			IsRentPaid: t.IsRentPaid,
		}
	}
	for _, r := range h.Requests {
		view.Requests = append(view.Requests, BookingRequestView{
			ID:          r.ID,
			RenterID:    r.RenterID,
			Name:        r.Name,
			Email:       r.Email,
			Phone:       r.Phone,
			SubmittedAt: r.SubmittedAt,
			Status:      r.Status,
		})
	}
	return view
}

func toUserView(u domain.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

func toTicketView(t domain.Ticket) TicketView {
	return TicketView{
		ID:          t.ID,
		HouseID:     t.HouseID,
		TenantID:    t.TenantID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
