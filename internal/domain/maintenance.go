package domain

import (
	"fmt"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketPending    TicketStatus = "Pending"
	TicketInProgress TicketStatus = "In Progress"
	TicketResolved   TicketStatus = "Resolved"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
)

type Ticket struct {
	ID          string
	HouseID     string
	TenantID    string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return TicketPending, nil
	case "in progress", "in_progress":
		return TicketInProgress, nil
	case "resolved":
		return TicketResolved, nil
	default:
		return "", fmt.Errorf("%w: unknown ticket status %q", ErrInvalidInput, raw)
	}
}

// ParseTicketPriority defaults an empty value to Medium.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: unknown ticket priority %q", ErrInvalidInput, raw)
	}
}
