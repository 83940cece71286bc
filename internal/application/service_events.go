package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

const (
	EventHouseCreated      = "rental.house_created"
	EventHouseDeleted      = "rental.house_deleted"
	EventRequestSubmitted  = "rental.request_submitted"
	EventRequestDeclined   = "rental.request_declined"
	EventTenancyStarted    = "rental.tenancy_started"
	EventTenancyEnded      = "rental.tenancy_ended"
	EventTenantUpdated     = "rental.tenant_updated"
	EventRentStatusChanged = "rental.rent_status_changed"
	EventTicketCreated     = "rental.ticket_created"
	EventTicketUpdated     = "rental.ticket_updated"
)

// EventTypes lists every event the service emits, for topic provisioning.
var EventTypes = []string{
	EventHouseCreated, EventHouseDeleted, EventRequestSubmitted, EventRequestDeclined,
	EventTenancyStarted, EventTenancyEnded, EventTenantUpdated, EventRentStatusChanged,
	EventTicketCreated, EventTicketUpdated,
}

type houseEventData struct {
	HouseID    string `json:"house_id"`
	OwnerID    string `json:"owner_id"`
	RenterID   string `json:"renter_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	IsBooked   bool   `json:"is_booked"`
	IsRentPaid *bool  `json:"is_rent_paid,omitempty"`
	Version    int64  `json:"version"`
}

type ticketEventData struct {
	TicketID string `json:"ticket_id"`
	HouseID  string `json:"house_id"`
	TenantID string `json:"tenant_id"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

func houseEvent(h domain.House) houseEventData {
	data := houseEventData{HouseID: h.ID, OwnerID: h.OwnerID, IsBooked: h.IsBooked, Version: h.Version}
	if h.CurrentTenant != nil {
		data.RenterID = h.CurrentTenant.RenterID
		paid := h.CurrentTenant.IsRentPaid
		data.IsRentPaid = &paid
	}
	return data
}

// enqueueEvent records a domain event after the state change has been written.
// A failed enqueue is logged and does not undo the committed change.
func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, data any) {
	if s.outbox == nil {
		return
	}
	occurredAt := s.nowFn()
	eventID := uuid.New()
	payload, err := json.Marshal(map[string]any{
		"event_id":           eventID.String(),
		"event_type":         eventType,
		"occurred_at":        occurredAt.Format(time.RFC3339),
		"source_service":     s.cfg.ServiceName,
		"schema_version":     "1.0",
		"partition_key_path": "data.house_id",
		"partition_key":      partitionKey,
		"data":               data,
	})
	if err == nil {
		err = s.outbox.Enqueue(ctx, ports.OutboxEvent{
			EventID:          eventID,
			EventType:        eventType,
			PartitionKey:     partitionKey,
			PartitionKeyPath: "data.house_id",
			Payload:          payload,
			OccurredAt:       occurredAt,
			SchemaVersion:    "1.0",
		})
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to enqueue domain event",
			"operation", "enqueue_event",
			"outcome", "failure",
			"event_type", eventType,
			"partition_key", partitionKey,
			"error", err,
		)
	}
}
