package events

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketUpdated           EventType = "ticket_updated"
	EventClassificationCompleted EventType = "classification_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket domain.Ticket `json:"ticket"`
}

// ClassificationChange carries the manual-correction context attached to
// a ticket update.
type ClassificationChange struct {
	ChangedBy string                            `json:"changed_by"`
	Reason    domain.ClassificationChangeReason `json:"reason"`
	Feedback  string                            `json:"feedback"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Ticket  domain.Ticket        `json:"ticket"`
	Changes ClassificationChange `json:"changes"`
}

// ClassificationCompletedPayload payload.
type ClassificationCompletedPayload struct {
	Classification domain.TicketClassification `json:"ticket_classification"`
}
