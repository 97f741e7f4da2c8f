package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket is the aggregate for customer support requests. Description is
// immutable after creation; ClassificationID stays nil until the
// classification pipeline reports completion for this ticket.
type Ticket struct {
	ID               string
	CustomerID       string
	Description      string
	Status           TicketStatus
	ClassificationID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
