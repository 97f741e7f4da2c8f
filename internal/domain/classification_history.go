package domain

import "time"

// ClassificationChangeReason explains a manual correction.
type ClassificationChangeReason string

const (
	ChangeReasonIncorrectClassification ClassificationChangeReason = "INCORRECT_CLASSIFICATION"
)

// TicketClassificationHistory is an immutable audit entry recording one
// classification creation or correction. ChangedBy, Reason and Feedback
// are set for MANUAL entries only.
type TicketClassificationHistory struct {
	ID                 string
	TicketID           string
	ClassificationID   string
	ClassificationType ClassificationType
	ChangedBy          *string
	Reason             *ClassificationChangeReason
	Feedback           *string
	Timestamp          time.Time
}
