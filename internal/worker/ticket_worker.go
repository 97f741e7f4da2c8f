package worker

import (
	"github.com/spec-kit/ticket-triage/internal/service"
)

// StartTicketWorker subscribes the ticket service to classification
// completions so finished classifications get linked back to tickets.
func StartTicketWorker(ticketService *service.TicketService) {
	if ticketService == nil {
		return
	}
	ticketService.RegisterHandlers()
}
