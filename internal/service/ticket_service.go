package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

// TicketService owns the ticket lifecycle. It publishes lifecycle events
// and consumes classification completions; it never reaches into the
// classification store directly.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID  string
	Description string
}

// TicketUpdate is the shallow partial update applied by UpdateTicket.
// Description is immutable after creation and therefore absent here.
type TicketUpdate struct {
	Status *domain.TicketStatus
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the service to classification completions.
func (s *TicketService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventClassificationCompleted, s.handleClassificationCompleted)
}

// CreateTicket stores a new OPEN ticket and announces it. The ticket is
// returned synchronously; classification happens afterward via the
// ticket_created event.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, util.NewValidationError("customer id is required", nil)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, util.NewValidationError("description is required", nil)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:               uuid.NewString(),
		CustomerID:       input.CustomerID,
		Description:      strings.TrimSpace(input.Description),
		Status:           domain.TicketStatusOpen,
		ClassificationID: nil,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Ticket: *ticket,
		},
	})
	return ticket, nil
}

// UpdateTicket merges the partial update onto the stored record and
// publishes ticket_updated with the correction context. This is the sole
// entry point for manual correction signals; whether a classification
// exists is checked by the consumer, not here.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, update TicketUpdate, changedBy string, reason domain.ClassificationChangeReason, feedback string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		ticket.Status = *update.Status
	}
	ticket.UpdatedAt = time.Now()

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Ticket: *ticket,
			Changes: events.ClassificationChange{
				ChangedBy: changedBy,
				Reason:    reason,
				Feedback:  feedback,
			},
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// OnClassificationCompleted links the finished classification to its
// ticket. A missing ticket is a silent no-op: it cannot happen under
// normal flow and must not fail the event handler chain.
func (s *TicketService) OnClassificationCompleted(ctx context.Context, classification domain.TicketClassification) error {
	ticket, err := s.tickets.GetByID(ctx, classification.TicketID)
	if util.IsNotFound(err) {
		s.logger.Debug("classification completed for unknown ticket",
			zap.String("ticket_id", classification.TicketID),
			zap.String("classification_id", classification.ID))
		return nil
	}
	if err != nil {
		return err
	}

	ticket.ClassificationID = &classification.ID
	return s.tickets.Update(ctx, ticket)
}

func (s *TicketService) handleClassificationCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ClassificationCompletedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return s.OnClassificationCompleted(ctx, payload.Classification)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
