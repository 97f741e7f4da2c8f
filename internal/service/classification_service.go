package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/classifier"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

// ClassificationService owns classification records and their append-only
// history. It reacts to ticket lifecycle events and reports completion
// back through the dispatcher; it never touches the ticket store.
type ClassificationService struct {
	classifications repository.ClassificationRepository
	history         repository.HistoryRepository
	classifier      classifier.Classifier
	dispatcher      events.Dispatcher
	logger          *zap.Logger
}

// ClassificationDependencies bundles collaborators for the service.
type ClassificationDependencies struct {
	ClassificationRepo repository.ClassificationRepository
	HistoryRepo        repository.HistoryRepository
	Classifier         classifier.Classifier
	Dispatcher         events.Dispatcher
	Logger             *zap.Logger
}

// NewClassificationService constructs the service.
func NewClassificationService(deps ClassificationDependencies) *ClassificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassificationService{
		classifications: deps.ClassificationRepo,
		history:         deps.HistoryRepo,
		classifier:      deps.Classifier,
		dispatcher:      deps.Dispatcher,
		logger:          logger,
	}
}

// RegisterHandlers subscribes the service to ticket lifecycle events.
func (s *ClassificationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	s.dispatcher.Subscribe(events.EventTicketUpdated, s.handleTicketUpdated)
}

// OnTicketCreated runs the classification pipeline for a fresh ticket.
// Category and sentiment depend only on the description and run
// concurrently; priority needs both resolved results and runs after the
// join. The classifier never fails, so the pipeline always yields a
// complete AUTO record, one history entry and a completion event.
func (s *ClassificationService) OnTicketCreated(ctx context.Context, ticket domain.Ticket) (*domain.TicketClassification, error) {
	var (
		category  domain.ClassificationCategory
		sentiment domain.ClassificationSentiment
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		category = s.classifier.ClassifyCategory(ctx, ticket.Description)
	}()
	go func() {
		defer wg.Done()
		sentiment = s.classifier.ClassifySentiment(ctx, ticket.Description)
	}()
	wg.Wait()

	priority := s.classifier.ClassifyPriority(ctx, ticket.Description, sentiment, category)

	now := time.Now()
	classification := &domain.TicketClassification{
		ID:                 uuid.NewString(),
		TicketID:           ticket.ID,
		Category:           category,
		Sentiment:          sentiment,
		Priority:           priority,
		ClassificationType: domain.ClassificationTypeAuto,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.classifications.Save(ctx, classification); err != nil {
		return nil, err
	}
	if err := s.recordHistory(ctx, classification, domain.ClassificationTypeAuto, nil, nil, nil); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventClassificationCompleted,
		TicketID: ticket.ID,
		Payload: events.ClassificationCompletedPayload{
			Classification: *classification,
		},
	})
	return classification, nil
}

// OnTicketUpdated applies a manual correction to the ticket's current
// classification. The record keeps its id, switches to MANUAL and gets a
// fresh UpdatedAt; the change is recorded as one history entry. The
// classifier is not re-run. A ticket without a current classification is
// a benign no-op returning nil.
func (s *ClassificationService) OnTicketUpdated(ctx context.Context, ticket domain.Ticket, changedBy string, reason domain.ClassificationChangeReason, feedback string) (*domain.TicketClassification, error) {
	if ticket.ClassificationID == nil {
		return nil, nil
	}

	classification, err := s.classifications.GetByID(ctx, *ticket.ClassificationID)
	if util.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	classification.ClassificationType = domain.ClassificationTypeManual
	classification.UpdatedAt = time.Now()
	if err := s.classifications.Save(ctx, classification); err != nil {
		return nil, err
	}
	if err := s.recordHistory(ctx, classification, domain.ClassificationTypeManual, &changedBy, &reason, &feedback); err != nil {
		return nil, err
	}
	return classification, nil
}

// GetClassification fetches a classification by id.
func (s *ClassificationService) GetClassification(ctx context.Context, id string) (*domain.TicketClassification, error) {
	return s.classifications.GetByID(ctx, id)
}

// GetClassificationHistory returns the audit entries for a ticket in
// chronological order. Every call performs a fresh read.
func (s *ClassificationService) GetClassificationHistory(ctx context.Context, ticketID string) ([]domain.TicketClassificationHistory, error) {
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *ClassificationService) recordHistory(ctx context.Context, classification *domain.TicketClassification, classificationType domain.ClassificationType, changedBy *string, reason *domain.ClassificationChangeReason, feedback *string) error {
	entry := &domain.TicketClassificationHistory{
		ID:                 uuid.NewString(),
		TicketID:           classification.TicketID,
		ClassificationID:   classification.ID,
		ClassificationType: classificationType,
		ChangedBy:          changedBy,
		Reason:             reason,
		Feedback:           feedback,
		Timestamp:          time.Now(),
	}
	return s.history.Append(ctx, entry)
}

func (s *ClassificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	// The publisher must not wait on classifier calls; the pipeline
	// reports back through the classification_completed event.
	go func() {
		if _, err := s.OnTicketCreated(context.WithoutCancel(ctx), payload.Ticket); err != nil {
			s.logger.Error("classification pipeline failed",
				zap.String("ticket_id", payload.Ticket.ID),
				zap.Error(err))
		}
	}()
	return nil
}

func (s *ClassificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketUpdatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	_, err := s.OnTicketUpdated(ctx, payload.Ticket, payload.Changes.ChangedBy, payload.Changes.Reason, payload.Changes.Feedback)
	return err
}

func (s *ClassificationService) publishEvent(ctx context.Context, event events.Event) {
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
