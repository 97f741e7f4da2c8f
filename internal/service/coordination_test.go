package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// Full round-trip over the real dispatcher: ticket creation triggers the
// pipeline asynchronously, the completion event links the classification
// back, and a manual correction lands in the audit history.
func TestTicketLifecycle_RoundTrip(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	ticketService := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	classificationService := NewClassificationService(ClassificationDependencies{
		ClassificationRepo: repository.NewMemoryClassificationRepository(),
		HistoryRepo:        repository.NewMemoryHistoryRepository(),
		Classifier: &stubClassifier{
			category:  domain.CategoryDeliveryIssue,
			sentiment: domain.SentimentAngry,
			priority:  domain.PriorityCritical,
		},
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	// Handler registration precedes the first ticket.
	classificationService.RegisterHandlers()
	ticketService.RegisterHandlers()

	ctx := context.Background()
	ticket, err := ticketService.CreateTicket(ctx, TicketCreateInput{
		CustomerID:  "c1",
		Description: "package lost in transit",
	})
	require.NoError(t, err)
	require.Nil(t, ticket.ClassificationID, "classification id must be nil until the completion event is processed")

	require.Eventually(t, func() bool {
		current, err := ticketService.GetTicket(ctx, ticket.ID)
		return err == nil && current.ClassificationID != nil
	}, 5*time.Second, 10*time.Millisecond, "pipeline never linked a classification")

	linked, err := ticketService.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)

	classification, err := classificationService.GetClassification(ctx, *linked.ClassificationID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, classification.TicketID)
	require.Equal(t, domain.CategoryDeliveryIssue, classification.Category)
	require.Equal(t, domain.SentimentAngry, classification.Sentiment)
	require.Equal(t, domain.PriorityCritical, classification.Priority)
	require.Equal(t, domain.ClassificationTypeAuto, classification.ClassificationType)

	history, err := classificationService.GetClassificationHistory(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	// Manual correction flows through ticket_updated synchronously.
	_, err = ticketService.UpdateTicket(ctx, ticket.ID, TicketUpdate{},
		"agent@example.com", domain.ChangeReasonIncorrectClassification, "should be ORDER_ISSUE")
	require.NoError(t, err)

	corrected, err := classificationService.GetClassification(ctx, classification.ID)
	require.NoError(t, err)
	require.Equal(t, classification.ID, corrected.ID)
	require.Equal(t, domain.ClassificationTypeManual, corrected.ClassificationType)

	history, err = classificationService.GetClassificationHistory(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.ClassificationTypeAuto, history[0].ClassificationType)
	require.Equal(t, domain.ClassificationTypeManual, history[1].ClassificationType)
}

// A ticket created before any subscriber exists dispatches to no
// listeners and stays unclassified. Startup must register handlers first.
func TestTicketLifecycle_NoSubscribersLeavesTicketUnclassified(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	ticketService := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	ctx := context.Background()
	ticket, err := ticketService.CreateTicket(ctx, TicketCreateInput{CustomerID: "c1", Description: "hello"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	current, err := ticketService.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Nil(t, current.ClassificationID)
}
