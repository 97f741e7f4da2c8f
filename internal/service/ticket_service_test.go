package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

func newTicketService(dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
}

// captureEvents subscribes a recording handler for the given event type.
func captureEvents(d events.Dispatcher, eventType events.EventType) *[]events.Event {
	var captured []events.Event
	d.Subscribe(eventType, func(_ context.Context, event events.Event) error {
		captured = append(captured, event)
		return nil
	})
	return &captured
}

func TestCreateTicket_Defaults(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	captured := captureEvents(dispatcher, events.EventTicketCreated)
	svc := newTicketService(dispatcher)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CustomerID:  "c1",
		Description: "my order is late",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ticket.ID)
	require.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.Nil(t, ticket.ClassificationID, "ticket must be unclassified right after creation")
	require.False(t, ticket.CreatedAt.IsZero())
	require.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)

	require.Len(t, *captured, 1)
	payload, ok := (*captured)[0].Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	require.Equal(t, ticket.ID, payload.Ticket.ID)
}

func TestCreateTicket_RequiresCustomerAndDescription(t *testing.T) {
	svc := newTicketService(events.NewInMemoryDispatcher(zap.NewNop()))
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, TicketCreateInput{Description: "no customer"})
	require.Error(t, err)

	_, err = svc.CreateTicket(ctx, TicketCreateInput{CustomerID: "c1", Description: "  "})
	require.Error(t, err)
}

func TestUpdateTicket_UnknownIDIsNotFound(t *testing.T) {
	svc := newTicketService(events.NewInMemoryDispatcher(zap.NewNop()))

	_, err := svc.UpdateTicket(context.Background(), "missing", TicketUpdate{}, "agent", domain.ChangeReasonIncorrectClassification, "nope")
	require.Error(t, err)
	require.True(t, util.IsNotFound(err))
}

func TestUpdateTicket_PublishesCorrectionContext(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	captured := captureEvents(dispatcher, events.EventTicketUpdated)
	svc := newTicketService(dispatcher)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, TicketCreateInput{CustomerID: "c1", Description: "slow delivery"})
	require.NoError(t, err)

	inProgress := domain.TicketStatusInProgress
	updated, err := svc.UpdateTicket(ctx, ticket.ID, TicketUpdate{Status: &inProgress},
		"agent@example.com", domain.ChangeReasonIncorrectClassification, "wrong category")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.True(t, updated.UpdatedAt.After(ticket.UpdatedAt) || updated.UpdatedAt.Equal(ticket.UpdatedAt))

	require.Len(t, *captured, 1)
	payload, ok := (*captured)[0].Payload.(events.TicketUpdatedPayload)
	require.True(t, ok)
	require.Equal(t, "agent@example.com", payload.Changes.ChangedBy)
	require.Equal(t, domain.ChangeReasonIncorrectClassification, payload.Changes.Reason)
	require.Equal(t, "wrong category", payload.Changes.Feedback)
	require.Equal(t, domain.TicketStatusInProgress, payload.Ticket.Status)
}

func TestOnClassificationCompleted_LinksClassification(t *testing.T) {
	svc := newTicketService(events.NewInMemoryDispatcher(zap.NewNop()))
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, TicketCreateInput{CustomerID: "c1", Description: "broken item"})
	require.NoError(t, err)
	require.Nil(t, ticket.ClassificationID)

	err = svc.OnClassificationCompleted(ctx, domain.TicketClassification{
		ID:       "cl1",
		TicketID: ticket.ID,
	})
	require.NoError(t, err)

	got, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClassificationID)
	require.Equal(t, "cl1", *got.ClassificationID)
}

func TestOnClassificationCompleted_UnknownTicketIsNoop(t *testing.T) {
	svc := newTicketService(events.NewInMemoryDispatcher(zap.NewNop()))

	err := svc.OnClassificationCompleted(context.Background(), domain.TicketClassification{
		ID:       "cl1",
		TicketID: "missing",
	})
	require.NoError(t, err, "a completion for an unknown ticket must not fail")
}

func TestGetTicket_UnknownIDIsNotFound(t *testing.T) {
	svc := newTicketService(events.NewInMemoryDispatcher(zap.NewNop()))

	_, err := svc.GetTicket(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, util.IsNotFound(err))
}
