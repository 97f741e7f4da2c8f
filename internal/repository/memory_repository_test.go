package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

func TestMemoryTicketRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket := &domain.Ticket{
		ID:          "t1",
		CustomerID:  "c1",
		Description: "my order never arrived",
		Status:      domain.TicketStatusOpen,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, ticket))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, ticket.CustomerID, got.CustomerID)
	require.Nil(t, got.ClassificationID)
}

func TestMemoryTicketRepository_GetUnknownIsNotFound(t *testing.T) {
	repo := NewMemoryTicketRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, util.IsNotFound(err))
}

func TestMemoryTicketRepository_UpdateUnknownIsNotFound(t *testing.T) {
	repo := NewMemoryTicketRepository()

	err := repo.Update(context.Background(), &domain.Ticket{ID: "missing"})
	require.Error(t, err)
	require.True(t, util.IsNotFound(err))
}

func TestMemoryTicketRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen}))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	got.Status = domain.TicketStatusClosed

	again, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusOpen, again.Status, "mutating a returned record must not affect the store")
}

func TestMemoryClassificationRepository_SaveOverwritesSameID(t *testing.T) {
	repo := NewMemoryClassificationRepository()
	ctx := context.Background()

	original := &domain.TicketClassification{
		ID:                 "cl1",
		TicketID:           "t1",
		Category:           domain.CategoryOrderIssue,
		Sentiment:          domain.SentimentAngry,
		Priority:           domain.PriorityHigh,
		ClassificationType: domain.ClassificationTypeAuto,
	}
	require.NoError(t, repo.Save(ctx, original))

	corrected := *original
	corrected.ClassificationType = domain.ClassificationTypeManual
	require.NoError(t, repo.Save(ctx, &corrected))

	got, err := repo.GetByID(ctx, "cl1")
	require.NoError(t, err)
	require.Equal(t, domain.ClassificationTypeManual, got.ClassificationType)
}

func TestMemoryClassificationRepository_GetUnknownIsNotFound(t *testing.T) {
	repo := NewMemoryClassificationRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, util.IsNotFound(err))
}

func TestMemoryHistoryRepository_AppendPreservesInsertionOrder(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &domain.TicketClassificationHistory{ID: "h1", TicketID: "t1"}))
	require.NoError(t, repo.Append(ctx, &domain.TicketClassificationHistory{ID: "h2", TicketID: "t2"}))
	require.NoError(t, repo.Append(ctx, &domain.TicketClassificationHistory{ID: "h3", TicketID: "t1"}))

	entries, err := repo.ListByTicket(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "h1", entries[0].ID)
	require.Equal(t, "h3", entries[1].ID)
}

func TestMemoryHistoryRepository_RepeatedReadsAreEqual(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &domain.TicketClassificationHistory{ID: "h1", TicketID: "t1"}))

	first, err := repo.ListByTicket(ctx, "t1")
	require.NoError(t, err)

	// mutating a returned slice must not leak into the store
	first[0].ID = "tampered"

	second, err := repo.ListByTicket(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "h1", second[0].ID)
}

func TestMemoryHistoryRepository_UnknownTicketIsEmpty(t *testing.T) {
	repo := NewMemoryHistoryRepository()

	entries, err := repo.ListByTicket(context.Background(), "missing")
	require.NoError(t, err)
	require.Empty(t, entries)
}
