package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// HistoryRepository is the append-only audit log of classification
// changes. Entries are never updated or deleted; ListByTicket returns a
// fresh slice in insertion (chronological) order on every call.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.TicketClassificationHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketClassificationHistory, error)
}

type memoryHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.TicketClassificationHistory
}

// NewMemoryHistoryRepository instantiates the in-process repository.
func NewMemoryHistoryRepository() HistoryRepository {
	return &memoryHistoryRepository{}
}

func (r *memoryHistoryRepository) Append(ctx context.Context, entry *domain.TicketClassificationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketClassificationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.TicketClassificationHistory{}
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}
