package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

// ClassificationRepository encapsulates classification persistence.
// Save is an upsert: a manual correction overwrites the record stored
// under the same id.
type ClassificationRepository interface {
	Save(ctx context.Context, classification *domain.TicketClassification) error
	GetByID(ctx context.Context, id string) (*domain.TicketClassification, error)
}

type memoryClassificationRepository struct {
	mu              sync.RWMutex
	classifications map[string]domain.TicketClassification
}

// NewMemoryClassificationRepository instantiates the in-process repository.
func NewMemoryClassificationRepository() ClassificationRepository {
	return &memoryClassificationRepository{classifications: make(map[string]domain.TicketClassification)}
}

func (r *memoryClassificationRepository) Save(ctx context.Context, classification *domain.TicketClassification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classifications[classification.ID] = *classification
	return nil
}

func (r *memoryClassificationRepository) GetByID(ctx context.Context, id string) (*domain.TicketClassification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	classification, ok := r.classifications[id]
	if !ok {
		return nil, util.NewNotFound("classification", map[string]any{"id": id})
	}
	return &classification, nil
}
