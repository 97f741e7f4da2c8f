package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

// Redis-backed implementations of the store interfaces. Records are JSON
// documents under namespaced keys; history entries live in a per-ticket
// list so insertion order is preserved.
const (
	ticketKeyPrefix         = "triage:ticket:"
	classificationKeyPrefix = "triage:classification:"
	historyKeyPrefix        = "triage:history:"
)

type redisTicketRepository struct {
	client *redis.Client
}

// NewRedisTicketRepository instantiates the Redis-backed repository.
func NewRedisTicketRepository(client *redis.Client) TicketRepository {
	return &redisTicketRepository{client: client}
}

func (r *redisTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	return r.client.Set(ctx, ticketKeyPrefix+ticket.ID, payload, 0).Err()
}

func (r *redisTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	// XX: only overwrite an existing record.
	ok, err := r.client.SetXX(ctx, ticketKeyPrefix+ticket.ID, payload, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return util.NewNotFound("ticket", map[string]any{"id": ticket.ID})
	}
	return nil
}

func (r *redisTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	raw, err := r.client.Get(ctx, ticketKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("unmarshal ticket %s: %w", id, err)
	}
	return &ticket, nil
}

type redisClassificationRepository struct {
	client *redis.Client
}

// NewRedisClassificationRepository instantiates the Redis-backed repository.
func NewRedisClassificationRepository(client *redis.Client) ClassificationRepository {
	return &redisClassificationRepository{client: client}
}

func (r *redisClassificationRepository) Save(ctx context.Context, classification *domain.TicketClassification) error {
	payload, err := json.Marshal(classification)
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}
	return r.client.Set(ctx, classificationKeyPrefix+classification.ID, payload, 0).Err()
}

func (r *redisClassificationRepository) GetByID(ctx context.Context, id string) (*domain.TicketClassification, error) {
	raw, err := r.client.Get(ctx, classificationKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.NewNotFound("classification", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	var classification domain.TicketClassification
	if err := json.Unmarshal(raw, &classification); err != nil {
		return nil, fmt.Errorf("unmarshal classification %s: %w", id, err)
	}
	return &classification, nil
}

type redisHistoryRepository struct {
	client *redis.Client
}

// NewRedisHistoryRepository instantiates the Redis-backed repository.
func NewRedisHistoryRepository(client *redis.Client) HistoryRepository {
	return &redisHistoryRepository{client: client}
}

func (r *redisHistoryRepository) Append(ctx context.Context, entry *domain.TicketClassificationHistory) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	return r.client.RPush(ctx, historyKeyPrefix+entry.TicketID, payload).Err()
}

func (r *redisHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketClassificationHistory, error) {
	raws, err := r.client.LRange(ctx, historyKeyPrefix+ticketID, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.TicketClassificationHistory, 0, len(raws))
	for _, raw := range raws {
		var entry domain.TicketClassificationHistory
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal history entry for ticket %s: %w", ticketID, err)
		}
		result = append(result, entry)
	}
	return result, nil
}
