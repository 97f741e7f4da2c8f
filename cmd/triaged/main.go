package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/classifier"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/persistence"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher(logger)

	var (
		ticketRepo         repository.TicketRepository
		classificationRepo repository.ClassificationRepository
		historyRepo        repository.HistoryRepository
	)
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client := persistence.NewRedisClient(cfg.Redis, logger)
		defer client.Close() //nolint:errcheck
		ticketRepo = repository.NewRedisTicketRepository(client)
		classificationRepo = repository.NewRedisClassificationRepository(client)
		historyRepo = repository.NewRedisHistoryRepository(client)
	default:
		ticketRepo = repository.NewMemoryTicketRepository()
		classificationRepo = repository.NewMemoryClassificationRepository()
		historyRepo = repository.NewMemoryHistoryRepository()
	}

	var cls classifier.Classifier
	if cfg.OpenAI.APIKey != "" {
		cls = classifier.NewOpenAIClassifier(cfg.OpenAI, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, falling back to static classifier")
		cls = classifier.NewStaticClassifier()
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	classificationService := service.NewClassificationService(service.ClassificationDependencies{
		ClassificationRepo: classificationRepo,
		HistoryRepo:        historyRepo,
		Classifier:         cls,
		Dispatcher:         dispatcher,
		Logger:             logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	// Handlers must be registered before the first ticket is created.
	worker.StartClassificationWorker(classificationService)
	worker.StartTicketWorker(ticketService)
	worker.StartNotificationWorker(notificationService)

	if cfg.Demo.Enabled {
		runDemo(ctx, logger, ticketService, classificationService, cfg.Demo)
	}

	waitForShutdown(logger)
}

// runDemo mirrors the manual triage flow: create a ticket, wait for the
// pipeline to link a classification, then file a correction and dump the
// audit history.
func runDemo(ctx context.Context, logger *zap.Logger, tickets *service.TicketService, classifications *service.ClassificationService, cfg config.DemoConfig) {
	ticket, err := tickets.CreateTicket(ctx, service.TicketCreateInput{
		CustomerID:  cfg.CustomerID,
		Description: cfg.Description,
	})
	if err != nil {
		logger.Error("demo ticket creation failed", zap.Error(err))
		return
	}
	logger.Info("demo ticket created", zap.String("ticket_id", ticket.ID))

	deadline := time.Now().Add(30 * time.Second)
	for ticket.ClassificationID == nil {
		if time.Now().After(deadline) {
			logger.Warn("demo classification did not complete in time", zap.String("ticket_id", ticket.ID))
			return
		}
		time.Sleep(200 * time.Millisecond)
		ticket, err = tickets.GetTicket(ctx, ticket.ID)
		if err != nil {
			logger.Error("demo ticket lookup failed", zap.Error(err))
			return
		}
	}

	classification, err := classifications.GetClassification(ctx, *ticket.ClassificationID)
	if err != nil {
		logger.Error("demo classification lookup failed", zap.Error(err))
		return
	}
	logger.Info("demo ticket classified",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(classification.Category)),
		zap.String("sentiment", string(classification.Sentiment)),
		zap.String("priority", string(classification.Priority)))

	if _, err := tickets.UpdateTicket(ctx, ticket.ID, service.TicketUpdate{}, "agent@example.com",
		domain.ChangeReasonIncorrectClassification, "demo correction"); err != nil {
		logger.Error("demo ticket update failed", zap.Error(err))
		return
	}

	history, err := classifications.GetClassificationHistory(ctx, ticket.ID)
	if err != nil {
		logger.Error("demo history lookup failed", zap.Error(err))
		return
	}
	for _, entry := range history {
		logger.Info("demo classification history entry",
			zap.String("classification_id", entry.ClassificationID),
			zap.String("type", string(entry.ClassificationType)),
			zap.Time("at", entry.Timestamp))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
