package worker

import (
	"github.com/spec-kit/ticket-triage/internal/service"
)

// StartClassificationWorker subscribes the classification pipeline to
// ticket lifecycle events. Must run before the first ticket is created,
// otherwise early tickets dispatch to no listeners.
func StartClassificationWorker(classificationService *service.ClassificationService) {
	if classificationService == nil {
		return
	}
	classificationService.RegisterHandlers()
}
