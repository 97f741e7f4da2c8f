package classifier

import (
	"context"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Classifier produces the three classification dimensions for a ticket
// description. Implementations never return an error: any internal
// failure must be resolved to the dimension's neutral default so the
// pipeline always completes.
type Classifier interface {
	ClassifyCategory(ctx context.Context, description string) domain.ClassificationCategory
	ClassifySentiment(ctx context.Context, description string) domain.ClassificationSentiment
	ClassifyPriority(ctx context.Context, description string, sentiment domain.ClassificationSentiment, category domain.ClassificationCategory) domain.ClassificationPriority
}

// StaticClassifier returns fixed values. It backs the demo flow when no
// OpenAI key is configured.
type StaticClassifier struct {
	Category  domain.ClassificationCategory
	Sentiment domain.ClassificationSentiment
	Priority  domain.ClassificationPriority
}

// NewStaticClassifier creates a classifier that answers with the neutral
// defaults for every dimension.
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{
		Category:  domain.CategoryUncategorized,
		Sentiment: domain.SentimentNeutral,
		Priority:  domain.PriorityUnprioritized,
	}
}

func (s *StaticClassifier) ClassifyCategory(ctx context.Context, description string) domain.ClassificationCategory {
	if s.Category == "" {
		return domain.CategoryUncategorized
	}
	return s.Category
}

func (s *StaticClassifier) ClassifySentiment(ctx context.Context, description string) domain.ClassificationSentiment {
	if s.Sentiment == "" {
		return domain.SentimentNeutral
	}
	return s.Sentiment
}

func (s *StaticClassifier) ClassifyPriority(ctx context.Context, description string, sentiment domain.ClassificationSentiment, category domain.ClassificationCategory) domain.ClassificationPriority {
	if s.Priority == "" {
		return domain.PriorityUnprioritized
	}
	return s.Priority
}
