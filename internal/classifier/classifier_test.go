package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestStaticClassifier_DefaultsToNeutralValues(t *testing.T) {
	c := NewStaticClassifier()
	ctx := context.Background()

	require.Equal(t, domain.CategoryUncategorized, c.ClassifyCategory(ctx, "anything"))
	require.Equal(t, domain.SentimentNeutral, c.ClassifySentiment(ctx, "anything"))
	require.Equal(t, domain.PriorityUnprioritized, c.ClassifyPriority(ctx, "anything", domain.SentimentNeutral, domain.CategoryUncategorized))
}

func TestStaticClassifier_FixedValues(t *testing.T) {
	c := &StaticClassifier{
		Category:  domain.CategoryPaymentIssue,
		Sentiment: domain.SentimentSad,
		Priority:  domain.PriorityCritical,
	}
	ctx := context.Background()

	require.Equal(t, domain.CategoryPaymentIssue, c.ClassifyCategory(ctx, "x"))
	require.Equal(t, domain.SentimentSad, c.ClassifySentiment(ctx, "x"))
	require.Equal(t, domain.PriorityCritical, c.ClassifyPriority(ctx, "x", domain.SentimentSad, domain.CategoryPaymentIssue))
}
