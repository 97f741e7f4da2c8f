package domain

import "time"

// ClassificationCategory buckets a ticket by problem area.
type ClassificationCategory string

const (
	CategoryUncategorized ClassificationCategory = "UNCATEGORIZED"
	CategoryOrderIssue    ClassificationCategory = "ORDER_ISSUE"
	CategoryPaymentIssue  ClassificationCategory = "PAYMENT_ISSUE"
	CategoryDeliveryIssue ClassificationCategory = "DELIVERY_ISSUE"
	CategoryProductIssue  ClassificationCategory = "PRODUCT_ISSUE"
	CategoryAccountIssue  ClassificationCategory = "ACCOUNT_ISSUE"
	CategoryOther         ClassificationCategory = "OTHER"
)

// AllCategories lists every category in declaration order.
var AllCategories = []ClassificationCategory{
	CategoryUncategorized,
	CategoryOrderIssue,
	CategoryPaymentIssue,
	CategoryDeliveryIssue,
	CategoryProductIssue,
	CategoryAccountIssue,
	CategoryOther,
}

// Valid reports whether the value is a known category.
func (c ClassificationCategory) Valid() bool {
	for _, candidate := range AllCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// ClassificationSentiment captures the emotional tone of the ticket text.
type ClassificationSentiment string

const (
	SentimentAngry   ClassificationSentiment = "ANGRY"
	SentimentHappy   ClassificationSentiment = "HAPPY"
	SentimentSad     ClassificationSentiment = "SAD"
	SentimentNeutral ClassificationSentiment = "NEUTRAL"
)

// AllSentiments lists every sentiment in declaration order.
var AllSentiments = []ClassificationSentiment{
	SentimentAngry,
	SentimentHappy,
	SentimentSad,
	SentimentNeutral,
}

// Valid reports whether the value is a known sentiment.
func (s ClassificationSentiment) Valid() bool {
	for _, candidate := range AllSentiments {
		if s == candidate {
			return true
		}
	}
	return false
}

// ClassificationPriority ranks handling urgency.
type ClassificationPriority string

const (
	PriorityUnprioritized ClassificationPriority = "UNPRIORITIZED"
	PriorityLow           ClassificationPriority = "LOW"
	PriorityMedium        ClassificationPriority = "MEDIUM"
	PriorityHigh          ClassificationPriority = "HIGH"
	PriorityCritical      ClassificationPriority = "CRITICAL"
)

// AllPriorities lists every priority in declaration order.
var AllPriorities = []ClassificationPriority{
	PriorityUnprioritized,
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// Valid reports whether the value is a known priority.
func (p ClassificationPriority) Valid() bool {
	for _, candidate := range AllPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// ClassificationType distinguishes machine output from human overrides.
type ClassificationType string

const (
	ClassificationTypeAuto   ClassificationType = "AUTO"
	ClassificationTypeManual ClassificationType = "MANUAL"
)

// TicketClassification is the current assessment of a ticket. A manual
// correction overwrites the record under the same ID; the audit trail
// lives in TicketClassificationHistory.
type TicketClassification struct {
	ID                 string
	TicketID           string
	Category           ClassificationCategory
	Sentiment          ClassificationSentiment
	Priority           ClassificationPriority
	ClassificationType ClassificationType
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
