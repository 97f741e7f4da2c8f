package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

// chatMessage is one entry of the Chat Completions conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaConfig `json:"json_schema"`
}

type jsonSchemaConfig struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

// chatResponse is the minimal response shape returned by the Chat Completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClassifier classifies ticket text through the Chat Completions
// API with JSON-schema constrained output. It honors the never-fails
// contract of Classifier: every request error, malformed response or
// timeout is logged and resolved to the dimension's neutral default.
type OpenAIClassifier struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIClassifier creates the adapter from configuration.
func NewOpenAIClassifier(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClassifier{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		timeout:    cfg.RequestTimeout(),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		logger:     logger,
	}
}

func (c *OpenAIClassifier) ClassifyCategory(ctx context.Context, description string) domain.ClassificationCategory {
	prompt := "You are a ticket classification system. You are given a ticket content and you need to classify the ticket into a category.\nThe categories are:\n\n" + enumList(categoryStrings())
	raw, err := c.complete(ctx, prompt, description, "ticket_category", "category", categoryStrings())
	if err != nil {
		c.logger.Warn("category classification failed, using default", zap.Error(err))
		return domain.CategoryUncategorized
	}
	category := domain.ClassificationCategory(raw)
	if !category.Valid() {
		c.logger.Warn("category classification returned unknown value, using default", zap.String("value", raw))
		return domain.CategoryUncategorized
	}
	return category
}

func (c *OpenAIClassifier) ClassifySentiment(ctx context.Context, description string) domain.ClassificationSentiment {
	prompt := "You are a ticket sentiment analysis system. You are given a ticket content and you need to classify the sentiment of the ticket.\nThe sentiment categories are:\n\n" + enumList(sentimentStrings())
	raw, err := c.complete(ctx, prompt, description, "ticket_sentiment", "sentiment", sentimentStrings())
	if err != nil {
		c.logger.Warn("sentiment classification failed, using default", zap.Error(err))
		return domain.SentimentNeutral
	}
	sentiment := domain.ClassificationSentiment(raw)
	if !sentiment.Valid() {
		c.logger.Warn("sentiment classification returned unknown value, using default", zap.String("value", raw))
		return domain.SentimentNeutral
	}
	return sentiment
}

func (c *OpenAIClassifier) ClassifyPriority(ctx context.Context, description string, sentiment domain.ClassificationSentiment, category domain.ClassificationCategory) domain.ClassificationPriority {
	prompt := fmt.Sprintf("You are a ticket priority analysis system. You are given a ticket content and you need to classify the priority of the ticket.\n\nThe customer sentiment is %s.\nThe ticket category is %s.\n\nThe priority categories are:\n\n%s",
		sentiment, category, enumList(priorityStrings()))
	raw, err := c.complete(ctx, prompt, description, "ticket_priority", "priority", priorityStrings())
	if err != nil {
		c.logger.Warn("priority classification failed, using default", zap.Error(err))
		return domain.PriorityUnprioritized
	}
	priority := domain.ClassificationPriority(raw)
	if !priority.Valid() {
		c.logger.Warn("priority classification returned unknown value, using default", zap.String("value", raw))
		return domain.PriorityUnprioritized
	}
	return priority
}

// complete runs one structured-output completion and extracts the single
// string field named by fieldName from the model's JSON answer.
func (c *OpenAIClassifier) complete(ctx context.Context, systemPrompt, userContent, schemaName, fieldName string, allowed []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	schema, err := enumSchema(fieldName, allowed)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaConfig{
				Name:   schemaName,
				Strict: true,
				Schema: schema,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("unexpected status %d from %s: %s", res.StatusCode, url, string(buf))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	var answer map[string]string
	if err := json.Unmarshal([]byte(payload.Choices[0].Message.Content), &answer); err != nil {
		return "", fmt.Errorf("decode structured answer: %w", err)
	}
	value, ok := answer[fieldName]
	if !ok || value == "" {
		return "", fmt.Errorf("structured answer missing %q", fieldName)
	}
	return value, nil
}

// enumSchema builds a strict single-field object schema whose field is
// constrained to the allowed enum values.
func enumSchema(fieldName string, allowed []string) (json.RawMessage, error) {
	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			fieldName: map[string]any{
				"type": "string",
				"enum": allowed,
			},
		},
		"required": []string{fieldName},
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return raw, nil
}

func enumList(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString("- ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}

func categoryStrings() []string {
	out := make([]string, len(domain.AllCategories))
	for i, v := range domain.AllCategories {
		out[i] = string(v)
	}
	return out
}

func sentimentStrings() []string {
	out := make([]string, len(domain.AllSentiments))
	for i, v := range domain.AllSentiments {
		out[i] = string(v)
	}
	return out
}

func priorityStrings() []string {
	out := make([]string, len(domain.AllPriorities))
	for i, v := range domain.AllPriorities {
		out[i] = string(v)
	}
	return out
}
