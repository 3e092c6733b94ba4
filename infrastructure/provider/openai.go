package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/helixml/pulse/domain/sentiment"
	openai "github.com/sashabaranov/go-openai"
)

const sentimentPrompt = `You rate the sentiment of employee survey comments, which may be written in Portuguese or English.
Reply with a JSON object and nothing else: {"label": "<N> stars", "score": <confidence between 0 and 1>}
where N is 1 (very negative) to 5 (very positive).`

// OpenAISentiment classifies text through an OpenAI-compatible chat
// completion endpoint that is prompted to answer in the same "N stars"
// vocabulary as the local model.
type OpenAISentiment struct {
	client        *openai.Client
	model         string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIConfig holds configuration for the OpenAI sentiment engine.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64
	// Transport overrides the HTTP transport, e.g. with a CachingTransport.
	Transport http.RoundTripper
}

// NewOpenAISentiment creates an engine from configuration.
func NewOpenAISentiment(cfg OpenAIConfig) *OpenAISentiment {
	config := openai.DefaultConfig(cfg.APIKey)

	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	if cfg.Timeout > 0 || cfg.Transport != nil {
		config.HTTPClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		}
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	initialDelay := cfg.InitialDelay
	if initialDelay == 0 {
		initialDelay = 2 * time.Second
	}

	backoffFactor := cfg.BackoffFactor
	if backoffFactor == 0 {
		backoffFactor = 2.0
	}

	return &OpenAISentiment{
		client:        openai.NewClientWithConfig(config),
		model:         model,
		maxRetries:    maxRetries,
		initialDelay:  initialDelay,
		backoffFactor: backoffFactor,
	}
}

type chatVerdict struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Predict asks the endpoint to rate text.
func (p *OpenAISentiment) Predict(ctx context.Context, text string) (sentiment.Prediction, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: truncateRunes(text, maxInputRunes)},
		},
		Temperature: 0,
		MaxTokens:   32,
	}

	var resp openai.ChatCompletionResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return sentiment.Prediction{}, p.wrapError("sentiment", err)
	}

	if len(resp.Choices) == 0 {
		return sentiment.Prediction{}, NewProviderError("sentiment", 0, "no choices in response", ErrEmptyPrediction)
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

// parseVerdict reads the model reply. A reply that is not JSON is taken as
// a bare label with zero confidence.
func parseVerdict(content string) (sentiment.Prediction, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return sentiment.Prediction{}, ErrEmptyPrediction
	}

	var verdict chatVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return sentiment.Prediction{Label: content}, nil
	}
	return sentiment.Prediction{Label: verdict.Label, Score: verdict.Score}, nil
}

// withRetry executes the function with exponential backoff retry.
func (p *OpenAISentiment) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func (p *OpenAISentiment) isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}

// wrapError wraps an OpenAI error into a ProviderError.
func (p *OpenAISentiment) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(operation, 0, err.Error(), err)
}

var _ sentiment.Engine = (*OpenAISentiment)(nil)
