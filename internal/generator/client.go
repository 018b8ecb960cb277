package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

const (
	defaultBaseURL     = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel       = "llama-3.3-70b-versatile"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
	defaultMaxRetries  = 3
	defaultRetryDelay  = 1 * time.Second
	defaultTimeout     = 90 * time.Second
)

// GenerationError carries the upstream status and message of a failed
// generation attempt, after retries (if any) have been exhausted.
type GenerationError struct {
	StatusCode int
	Message    string
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("groq api error (status %d): %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// Config holds Groq client configuration
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float64
	MaxTokens         int
	MaxRetries        int
	RetryInitialDelay time.Duration
	RequestTimeout    time.Duration
}

// Client calls the Groq chat-completion endpoint to generate CV content.
// It is stateless: the only side effect is the outbound HTTP call.
type Client struct {
	http   *resty.Client
	config *Config
	logger *slog.Logger
}

// NewClient creates a Groq client. Requests hitting HTTP 429 or 503 are
// retried with exponential backoff starting at RetryInitialDelay; any
// other non-2xx response fails immediately.
func NewClient(config *Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.RetryInitialDelay == 0 {
		config.RetryInitialDelay = defaultRetryDelay
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = defaultTimeout
	}

	httpClient := resty.New().
		SetTimeout(config.RequestTimeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(config.RetryInitialDelay).
		SetRetryMaxWaitTime(config.RetryInitialDelay << uint(config.MaxRetries)).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			retryable := r.StatusCode() == http.StatusTooManyRequests ||
				r.StatusCode() == http.StatusServiceUnavailable
			if retryable {
				logger.Warn("Groq rate limit hit, retrying with backoff",
					slog.Int("status", r.StatusCode()),
					slog.Int("attempt", r.Request.Attempt),
				)
			}
			return retryable
		})

	return &Client{
		http:   httpClient,
		config: config,
		logger: logger,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// GenerateContent builds the prompt for the requested section and returns
// the generated text.
func (c *Client) GenerateContent(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
	if !c.Configured() {
		return "", &GenerationError{Message: "groq api key is not configured"}
	}

	prompt := BuildPrompt(sub, section)

	c.logger.Info("Calling Groq API",
		slog.String("submission_id", sub.ID),
		slog.String("section", string(section)),
		slog.String("model", c.config.Model),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.config.APIKey).
		SetBody(map[string]interface{}{
			"model": c.config.Model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": c.config.Temperature,
			"max_tokens":  c.config.MaxTokens,
		}).
		Post(c.config.BaseURL)

	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error("Groq API returned an error",
			slog.Int("status", resp.StatusCode()),
			slog.String("submission_id", sub.ID),
		)
		return "", &GenerationError{
			StatusCode: resp.StatusCode(),
			Message:    resp.String(),
		}
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if text == "" {
		return "", &GenerationError{Message: "empty completion from groq"}
	}

	c.logger.Info("Groq generation succeeded",
		slog.String("submission_id", sub.ID),
		slog.Int("response_chars", len(text)),
	)

	return text, nil
}
