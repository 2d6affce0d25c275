package llm

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	openai "github.com/sashabaranov/go-openai"

	"github.com/cortivus/chat-api/internal/retrieval"
)

// Config holds the generation client configuration.
type Config struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	// Retry shape: MaxAttempts total calls, exponential backoff starting
	// at BaseDelay, doubling, capped at MaxDelay. Transport failures only.
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`

	// AttemptTimeout bounds each individual request.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
}

// Default generation parameters sent with every request.
const (
	defaultTemperature = 0.7
	defaultTopP        = 0.95
	defaultMaxTokens   = 1000
)

// User-safe fallback strings. Generate never fails past its own boundary:
// every failure mode degrades to one of these with zero token usage.
const (
	apologyNoCredential = "I'm sorry, but I'm unable to process your request due to a " +
		"configuration issue. Please try again later."
	apologyConnection = "I'm sorry, but I'm having trouble connecting to my knowledge " +
		"base right now. Please try again in a moment."
	apologyUnexpected = "I apologize, but I encountered an unexpected error. Please try " +
		"again or contact support if the issue persists."
)

// Client talks to an OpenAI-compatible text-generation endpoint.
type Client struct {
	config *Config
	api    *openai.Client

	// sleep is swappable so retry backoff is testable without waiting.
	sleep func(time.Duration)
}

// NewClient creates a generation client. A missing API key is not fatal here:
// Generate degrades to an apology without touching the network.
func NewClient(config *Config) *Client {
	applyDefaults(config)

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		// Use the configured BaseURL verbatim; providers disagree on
		// path layout (OpenAI /v1, MiniMax /v1, others /api/...).
		clientConfig.BaseURL = config.BaseURL
	}

	// Force HTTP/1.1: an empty TLSNextProto map disables HTTP/2, which
	// some OpenAI-compatible gateways terminate with INTERNAL_ERROR.
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSNextProto:        make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
	}
	clientConfig.HTTPClient = &http.Client{Transport: transport}

	logx.Info("Generation client initialized, model %s", config.Model)

	return &Client{
		config: config,
		api:    openai.NewClientWithConfig(clientConfig),
		sleep:  time.Sleep,
	}
}

func applyDefaults(config *Config) {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 2 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 10 * time.Second
	}
	if config.AttemptTimeout <= 0 {
		config.AttemptTimeout = 30 * time.Second
	}
}

// Generate produces a reply for the user message given the retrieved
// documents, trimmed conversation history and mode. It returns the generated
// text and the total token usage; on any failure it returns a fixed apology
// string and zero tokens instead of an error.
func (c *Client) Generate(ctx context.Context, message string, docs []retrieval.Document, history []ConversationTurn, mode retrieval.Mode) (string, int) {
	if c.config.APIKey == "" {
		logx.Error("No generation API key configured")
		return apologyNoCredential, 0
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    buildMessages(message, docs, history, mode),
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		MaxTokens:   defaultMaxTokens,
	}

	var lastErr error
	delay := c.config.BaseDelay
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
		resp, err := c.api.CreateChatCompletion(attemptCtx, req)
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 {
				logx.Error("Generation response carried no choices")
				return apologyUnexpected, 0
			}
			return resp.Choices[0].Message.Content, resp.Usage.TotalTokens
		}

		// An API error means the request reached the endpoint and was
		// rejected at the application level; retrying will not help.
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			logx.Error("Generation request rejected, status %d: %v", apiErr.HTTPStatusCode, err)
			return apologyConnection, 0
		}

		lastErr = err
		if attempt < c.config.MaxAttempts {
			logx.Warn("Generation attempt %d/%d failed, retrying in %s: %v",
				attempt, c.config.MaxAttempts, delay, err)
			c.sleep(delay)
			delay *= 2
			if delay > c.config.MaxDelay {
				delay = c.config.MaxDelay
			}
		}
	}

	logx.Error("Generation failed after %d attempts: %v", c.config.MaxAttempts, lastErr)
	return apologyConnection, 0
}
