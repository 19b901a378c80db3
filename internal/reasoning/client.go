package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/botornot-chat/botornot/internal/metrics"
	"github.com/botornot-chat/botornot/internal/services/credential"
)

// Config holds settings for the OpenAI-compatible completion endpoint
type Config struct {
	// BaseURL is the provider root, e.g. https://api.groq.com/openai/v1
	BaseURL string
	// GenerateModel produces chat lines
	GenerateModel string
	// RateModel produces peer ratings
	RateModel string
	// RequestTimeout bounds every call so a stalled request cannot hang a
	// bot's iteration indefinitely
	RequestTimeout time.Duration
}

// DefaultConfig returns the production reasoning configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.groq.com/openai/v1",
		GenerateModel:  "llama3-8b-8192",
		RateModel:      "openai/gpt-oss-120b",
		RequestTimeout: 30 * time.Second,
	}
}

// Client calls an OpenAI-compatible chat-completions endpoint, drawing a
// bearer credential from the pool on every request.
type Client struct {
	cfg        Config
	pool       *credential.Pool
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates a reasoning client
func NewClient(cfg Config, pool *credential.Pool, logger *slog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		pool: pool,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With(slog.String("component", "reasoning")),
	}
}

// Wire types for the chat-completions API

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate produces the bot's next chat line
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body := completionRequest{
		Model:     c.cfg.GenerateModel,
		Messages:  renderGenerateMessages(req),
		MaxTokens: req.MaxTokens,
	}
	content, err := c.complete(ctx, body)
	if err != nil {
		metrics.ReasoningFailuresTotal.WithLabelValues("generate").Inc()
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Rate produces a name -> 1..5 rating map for the given candidates
func (c *Client) Rate(ctx context.Context, req RateRequest) (map[string]int, error) {
	body := completionRequest{
		Model:          c.cfg.RateModel,
		Messages:       renderRateMessages(req),
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	content, err := c.complete(ctx, body)
	if err != nil {
		metrics.ReasoningFailuresTotal.WithLabelValues("rate").Inc()
		return nil, err
	}

	ratings, err := parseRatings(content)
	if err != nil {
		metrics.ReasoningFailuresTotal.WithLabelValues("rate").Inc()
		return nil, err
	}
	return ratings, nil
}

// complete performs one chat-completions call and returns the first
// choice's content.
func (c *Client) complete(ctx context.Context, body completionRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.pool.Next())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseRatings decodes a name -> rating JSON object, tolerating markdown
// code fences some providers wrap structured output in.
func parseRatings(content string) (map[string]int, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var ratings map[string]int
	if err := json.Unmarshal([]byte(trimmed), &ratings); err != nil {
		return nil, fmt.Errorf("parse ratings: %w", err)
	}
	return ratings, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
