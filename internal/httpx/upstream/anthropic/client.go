package anthropic

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

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
)

const (
	defaultBaseURL    = "https://api.anthropic.com"
	defaultAPIVersion = "2023-06-01"
	defaultModel      = "claude-sonnet-4-5"
	defaultTimeout    = 30 * time.Second
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("Anthropic API key not configured")
	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("text generation is temporarily unavailable")
	// ErrEmptyReply is returned when the reply has no text block
	ErrEmptyReply = errors.New("empty reply from model")
)

// Observer receives one call per upstream request
type Observer interface {
	ObserveLLMCall(model, outcome string, elapsed time.Duration, tokens int)
}

// Client is a minimal Messages API client
type Client struct {
	baseURL    string
	apiVersion string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker[*Response]
	observer   Observer
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithAPIKey sets the API key
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithModel sets the model name
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCircuitBreaker trips after failures out of window calls and stays open for delay
func WithCircuitBreaker(failures, window uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.breaker = newBreaker(failures, window, delay)
	}
}

// WithObserver sets a metrics observer
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a new Anthropic client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiVersion: defaultAPIVersion,
		model:      defaultModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		breaker: newBreaker(5, 10, 30*time.Second),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// newBreaker counts transport errors, 429 and 5xx replies as failures.
// Client errors do not trip the breaker.
func newBreaker(failures, window uint, delay time.Duration) circuitbreaker.CircuitBreaker[*Response] {
	if window == 0 {
		window = 10
	}
	if failures == 0 || failures > window {
		failures = window
	}
	return circuitbreaker.NewBuilder[*Response]().
		WithFailureThresholdRatio(failures, window).
		WithDelay(delay).
		WithSuccessThreshold(1).
		HandleIf(func(_ *Response, err error) bool {
			if err == nil {
				return false
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Retryable()
			}
			return !errors.Is(err, context.Canceled)
		}).
		Build()
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// APIError represents an error reply of the API
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic API error: %s (type: %s, status: %d)", e.Message, e.Type, e.StatusCode)
}

// Retryable reports whether the error is transient
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a Messages API call
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// Usage reports token consumption
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns input plus output tokens
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Response is the text reply of the model
type Response struct {
	Text       string
	Model      string
	StopReason string
	Usage      Usage
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage Usage `json:"usage"`
}

// Complete sends a request and returns the first text block, trimmed.
// POST /v1/messages
func (c *Client) Complete(ctx context.Context, in Request) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	out, err := failsafe.With[*Response](c.breaker).WithContext(ctx).Get(func() (*Response, error) {
		return c.complete(ctx, in)
	})

	c.observe(out, err, time.Since(start))

	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) observe(out *Response, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	outcome, tokens := "ok", 0
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		outcome = "circuit_open"
	case err != nil:
		outcome = "error"
	default:
		tokens = out.Usage.Total()
	}
	c.observer.ObserveLLMCall(c.model, outcome, elapsed, tokens)
}

func (c *Client) complete(ctx context.Context, in Request) (*Response, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   in.MaxTokens,
		System:      in.System,
		Messages:    in.Messages,
		Temperature: in.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.apiVersion)

	var out messagesResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	if len(out.Content) == 0 {
		return nil, ErrEmptyReply
	}

	return &Response{
		Text:       strings.TrimSpace(out.Content[0].Text),
		Model:      out.Model,
		StopReason: out.StopReason,
		Usage:      out.Usage,
	}, nil
}

// do executes the request and decodes the response
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return &APIError{StatusCode: resp.StatusCode, Type: "http_error", Message: strings.TrimSpace(string(body))}
		}
		errResp.Error.StatusCode = resp.StatusCode
		return &errResp.Error
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
