// Package vapi is a thin REST client for the voice-AI platform's assistant
// and call endpoints. Requests are never retried automatically; operators
// retry by hand.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const (
	defaultBaseURL   = "https://api.vapi.ai"
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "voice-booking-demo/0.1"
	maxLoggedBody    = 300
)

// RequestObserver records the outcome of every platform request.
type RequestObserver interface {
	ObservePlatformRequest(operation string, status int)
}

// Config controls how the client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
	Observer   RequestObserver
}

// Client wraps the platform REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
	observer   RequestObserver
}

// New creates a configured Client. A missing API key is a configuration error.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &apperr.ConfigurationError{Setting: "VAPI_API_KEY"}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		observer:   cfg.Observer,
	}, nil
}

// GetAssistant fetches the assistant's current configuration.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*Assistant, error) {
	if strings.TrimSpace(assistantID) == "" {
		return nil, apperr.Validation("assistant id required")
	}
	var out Assistant
	if err := c.doJSON(ctx, "get_assistant", http.MethodGet, "/assistant/"+url.PathEscape(assistantID), nil, &out); err != nil {
		return nil, fmt.Errorf("get assistant: %w", err)
	}
	return &out, nil
}

// UpdateAssistant overwrites the fields listed in cfg on an existing assistant.
func (c *Client) UpdateAssistant(ctx context.Context, assistantID string, cfg AssistantConfig) (*Assistant, error) {
	if strings.TrimSpace(assistantID) == "" {
		return nil, apperr.Validation("assistant id required")
	}
	var out Assistant
	if err := c.doJSON(ctx, "update_assistant", http.MethodPatch, "/assistant/"+url.PathEscape(assistantID), cfg, &out); err != nil {
		return nil, fmt.Errorf("update assistant: %w", err)
	}
	return &out, nil
}

// CreateAssistant registers a new assistant and returns it with its generated id.
func (c *Client) CreateAssistant(ctx context.Context, cfg AssistantConfig) (*Assistant, error) {
	var out Assistant
	if err := c.doJSON(ctx, "create_assistant", http.MethodPost, "/assistant", cfg, &out); err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create assistant: response carried no id")
	}
	return &out, nil
}

// ClearFunctions sets the assistant's inline function list to null.
func (c *Client) ClearFunctions(ctx context.Context, assistantID string) error {
	if strings.TrimSpace(assistantID) == "" {
		return apperr.Validation("assistant id required")
	}
	body := map[string]any{"functions": nil}
	if err := c.doJSON(ctx, "clear_functions", http.MethodPatch, "/assistant/"+url.PathEscape(assistantID), body, nil); err != nil {
		return fmt.Errorf("clear functions: %w", err)
	}
	return nil
}

// CreateCall places an outbound call.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (*Call, error) {
	if strings.TrimSpace(req.AssistantID) == "" {
		return nil, apperr.Validation("assistant id required")
	}
	if req.Customer == nil || strings.TrimSpace(req.Customer.Number) == "" {
		return nil, apperr.Validation("customer number required")
	}
	var out Call
	if err := c.doJSON(ctx, "create_call", http.MethodPost, "/call", req, &out); err != nil {
		return nil, fmt.Errorf("create call: %w", err)
	}
	return &out, nil
}

// ListCalls returns the most recent calls handled by an assistant.
func (c *Client) ListCalls(ctx context.Context, assistantID string, limit int) ([]Call, error) {
	q := url.Values{}
	if assistantID != "" {
		q.Set("assistantId", assistantID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/call"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Call
	if err := c.doJSON(ctx, "list_calls", http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, 0)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("vapi: non-2xx response",
			"operation", operation,
			"status", resp.StatusCode,
			"path", path,
			"body", truncate(string(respBody), maxLoggedBody),
		)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) observe(operation string, status int) {
	if c.observer != nil {
		c.observer.ObservePlatformRequest(operation, status)
	}
}

// APIError is a non-2xx platform response. The body is kept verbatim so
// callers can surface it to the operator.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("vapi: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("vapi: http status %d: %s", e.StatusCode, truncate(e.Body, maxLoggedBody))
}

// Status returns the remote HTTP status.
func (e *APIError) Status() int { return e.StatusCode }

// ResponseBody returns the remote response body.
func (e *APIError) ResponseBody() string { return e.Body }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
