package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const (
	defaultSinkTimeout = 10 * time.Second
	maxLoggedSinkBody  = 300
)

// Outcome labels one forwarding attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// DeliveryError describes a failed sink delivery. It never leaves the
// forwarder as an error return; callers see it only inside ForwardResult.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sink delivery: %v", e.Err)
	}
	return fmt.Sprintf("sink delivery: http status %d", e.StatusCode)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ForwardResult records what happened to one enriched payload.
type ForwardResult struct {
	Outcome    Outcome
	StatusCode int
	Err        *DeliveryError
}

// ForwarderConfig controls sink delivery.
type ForwarderConfig struct {
	SinkURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Forwarder posts enriched payloads to the downstream sink, at most once per
// payload and without retries.
type Forwarder struct {
	sinkURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewForwarder creates a Forwarder. An empty sink URL makes every Forward a
// logged no-op.
func NewForwarder(cfg ForwarderConfig) *Forwarder {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultSinkTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Forwarder{sinkURL: cfg.SinkURL, httpClient: httpClient, logger: logger}
}

// Configured reports whether a sink URL is set.
func (f *Forwarder) Configured() bool {
	return f != nil && f.sinkURL != ""
}

// Forward makes one delivery attempt. It never returns an error; failures
// are logged and reported through the result.
func (f *Forwarder) Forward(ctx context.Context, p EnrichedPayload) (result ForwardResult) {
	ctx, span := tracer.Start(ctx, "booking.forward")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			derr := &DeliveryError{Err: fmt.Errorf("panic: %v", r)}
			f.logger.Error("booking: sink delivery panicked", "event_id", p.EventID, "error", derr)
			span.RecordError(derr)
			result = ForwardResult{Outcome: OutcomeFailed, Err: derr}
		}
		span.SetAttributes(attribute.String("voicebooking.forward.outcome", string(result.Outcome)))
	}()

	if !f.Configured() {
		f.logger.Info("booking: sink webhook not configured, skipping delivery",
			"event_id", p.EventID,
			"payload", p,
		)
		return ForwardResult{Outcome: OutcomeSkipped}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return f.failed(span, p, &DeliveryError{Err: fmt.Errorf("marshal payload: %w", err)})
	}
	// Delivery outlives cancellation of the inbound request.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, f.sinkURL, bytes.NewReader(body))
	if err != nil {
		return f.failed(span, p, &DeliveryError{Err: fmt.Errorf("build request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return f.failed(span, p, &DeliveryError{Err: err})
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return f.failed(span, p, &DeliveryError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxLoggedSinkBody)})
	}
	f.logger.Info("booking: delivered to sink",
		"event_id", p.EventID,
		"status", resp.StatusCode,
	)
	return ForwardResult{Outcome: OutcomeDelivered, StatusCode: resp.StatusCode}
}

func (f *Forwarder) failed(span trace.Span, p EnrichedPayload, derr *DeliveryError) ForwardResult {
	f.logger.Error("booking: sink delivery failed",
		"event_id", p.EventID,
		"status", derr.StatusCode,
		"body", derr.Body,
		"error", derr,
	)
	span.RecordError(derr)
	return ForwardResult{Outcome: OutcomeFailed, StatusCode: derr.StatusCode, Err: derr}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
