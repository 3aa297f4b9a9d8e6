// Package calls places outbound calls through the voice-AI platform.
package calls

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/vapi"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

var tracer = otel.Tracer("voicebooking.internal.calls")

// CallCreator is the slice of the platform client the initiator needs.
type CallCreator interface {
	CreateCall(ctx context.Context, req vapi.CallRequest) (*vapi.Call, error)
}

// Result identifies the call the platform queued.
type Result struct {
	CallID      string `json:"callId"`
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber"`
}

// Initiator validates numbers and dispatches outbound calls.
type Initiator struct {
	platform CallCreator
	logger   *logging.Logger
}

// NewInitiator creates an Initiator.
func NewInitiator(platform CallCreator, logger *logging.Logger) *Initiator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Initiator{platform: platform, logger: logger}
}

// InitiateCall asks the platform to call rawPhone with the given assistant.
// Invalid numbers are rejected before any request is made. linePoolID is
// optional. Platform failures carry the remote body and are not retried.
func (i *Initiator) InitiateCall(ctx context.Context, assistantID, rawPhone, linePoolID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "calls.initiate")
	defer span.End()

	if strings.TrimSpace(rawPhone) == "" {
		return nil, apperr.Validation("phone number is required")
	}
	if !ValidatePhone(rawPhone) {
		err := apperr.Validation("invalid phone number format. Please use a valid US/Canada number")
		span.RecordError(err)
		return nil, err
	}
	if strings.TrimSpace(assistantID) == "" {
		return nil, &apperr.ConfigurationError{Setting: "VAPI_ASSISTANT_ID"}
	}

	number := FormatPhone(rawPhone)
	span.SetAttributes(
		attribute.String("voicebooking.assistant_id", assistantID),
		attribute.Bool("voicebooking.call.line_pool", linePoolID != ""),
	)

	call, err := i.platform.CreateCall(ctx, vapi.CallRequest{
		AssistantID:   assistantID,
		Customer:      &vapi.Customer{Number: number},
		PhoneNumberID: linePoolID,
	})
	if err != nil {
		i.logger.Error("calls: create call failed", "assistant_id", assistantID, "error", err)
		span.RecordError(err)
		return nil, fmt.Errorf("calls: initiate: %w", err)
	}
	i.logger.Info("calls: outbound call queued",
		"assistant_id", assistantID,
		"call_id", call.ID,
		"status", call.Status,
	)
	return &Result{CallID: call.ID, Status: call.Status, PhoneNumber: number}, nil
}
