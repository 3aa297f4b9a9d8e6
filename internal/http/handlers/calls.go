package handlers

import (
	"context"
	"net/http"

	"github.com/wolfman30/voice-booking-demo/internal/calls"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

type callInitiator interface {
	InitiateCall(ctx context.Context, assistantID, rawPhone, linePoolID string) (*calls.Result, error)
}

// CallsHandler places outbound demo calls.
type CallsHandler struct {
	initiator   callInitiator
	assistantID string
	linePoolID  string
	logger      *logging.Logger
}

// NewCallsHandler creates a CallsHandler. linePoolID may be empty.
func NewCallsHandler(initiator callInitiator, assistantID, linePoolID string, logger *logging.Logger) *CallsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CallsHandler{initiator: initiator, assistantID: assistantID, linePoolID: linePoolID, logger: logger}
}

type createCallRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type createCallResponse struct {
	Success bool `json:"success"`
	calls.Result
}

// CreateCall is the HTTP handler for POST /api/vapi/create-call.
func (h *CallsHandler) CreateCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.initiator.InitiateCall(r.Context(), h.assistantID, req.PhoneNumber, h.linePoolID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, createCallResponse{Success: true, Result: *res})
}
