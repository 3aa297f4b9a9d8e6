package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/booking"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

type bookingPipeline interface {
	HandleJSON(ctx context.Context, body []byte) (*booking.Result, error)
}

// BookingWebhookHandler receives the platform's booking tool-call
// notifications.
type BookingWebhookHandler struct {
	pipeline bookingPipeline
	logger   *logging.Logger
}

// BookingWebhookResponse is returned once a notification is normalized.
// It reports success even when the downstream sink was unavailable.
type BookingWebhookResponse struct {
	Success         bool                    `json:"success"`
	Message         string                  `json:"message"`
	Booking         booking.Record          `json:"booking"`
	EnrichedPayload booking.EnrichedPayload `json:"enrichedPayload"`
	Forward         booking.Outcome         `json:"forward"`
}

// NewBookingWebhookHandler creates a BookingWebhookHandler.
func NewBookingWebhookHandler(pipeline bookingPipeline, logger *logging.Logger) *BookingWebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingWebhookHandler{pipeline: pipeline, logger: logger}
}

// Handle is the HTTP handler for POST /api/webhook/booking.
func (h *BookingWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Error("booking webhook: failed to read body", "error", err)
		writeError(w, h.logger, apperr.Validation("could not read request body"))
		return
	}

	res, err := h.pipeline.HandleJSON(r.Context(), body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, BookingWebhookResponse{
		Success:         true,
		Message:         "Booking received",
		Booking:         res.Booking,
		EnrichedPayload: res.Enriched,
		Forward:         res.Forward.Outcome,
	})
}
