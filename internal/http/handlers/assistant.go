package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/assistant"
	"github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

type assistantPublisher interface {
	Publish(ctx context.Context, assistantID string, persona personas.Persona, c *personas.Customization, includeLegacyFunction bool) (*assistant.PublishResult, error)
	Setup(ctx context.Context, assistantID string) (*assistant.SetupResult, error)
	Check(ctx context.Context, assistantID string) (*assistant.Status, error)
}

// AssistantHandler exposes the assistant configuration operations.
type AssistantHandler struct {
	publisher   assistantPublisher
	catalog     *personas.Catalog
	store       personas.CustomizationStore
	assistantID string
	logger      *logging.Logger
}

// AssistantHandlerConfig configures the AssistantHandler.
type AssistantHandlerConfig struct {
	Publisher assistantPublisher
	Catalog   *personas.Catalog
	Store     personas.CustomizationStore
	// AssistantID is the deployment's default assistant.
	AssistantID string
	Logger      *logging.Logger
}

// NewAssistantHandler creates an AssistantHandler.
func NewAssistantHandler(cfg AssistantHandlerConfig) *AssistantHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &AssistantHandler{
		publisher:   cfg.Publisher,
		catalog:     cfg.Catalog,
		store:       cfg.Store,
		assistantID: strings.TrimSpace(cfg.AssistantID),
		logger:      cfg.Logger,
	}
}

type updateAssistantRequest struct {
	PersonaID     string                  `json:"personaId"`
	Customization *personas.Customization `json:"customization,omitempty" validate:"-"`
}

// UpdateAssistant is the HTTP handler for PATCH /api/vapi/update-assistant.
func (h *AssistantHandler) UpdateAssistant(w http.ResponseWriter, r *http.Request) {
	var req updateAssistantRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.PersonaID) == "" {
		writeError(w, h.logger, apperr.Validation("personaId is required"))
		return
	}
	persona, err := h.catalog.Get(req.PersonaID)
	if err != nil {
		writeError(w, h.logger, apperr.Validation("Invalid persona ID"))
		return
	}
	if h.assistantID == "" {
		writeError(w, h.logger, &apperr.ConfigurationError{Setting: "VAPI_ASSISTANT_ID"})
		return
	}

	custom := req.Customization
	if !custom.Identifies() {
		custom = nil
	}
	effective := personas.Effective(persona, custom)
	res, err := h.publisher.Publish(r.Context(), h.assistantID, persona, &effective, true)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.remember(r.Context(), persona.ID, effective)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"assistant":     res.Assistant,
		"persona":       persona.Name,
		"toolBinding":   res.Binding,
		"customization": effective,
		"firstMessage":  res.Document.FirstMessage,
	})
}

// remember stores the effective customization for the caller's session.
// Store failures are logged, not returned.
func (h *AssistantHandler) remember(ctx context.Context, personaID string, c personas.Customization) {
	claims, ok := middleware.SessionFromContext(ctx)
	if !ok || h.store == nil {
		return
	}
	if err := h.store.Put(ctx, claims.SessionID(), personaID, c); err != nil {
		h.logger.Warn("assistant: failed to store customization", "persona_id", personaID, "error", err)
	}
}

type setupAssistantRequest struct {
	AssistantID string `json:"assistantId"`
}

// SetupAssistant is the HTTP handler for POST /api/vapi/setup-assistant.
func (h *AssistantHandler) SetupAssistant(w http.ResponseWriter, r *http.Request) {
	var req setupAssistantRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, h.logger, err)
		return
	}
	assistantID := strings.TrimSpace(req.AssistantID)
	if assistantID == "" {
		assistantID = h.assistantID
	}
	if assistantID == "" {
		writeError(w, h.logger, apperr.Validation("Assistant ID is required. Set VAPI_ASSISTANT_ID or provide assistantId in the request"))
		return
	}

	res, err := h.publisher.Setup(r.Context(), assistantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"assistantId": res.AssistantID,
		"message":     res.Message,
	})
}

// GetAssistant is the HTTP handler for GET /api/vapi/assistant.
func (h *AssistantHandler) GetAssistant(w http.ResponseWriter, r *http.Request) {
	st, err := h.publisher.Check(r.Context(), h.assistantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
