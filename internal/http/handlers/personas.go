package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

// PersonasHandler lists personas and manages per-session customizations.
type PersonasHandler struct {
	catalog *personas.Catalog
	store   personas.CustomizationStore
	logger  *logging.Logger
}

// NewPersonasHandler creates a PersonasHandler.
func NewPersonasHandler(catalog *personas.Catalog, store personas.CustomizationStore, logger *logging.Logger) *PersonasHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PersonasHandler{catalog: catalog, store: store, logger: logger}
}

// List is the HTTP handler for GET /api/personas.
func (h *PersonasHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"personas": h.catalog.All()})
}

type customizationResponse struct {
	PersonaID     string                  `json:"personaId"`
	Customization *personas.Customization `json:"customization"`
	Effective     personas.Customization  `json:"effective"`
}

// GetCustomization is the HTTP handler for GET /api/personas/{personaID}/customization.
func (h *PersonasHandler) GetCustomization(w http.ResponseWriter, r *http.Request) {
	persona, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}
	c, err := h.store.Get(r.Context(), sessionID, persona.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, customizationResponse{
		PersonaID:     persona.ID,
		Customization: c,
		Effective:     personas.Effective(persona, c),
	})
}

// PutCustomization is the HTTP handler for PUT /api/personas/{personaID}/customization.
func (h *PersonasHandler) PutCustomization(w http.ResponseWriter, r *http.Request) {
	persona, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var c personas.Customization
	if err := readJSON(r, &c, false); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}
	stored := c.Trimmed()
	if err := h.store.Put(r.Context(), sessionID, persona.ID, stored); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, customizationResponse{
		PersonaID:     persona.ID,
		Customization: &stored,
		Effective:     personas.Effective(persona, &stored),
	})
}

// DeleteCustomization is the HTTP handler for DELETE /api/personas/{personaID}/customization.
func (h *PersonasHandler) DeleteCustomization(w http.ResponseWriter, r *http.Request) {
	persona, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), sessionID, persona.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PersonasHandler) resolve(w http.ResponseWriter, r *http.Request) (personas.Persona, string, bool) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return personas.Persona{}, "", false
	}
	persona, err := h.catalog.Get(chi.URLParam(r, "personaID"))
	if err != nil {
		writeError(w, h.logger, apperr.Validation("Invalid persona ID"))
		return personas.Persona{}, "", false
	}
	return persona, claims.SessionID(), true
}
