package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

// DemoUserName is the display name attached to every demo session.
const DemoUserName = "Demo Salesperson"

// AuthHandler issues demo session tokens.
type AuthHandler struct {
	secret string
	ttl    time.Duration
	secure bool
	logger *logging.Logger
	now    func() time.Time
}

// NewAuthHandler creates an AuthHandler. secure marks the session cookie
// Secure, which production deployments behind TLS should set.
func NewAuthHandler(secret string, ttl time.Duration, secure bool, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{secret: secret, ttl: ttl, secure: secure, logger: logger, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login is the HTTP handler for POST /api/auth/login. Any well-formed email
// with a non-empty password gets a fresh session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		writeError(w, h.logger, &apperr.ConfigurationError{Setting: "SESSION_SECRET"})
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}

	now := h.now()
	sessionID := uuid.NewString()
	token, err := middleware.IssueSessionToken(h.secret, sessionID, DemoUserName, h.ttl, now)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	expires := now.Add(h.ttl)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("auth: demo session issued", "session_id", sessionID)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		SessionID: sessionID,
		Name:      DemoUserName,
		Email:     req.Email,
		ExpiresAt: expires.UTC(),
	})
}
