package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const sessionClaimsKey contextKey = "sessionClaims"

// SessionCookie is the cookie name the demo UI stores its session token under.
const SessionCookie = "session"

// SessionClaims identifies one demo browser session.
type SessionClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SessionID returns the session identifier carried in the subject.
func (c SessionClaims) SessionID() string {
	return c.Subject
}

// IssueSessionToken signs an HS256 session token for sessionID.
func IssueSessionToken(secret, sessionID, name string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not configured")
	}
	claims := SessionClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SessionJWT enforces an HMAC-signed session token, read from the bearer
// header or the session cookie. An empty secret rejects every request.
func SessionJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusUnauthorized, "session auth disabled")
				return
			}
			tokenString := sessionToken(r)
			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims := SessionClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session claims if present.
func SessionFromContext(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(SessionClaims)
	return claims, ok
}

// WithSession attaches claims to ctx. Used by tests and the lambda entrypoint.
func WithSession(ctx context.Context, claims SessionClaims) context.Context {
	return context.WithValue(ctx, sessionClaimsKey, claims)
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
