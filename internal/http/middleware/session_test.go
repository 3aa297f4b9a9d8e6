package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := SessionFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(claims.SessionID()))
	})
}

func TestSessionJWTAcceptsBearer(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "sess-1", "Demo Salesperson", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	SessionJWT(testSecret)(sessionEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-1", rec.Body.String())
}

func TestSessionJWTAcceptsCookie(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "sess-2", "", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	SessionJWT(testSecret)(sessionEcho()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-2", rec.Body.String())
}

func TestSessionJWTRejects(t *testing.T) {
	expired, err := IssueSessionToken(testSecret, "sess", "", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	wrongKey, err := IssueSessionToken("other", "sess", "", time.Hour, time.Now())
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := []struct {
		name   string
		secret string
		header string
	}{
		{"disabled", "", "Bearer " + wrongKey},
		{"missing", testSecret, ""},
		{"garbage", testSecret, "Bearer not-a-token"},
		{"expired", testSecret, "Bearer " + expired},
		{"wrong key", testSecret, "Bearer " + wrongKey},
		{"no subject", testSecret, "Bearer " + noSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			SessionJWT(tc.secret)(sessionEcho()).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestIssueSessionTokenRequiresSecret(t *testing.T) {
	_, err := IssueSessionToken("", "sess", "", time.Hour, time.Now())
	assert.Error(t, err)
}
