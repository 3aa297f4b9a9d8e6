package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/voice-booking-demo/internal/booking"
	"github.com/wolfman30/voice-booking-demo/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/voice-booking-demo/internal/http/middleware"
	"github.com/wolfman30/voice-booking-demo/internal/personas"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.Default()
	catalog := personas.DefaultCatalog()
	store := personas.NewMemoryCustomizationStore(time.Hour)
	service := booking.NewService(nil, nil, logger)

	cfg := &Config{
		Logger:             logger,
		BookingWebhook:     handlers.NewBookingWebhookHandler(service, logger),
		Personas:           handlers.NewPersonasHandler(catalog, store, logger),
		Auth:               handlers.NewAuthHandler(testSecret, time.Hour, false, logger),
		SessionSecret:      testSecret,
		WebhookRateLimiter: limiter,
		MetricsHandler:     promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	}
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterBookingWebhookAndAlias(t *testing.T) {
	router := newTestRouter(t, nil)
	body := `{"arguments":{"customer_name":"Ana","appointment_time":"2025-03-04T15:00:00Z","shop_name":"Fade Co"}}`

	for _, path := range []string{"/api/webhook/booking", "/api/webhook/make"} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, true, resp["success"])
		})
	}
}

func TestRouterBookingWebhookRateLimited(t *testing.T) {
	router := newTestRouter(t, httpmiddleware.NewRateLimiter(0.001, 1))
	body := `{"customerName":"Ana","appointmentTime":"2025-03-04T15:00:00Z","shopName":"Fade Co"}`

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/webhook/booking", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/webhook/booking", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouterPersonasIsPublic(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/personas", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "modern-barber")
}

func TestRouterSessionRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/personas/modern-barber/customization", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouterLoginThenCustomize(t *testing.T) {
	router := newTestRouter(t, nil)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"demo@example.com","password":"secret"}`)))
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	put := httptest.NewRequest(http.MethodPut, "/api/personas/modern-barber/customization",
		strings.NewReader(`{"companyName":"Fade Co","service":"haircuts"}`))
	put.Header.Set("Authorization", "Bearer "+loginResp.Token)
	putRR := httptest.NewRecorder()
	router.ServeHTTP(putRR, put)
	require.Equal(t, http.StatusOK, putRR.Code, putRR.Body.String())

	get := httptest.NewRequest(http.MethodGet, "/api/personas/modern-barber/customization", nil)
	get.Header.Set("Authorization", "Bearer "+loginResp.Token)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, get)
	require.Equal(t, http.StatusOK, getRR.Code)
	assert.Contains(t, getRR.Body.String(), "Fade Co")
}
