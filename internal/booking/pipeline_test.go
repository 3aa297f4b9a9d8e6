package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

type fakeMetrics struct {
	mu      sync.Mutex
	webhook []string
	forward []string
	latency int
}

func (m *fakeMetrics) ObserveWebhook(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.webhook = append(m.webhook, outcome)
}

func (m *fakeMetrics) ObserveForward(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forward = append(m.forward, outcome)
}

func (m *fakeMetrics) ObservePipelineLatency(float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency++
}

type recordingSink struct {
	*httptest.Server
	mu       sync.Mutex
	payloads []EnrichedPayload
}

func newRecordingSink(t *testing.T, status int) *recordingSink {
	s := &recordingSink{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p EnrichedPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		s.mu.Lock()
		s.payloads = append(s.payloads, p)
		s.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestService(sinkURL string, m Metrics) *Service {
	logger := logging.New("error")
	return NewService(NewForwarder(ForwarderConfig{SinkURL: sinkURL, Logger: logger}), m, logger)
}

func TestServiceEndToEnd(t *testing.T) {
	sink := newRecordingSink(t, http.StatusOK)
	m := &fakeMetrics{}
	svc := newTestService(sink.URL, m)

	res, err := svc.Handle(context.Background(), snakeFields())
	require.NoError(t, err)

	assert.Equal(t, janeDoe, res.Booking)
	assert.Equal(t, "2024-01-15T15:00:00.000Z", res.Enriched.Start)
	assert.Equal(t, "2024-01-15T16:00:00.000Z", res.Enriched.End)
	assert.Equal(t, OutcomeDelivered, res.Forward.Outcome)

	require.Len(t, sink.payloads, 1)
	forwarded := sink.payloads[0]
	assert.Contains(t, forwarded.Summary, "Jane Doe")
	assert.Contains(t, forwarded.Summary, "Modern Barber")
	assert.Equal(t, res.Enriched.EventID, forwarded.EventID)

	assert.Equal(t, []string{"accepted"}, m.webhook)
	assert.Equal(t, []string{"delivered"}, m.forward)
	assert.Equal(t, 1, m.latency)
}

func TestServiceUnparsableTimeStillForwards(t *testing.T) {
	sink := newRecordingSink(t, http.StatusOK)
	svc := newTestService(sink.URL, nil)

	res, err := svc.HandleJSON(context.Background(),
		[]byte(`{"arguments":{"customerName":"Jane","appointmentTime":"bad-date","shopName":"Shop"}}`))
	require.NoError(t, err)

	assert.Equal(t, Record{CustomerName: "Jane", AppointmentTime: "bad-date", ShopName: "Shop"}, res.Booking)
	assert.Equal(t, "bad-date", res.Enriched.Start)
	assert.Equal(t, "bad-date", res.Enriched.End)
	require.Len(t, sink.payloads, 1)
	assert.Equal(t, "bad-date", sink.payloads[0].Start)
}

func TestServiceSinkFailureDoesNotFail(t *testing.T) {
	sink := newRecordingSink(t, http.StatusBadGateway)
	m := &fakeMetrics{}
	res, err := newTestService(sink.URL, m).Handle(context.Background(), snakeFields())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, res.Forward.Outcome)
	assert.Equal(t, []string{"accepted"}, m.webhook)
	assert.Equal(t, []string{"failed"}, m.forward)
}

func TestServiceWithoutSink(t *testing.T) {
	m := &fakeMetrics{}
	res, err := newTestService("", m).Handle(context.Background(), snakeFields())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Forward.Outcome)
	assert.Equal(t, []string{"skipped"}, m.forward)
}

func TestServiceRejectionSkipsForwarding(t *testing.T) {
	sink := newRecordingSink(t, http.StatusOK)
	m := &fakeMetrics{}
	_, err := newTestService(sink.URL, m).Handle(context.Background(), map[string]any{"customer_name": "Jane"})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, sink.payloads)
	assert.Equal(t, []string{"rejected"}, m.webhook)
	assert.Empty(t, m.forward)
}

func TestServiceConcurrentBookingsForwardIndependently(t *testing.T) {
	sink := newRecordingSink(t, http.StatusOK)
	svc := newTestService(sink.URL, &fakeMetrics{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Handle(context.Background(), snakeFields())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, sink.payloads, 2)
	assert.NotEqual(t, sink.payloads[0].EventID, sink.payloads[1].EventID)
}
