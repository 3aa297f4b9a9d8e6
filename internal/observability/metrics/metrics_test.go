package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveWebhook("accepted")
	m.ObserveWebhook("accepted")
	m.ObserveWebhook("rejected")
	m.ObserveForward("skipped")
	m.ObservePipelineLatency(0.02)
	m.ObservePlatformRequest("update_assistant", 200)
	m.ObservePlatformRequest("create_call", 0)

	assert.Equal(t, 2.0, counterValue(t, reg, "voicebooking_booking_webhook_total", map[string]string{"outcome": "accepted"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "voicebooking_booking_webhook_total", map[string]string{"outcome": "rejected"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "voicebooking_booking_forward_total", map[string]string{"outcome": "skipped"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "voicebooking_platform_requests_total", map[string]string{"operation": "update_assistant", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "voicebooking_platform_requests_total", map[string]string{"operation": "create_call", "status": "error"}))

	families, err := reg.Gather()
	require.NoError(t, err)
	var sampleCount uint64
	for _, mf := range families {
		if mf.GetName() == "voicebooking_booking_pipeline_seconds" {
			sampleCount = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), sampleCount)
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveWebhook("accepted")
	m.ObserveForward("delivered")
	m.ObservePipelineLatency(0.1)
	m.ObservePlatformRequest("get_assistant", 200)
}
