package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for the booking webhook
// pipeline and for calls made to the voice-AI platform.
type BookingMetrics struct {
	webhookTotal     *prometheus.CounterVec
	forwardTotal     *prometheus.CounterVec
	pipelineLatency  prometheus.Histogram
	platformRequests *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicebooking",
			Subsystem: "booking",
			Name:      "webhook_total",
			Help:      "Total booking notifications by outcome",
		}, []string{"outcome"}),
		forwardTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicebooking",
			Subsystem: "booking",
			Name:      "forward_total",
			Help:      "Total downstream sink deliveries by outcome",
		}, []string{"outcome"}),
		pipelineLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voicebooking",
			Subsystem: "booking",
			Name:      "pipeline_seconds",
			Help:      "Latency of normalize, derive and forward",
			Buckets:   prometheus.DefBuckets,
		}),
		platformRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicebooking",
			Subsystem: "platform",
			Name:      "requests_total",
			Help:      "Total voice-AI platform requests by operation and HTTP status",
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.forwardTotal, m.pipelineLatency, m.platformRequests)
	return m
}

func (m *BookingMetrics) ObserveWebhook(outcome string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveForward(outcome string) {
	if m == nil {
		return
	}
	m.forwardTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObservePipelineLatency(seconds float64) {
	if m == nil {
		return
	}
	m.pipelineLatency.Observe(seconds)
}

// ObservePlatformRequest records one platform request. Status 0 means the
// request never got a response.
func (m *BookingMetrics) ObservePlatformRequest(operation string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.platformRequests.WithLabelValues(operation, label).Inc()
}
