package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

var tracer = otel.Tracer("voicebooking.internal.booking")

// Metrics receives pipeline observations.
type Metrics interface {
	ObserveWebhook(outcome string)
	ObserveForward(outcome string)
	ObservePipelineLatency(seconds float64)
}

// Result is the outcome of one successfully normalized notification.
type Result struct {
	Booking  Record
	Enriched EnrichedPayload
	Forward  ForwardResult
}

// Service runs normalize, derive and forward for one notification.
type Service struct {
	forwarder *Forwarder
	metrics   Metrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewService wires the pipeline. metrics may be nil.
func NewService(forwarder *Forwarder, metrics Metrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if forwarder == nil {
		forwarder = NewForwarder(ForwarderConfig{Logger: logger})
	}
	return &Service{forwarder: forwarder, metrics: metrics, logger: logger, now: time.Now}
}

// HandleJSON decodes body and runs the pipeline.
func (s *Service) HandleJSON(ctx context.Context, body []byte) (*Result, error) {
	return s.run(ctx, func() (Record, error) { return NormalizeJSON(body) })
}

// Handle runs the pipeline on an already-decoded payload. Normalization
// failures are ValidationErrors; derivation and forwarding never fail.
func (s *Service) Handle(ctx context.Context, raw map[string]any) (*Result, error) {
	return s.run(ctx, func() (Record, error) { return Normalize(raw) })
}

func (s *Service) run(ctx context.Context, normalize func() (Record, error)) (*Result, error) {
	ctx, span := tracer.Start(ctx, "booking.webhook")
	defer span.End()
	start := s.now()

	rec, err := s.normalize(ctx, normalize)
	if err != nil {
		span.RecordError(err)
		s.observeWebhook("rejected")
		return nil, err
	}
	return s.process(ctx, rec, start), nil
}

func (s *Service) normalize(ctx context.Context, fn func() (Record, error)) (Record, error) {
	_, span := tracer.Start(ctx, "booking.normalize")
	defer span.End()
	rec, err := fn()
	if err != nil {
		if apperr.IsValidation(err) {
			s.logger.Warn("booking: rejected notification", "error", err)
		}
		span.RecordError(err)
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) process(ctx context.Context, rec Record, start time.Time) *Result {
	enriched := Enrich(rec, s.now())
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("voicebooking.booking.event_id", enriched.EventID),
		attribute.String("voicebooking.booking.shop_name", rec.ShopName),
	)
	s.logger.Info("booking: received",
		"event_id", enriched.EventID,
		"customer_name", rec.CustomerName,
		"shop_name", rec.ShopName,
		"appointment_time", rec.AppointmentTime,
		"start", enriched.Start,
	)

	fwd := s.forwarder.Forward(ctx, enriched)
	s.observeWebhook("accepted")
	if s.metrics != nil {
		s.metrics.ObserveForward(string(fwd.Outcome))
		s.metrics.ObservePipelineLatency(s.now().Sub(start).Seconds())
	}
	return &Result{Booking: rec, Enriched: enriched, Forward: fwd}
}

func (s *Service) observeWebhook(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveWebhook(outcome)
	}
}
