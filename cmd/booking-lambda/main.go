package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/voice-booking-demo/internal/booking"
	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
	"github.com/wolfman30/voice-booking-demo/internal/http/handlers"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	forwarder := booking.NewForwarder(booking.ForwarderConfig{
		SinkURL: cfg.SinkWebhookURL,
		Timeout: cfg.SinkTimeout,
		Logger:  logger,
	})
	webhook := handlers.NewBookingWebhookHandler(booking.NewService(forwarder, nil, logger), logger)
	serve := http.HandlerFunc(webhook.Handle)

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, serve, evt)
	})
}

// handle serves the booking webhook in-process so status codes and bodies
// match the HTTP server exactly.
func handle(ctx context.Context, webhook http.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	switch path {
	case "/", "/api/webhook/booking", "/api/webhook/make":
	default:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid body"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	if ct := headerValue(evt.Headers, "content-type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	rw := newResponseWriter()
	webhook.ServeHTTP(rw, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rw.status,
		Body:       rw.body.String(),
		Headers:    map[string]string{},
	}
	if ct := rw.header.Get("Content-Type"); ct != "" {
		out.Headers["content-type"] = ct
	}
	return out, nil
}

// responseWriter buffers a handler's response for the Lambda proxy result.
type responseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}, status: http.StatusOK}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) Write(p []byte) (int, error) { return w.body.Write(p) }

func (w *responseWriter) WriteHeader(status int) { w.status = status }

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
