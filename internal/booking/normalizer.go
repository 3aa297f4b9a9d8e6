// Package booking turns the voice-AI platform's booking tool-call
// notification into a canonical record, derives calendar fields from it and
// forwards the result to the downstream scheduling sink.
package booking

import (
	"encoding/json"
	"strings"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
)

// Record is the canonical three-field appointment request.
type Record struct {
	CustomerName    string `json:"customer_name"`
	AppointmentTime string `json:"appointment_time"`
	ShopName        string `json:"shop_name"`
}

// fieldAlias names one record field under both observed conventions.
type fieldAlias struct {
	snake string
	camel string
}

var (
	customerNameField    = fieldAlias{snake: "customer_name", camel: "customerName"}
	appointmentTimeField = fieldAlias{snake: "appointment_time", camel: "appointmentTime"}
	shopNameField        = fieldAlias{snake: "shop_name", camel: "shopName"}
)

// Strategy locates the object holding booking fields within one payload shape.
type Strategy struct {
	Name   string
	Source func(raw map[string]any) (map[string]any, bool)
}

// Extract reads a partial record from raw. ok is false when the strategy's
// shape is absent from the payload.
func (s Strategy) Extract(raw map[string]any) (Record, bool) {
	src, ok := s.Source(raw)
	if !ok {
		return Record{}, false
	}
	return Record{
		CustomerName:    readAlias(src, customerNameField),
		AppointmentTime: readAlias(src, appointmentTimeField),
		ShopName:        readAlias(src, shopNameField),
	}, true
}

// Strategies lists the payload shapes in priority order.
var Strategies = []Strategy{
	{Name: "arguments", Source: func(raw map[string]any) (map[string]any, bool) {
		return objectAt(raw, "arguments")
	}},
	{Name: "functionCall.arguments", Source: func(raw map[string]any) (map[string]any, bool) {
		fc, ok := objectAt(raw, "functionCall")
		if !ok {
			return nil, false
		}
		return objectAt(fc, "arguments")
	}},
	{Name: "root", Source: func(raw map[string]any) (map[string]any, bool) {
		return raw, raw != nil
	}},
}

// Normalize builds the canonical record from a raw notification. Strategies
// are consulted in priority order and, per field, the first non-empty value
// wins. A record missing any field is rejected with a ValidationError naming
// the missing fields.
func Normalize(raw map[string]any) (Record, error) {
	var rec Record
	for _, s := range Strategies {
		part, ok := s.Extract(raw)
		if !ok {
			continue
		}
		rec = rec.fillFrom(part)
		if rec.complete() {
			break
		}
	}
	if missing := rec.missingFields(); len(missing) > 0 {
		return Record{}, apperr.MissingFields(missing...)
	}
	return rec, nil
}

// NormalizeJSON decodes body and normalizes it. A body that is not a JSON
// object is a validation error.
func NormalizeJSON(body []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return Record{}, apperr.Validation("request body must be a JSON object")
	}
	return Normalize(raw)
}

func (r Record) fillFrom(o Record) Record {
	if r.CustomerName == "" {
		r.CustomerName = o.CustomerName
	}
	if r.AppointmentTime == "" {
		r.AppointmentTime = o.AppointmentTime
	}
	if r.ShopName == "" {
		r.ShopName = o.ShopName
	}
	return r
}

func (r Record) complete() bool {
	return len(r.missingFields()) == 0
}

func (r Record) missingFields() []string {
	var missing []string
	if r.CustomerName == "" {
		missing = append(missing, customerNameField.snake)
	}
	if r.AppointmentTime == "" {
		missing = append(missing, appointmentTimeField.snake)
	}
	if r.ShopName == "" {
		missing = append(missing, shopNameField.snake)
	}
	return missing
}

// readAlias prefers the snake_case key and falls back to camelCase when the
// snake_case value is absent or empty.
func readAlias(src map[string]any, f fieldAlias) string {
	if v := stringAt(src, f.snake); v != "" {
		return v
	}
	return stringAt(src, f.camel)
}

// stringAt returns the string under key unchanged. Blank values count as absent.
func stringAt(src map[string]any, key string) string {
	s, _ := src[key].(string)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// objectAt returns the object stored under key. Platforms that follow the
// OpenAI function-call convention send arguments as a JSON-encoded string,
// so a string holding a JSON object is accepted too.
func objectAt(src map[string]any, key string) (map[string]any, bool) {
	switch v := src[key].(type) {
	case map[string]any:
		return v, true
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil && decoded != nil {
			return decoded, true
		}
	}
	return nil, false
}
