// Package apperr defines the error taxonomy shared by the booking, assistant
// and call flows, and maps it onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound marks lookups against static data (personas) that matched nothing.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return "missing required fields: " + strings.Join(e.Fields, ", ")
	}
	return "invalid request"
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MissingFields builds a ValidationError naming every absent field.
func MissingFields(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// ConfigurationError reports a deployment setting that is absent at the point of use.
type ConfigurationError struct {
	Setting string
	Hint    string
}

func (e *ConfigurationError) Error() string {
	msg := e.Setting + " is not configured"
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// UpstreamError is satisfied by remote platform failures that carry the
// remote response body.
type UpstreamError interface {
	error
	Status() int
	ResponseBody() string
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

// AsUpstream extracts an UpstreamError from err's chain.
func AsUpstream(err error) (UpstreamError, bool) {
	var u UpstreamError
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}

// HTTPStatus maps err onto the status code returned at the HTTP boundary.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err), errors.Is(err, ErrNotFound):
		return http.StatusBadRequest
	case IsConfiguration(err):
		return http.StatusInternalServerError
	}
	if _, ok := AsUpstream(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
