package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeUpstream struct{}

func (fakeUpstream) Error() string        { return "upstream failed" }
func (fakeUpstream) Status() int          { return 422 }
func (fakeUpstream) ResponseBody() string { return `{"message":"bad"}` }

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "missing required fields: customer_name, shop_name",
		MissingFields("customer_name", "shop_name").Error())
	assert.Equal(t, "phoneNumber is required", Validation("%s is required", "phoneNumber").Error())
	assert.Equal(t, "invalid request", (&ValidationError{}).Error())
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Setting: "VAPI_API_KEY", Hint: "Set it in .env"}
	assert.Equal(t, "VAPI_API_KEY is not configured. Set it in .env", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", MissingFields("a"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("ctx: %w", Validation("bad")), http.StatusBadRequest},
		{"not found", fmt.Errorf("persona x: %w", ErrNotFound), http.StatusBadRequest},
		{"configuration", &ConfigurationError{Setting: "X"}, http.StatusInternalServerError},
		{"upstream", fmt.Errorf("publish: %w", fakeUpstream{}), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAsUpstream(t *testing.T) {
	u, ok := AsUpstream(fmt.Errorf("wrap: %w", fakeUpstream{}))
	assert.True(t, ok)
	assert.Equal(t, 422, u.Status())
	assert.Equal(t, `{"message":"bad"}`, u.ResponseBody())

	_, ok = AsUpstream(errors.New("plain"))
	assert.False(t, ok)
}
