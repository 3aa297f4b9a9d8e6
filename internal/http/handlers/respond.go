package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/voice-booking-demo/internal/apperr"
	"github.com/wolfman30/voice-booking-demo/internal/validation"
	"github.com/wolfman30/voice-booking-demo/pkg/logging"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope returned by every handler.
type errorBody struct {
	Error    string `json:"error"`
	Upstream string `json:"upstream,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err onto a status and JSON body. Internal failures are
// logged and reported generically.
func writeError(w http.ResponseWriter, logger *logging.Logger, err error) {
	status := apperr.HTTPStatus(err)
	body := errorBody{Error: err.Error()}
	if up, ok := apperr.AsUpstream(err); ok {
		body.Upstream = up.ResponseBody()
	}
	if status == http.StatusInternalServerError && !apperr.IsConfiguration(err) {
		logger.Error("request failed", "error", err)
		body.Error = "Internal server error"
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into dst and validates it. An empty
// body leaves dst untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if err := readJSON(r, dst, allowEmpty); err != nil {
		return err
	}
	return validation.Struct(dst)
}

// readJSON is decodeJSON without struct validation.
func readJSON(r *http.Request, dst any, allowEmpty bool) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Validation("could not read request body")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		if allowEmpty {
			return nil
		}
		return apperr.Validation("request body is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
