package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/example/reclam/internal/sentinel"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError translates a sentinel-wrapped error into a status and JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{
		Error:   sentinel.Code(err),
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sentinel.ErrValidation), errors.Is(err, sentinel.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sentinel.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, sentinel.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a single JSON object into dst. Malformed bodies are validation errors.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %v: %w", err, sentinel.ErrValidation)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("body exceeds %d bytes: %w", maxBodyBytes, sentinel.ErrValidation)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("request body is required: %w", sentinel.ErrValidation)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("malformed JSON body: %v: %w", err, sentinel.ErrValidation)
	}
	return nil
}

// flexibleID accepts an id sent as a JSON string or number.
type flexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number")
	}
	*f = flexibleID(n.String())
	return nil
}
