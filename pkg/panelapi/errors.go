package panelapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks an authorization failure from the backend. Callers
// must treat it as fatal to the session: never retried, never shown inline.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError carries the backend's 422 message verbatim so pages can
// surface it next to the submitted form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusUnprocessableEntity:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
			payload.Message = "data tidak valid"
		}
		return &ValidationError{Message: payload.Message}
	case status >= 400:
		return fmt.Errorf("backend returned status %d", status)
	}
	return nil
}

// IsValidation extracts a ValidationError when err wraps one.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
