package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// GenericFailureMessage is shown when the backend gave us nothing usable.
const GenericFailureMessage = "The operation could not be completed. Please try again."

// APIError is a failed backend call: either a non-2xx response (StatusCode set)
// or a transport failure (StatusCode zero).
type APIError struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend call failed: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// newAPIError extracts the server-provided message from an error response
// body. The backend uses {"error": "..."} for failures; some endpoints use
// {"message": "..."}. Either wins over the generic fallback.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: GenericFailureMessage}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}
	if envelope.Error != "" {
		apiErr.Message = envelope.Error
	} else if envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}

// UserMessage extracts the best human-readable message from a backend failure,
// falling back to the generic message for non-API errors.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return GenericFailureMessage
}

// StatusOf returns the HTTP status of a backend failure, or zero for transport
// errors and non-API errors.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
