package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cleared-dev/ledgerctl/internal/wire"
)

var (
	// ErrRequestFailed wraps failures where no response was received.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnauthorized matches any 401 response.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response. Message is the server's error text when it
// sent one.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	msg := ""
	if r, err := wire.Decode(body); err == nil {
		msg = r.String("error", "Error", "message")
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: msg, RequestID: requestID}
}
