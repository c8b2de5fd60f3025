package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fieldops/fieldops/internal/model"
)

// ErrNoRefreshToken indicates a 401 could not be recovered because the
// store holds no refresh token. No refresh call is attempted.
var ErrNoRefreshToken = errors.New("no refresh token available")

// Error is a non-2xx response from the backend, carrying the loosely
// typed error body when one could be decoded.
type Error struct {
	StatusCode int
	Body       model.ErrorBody
	Raw        string
}

func (e *Error) Error() string {
	msg := e.Message()
	if msg != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("backend error (%d)", e.StatusCode)
}

// Message returns the most specific text the backend provided,
// preferring message, then detail, then the error field.
func (e *Error) Message() string {
	if strings.TrimSpace(e.Body.Message) != "" {
		return e.Body.Message
	}
	if strings.TrimSpace(e.Body.Detail) != "" {
		return e.Body.Detail
	}
	if strings.TrimSpace(e.Body.Error) != "" {
		return e.Body.Error
	}
	return ""
}

// newError builds an Error from a response body, tolerating bodies
// that are not the structured error shape.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Raw: string(body)}
	// Decode failures leave Body zero; Message falls through.
	_ = json.Unmarshal(body, &e.Body)
	return e
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsBackendError reports whether err is a definitive backend response
// (as opposed to a transport failure), and returns it if so.
func IsBackendError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
