package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is the classification of a failed link validation. The set is
// closed: every failure maps to exactly one of these kinds.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota + 1
	KindTimeout
	KindInvalidStatus
	KindInvalidHTML
	KindMissingTitle
)

// ErrMissingTitle is returned by title extraction when the body has no title element.
var ErrMissingTitle = errors.New("missing title element")

// LinkError describes why a link failed validation.
type LinkError struct {
	Kind       ErrorKind
	StatusCode int   // HTTP status, set only for KindInvalidStatus
	Err        error // Underlying cause, may be nil
}

// NewStatusError returns an InvalidStatus error carrying the received status code.
func NewStatusError(code int) *LinkError {
	return &LinkError{Kind: KindInvalidStatus, StatusCode: code}
}

func (e *LinkError) Error() string {
	switch {
	case e.Kind == KindInvalidStatus:
		return fmt.Sprintf("%s: status %d", e.Code(), e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code(), e.Err)
	default:
		return e.Code()
	}
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// Code returns the report code for the error.
func (e *LinkError) Code() string {
	switch e.Kind {
	case KindTimeout:
		return "TIMEOUT"
	case KindNetwork:
		return "NETWORK_ERROR"
	case KindInvalidStatus:
		switch {
		case e.StatusCode == 404:
			return "NOT_FOUND"
		case e.StatusCode >= 500 && e.StatusCode <= 599:
			return "SERVER_ERROR"
		default:
			return "HTTP_ERROR"
		}
	case KindInvalidHTML:
		return "INVALID_HTML"
	case KindMissingTitle:
		return "MISSING_TITLE"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the error as its code, status, and message.
func (e *LinkError) MarshalJSON() ([]byte, error) {
	out := struct {
		Code       string `json:"code"`
		StatusCode int    `json:"status_code,omitempty"`
		Message    string `json:"message"`
	}{
		Code:       e.Code(),
		StatusCode: e.StatusCode,
		Message:    e.Error(),
	}
	return json.Marshal(out)
}

// ClassifyTransportError determines whether a failed request timed out or
// failed for any other transport-level reason (DNS, refused connection, TLS,
// malformed URL).
func ClassifyTransportError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	// http.Client timeouts surface as *url.Error, which implements net.Error
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindNetwork
}

// FormatKind returns a human-readable label for an error code.
func FormatKind(code string) string {
	switch code {
	case "NOT_FOUND":
		return "Not Found (404)"
	case "SERVER_ERROR":
		return "Server Errors (5xx)"
	case "HTTP_ERROR":
		return "Other HTTP Errors"
	case "TIMEOUT":
		return "Timeouts"
	case "NETWORK_ERROR":
		return "Network Errors"
	case "INVALID_HTML":
		return "Unreadable Bodies"
	case "MISSING_TITLE":
		return "Missing Titles"
	default:
		return "Other Errors"
	}
}
