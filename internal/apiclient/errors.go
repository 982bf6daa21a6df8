package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSessionExpired matches any 401/403 response. The caller still gets
	// the full *Error; this sentinel only marks it.
	ErrSessionExpired = errors.New("session expired")

	// ErrTimeout indicates the request exceeded the per-request timeout.
	ErrTimeout = errors.New("request timed out")
)

// Kind classifies a failed call.
type Kind string

const (
	KindTransport Kind = "transport"
	KindHTTP      Kind = "http"
	KindDecode    Kind = "decode"
)

// Error is returned by every failed Client call.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int    // set for KindHTTP
	Message string // server-provided message, when present
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}
	switch e.Kind {
	case KindHTTP:
		fmt.Fprintf(&b, "server returned %d", e.Status)
		if e.Message != "" {
			b.WriteString(": " + e.Message)
		}
	case KindDecode:
		b.WriteString("unexpected response body")
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
	default:
		b.WriteString("request failed")
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSessionExpired) match auth failures.
func (e *Error) Is(target error) bool {
	return target == ErrSessionExpired && e.SessionExpired()
}

// SessionExpired reports whether the server rejected the credentials.
func (e *Error) SessionExpired() bool {
	return e.Kind == KindHTTP && isAuthFailure(e.Status)
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the server-provided message carried by err, if any.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// DecodeError wraps a body that matched no accepted shape.
func DecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// serverMessage extracts {"message": "..."} (or a string "error") from an
// error body. Non-JSON bodies yield "".
func serverMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	var s string
	if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &s) == nil {
		return s
	}
	return ""
}
