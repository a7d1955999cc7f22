package gas

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures.
type Kind string

const (
	KindMissingEndpoint Kind = "MissingEndpoint"
	KindTransport       Kind = "TransportError"
	KindMissingFields   Kind = "MissingFields"
	KindUpstream        Kind = "UpstreamError"
)

// Error is returned by every Client method that fails.
type Error struct {
	Kind    Kind
	Status  int // HTTP or upstream status code, 0 when unknown
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMissingEndpoint = &Error{Kind: KindMissingEndpoint}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrMissingFields   = &Error{Kind: KindMissingFields}
	ErrUpstream        = &Error{Kind: KindUpstream}
)

// AsError extracts a provider error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
