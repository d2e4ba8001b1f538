package fetch

import (
	"errors"
	"fmt"
)

// ProtocolError is returned when the endpoint answers with a non-2xx status.
type ProtocolError struct {
	StatusCode int
	StatusText string // reason phrase, may be empty
}

func (e *ProtocolError) Error() string {
	if e.StatusText == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, e.StatusText)
}

// TransportError is returned when no usable response was obtained: the
// connection failed, the request timed out, or the body could not be decoded.
// Error returns the underlying message unchanged.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsProtocolError reports whether err carries a *ProtocolError.
func AsProtocolError(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
