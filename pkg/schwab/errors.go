package schwab

import (
	"errors"
	"fmt"
)

// ErrNotSubscribed is returned by Add, Remove and View when Request has not
// registered a callback for the service yet.
var ErrNotSubscribed = errors.New("schwab: Request must be called before Add, Remove or View")

// Contract violations. They surface wrapped in a *ProtocolError and end the session.
var (
	ErrUnknownService  = errors.New("unknown service")
	ErrUnexpectedFrame = errors.New("unexpected frame")
	ErrMalformedFrame  = errors.New("malformed frame")
	ErrCommandFailed   = errors.New("command failed")
	ErrLoginDenied     = errors.New("login denied")
)

// ProtocolError describes a client/server contract mismatch on the inbound path.
type ProtocolError struct {
	Service Service
	Command CommandKind
	Code    int
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("schwab protocol error: %v", e.Err)
	if e.Service != "" {
		msg += fmt.Sprintf(" service=%s", e.Service)
	}
	if e.Command != "" {
		msg += fmt.Sprintf(" command=%s", e.Command)
	}
	if e.Code != 0 || e.Message != "" {
		msg += fmt.Sprintf(" code=%d msg=%q", e.Code, e.Message)
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsProtocolError reports whether err is a contract violation.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
