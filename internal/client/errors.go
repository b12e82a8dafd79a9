package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid request")
	ErrServer       = errors.New("server error")
)

// ErrorKind is a coarse-grained categorization for API errors.
type ErrorKind string

const (
	KindTransport    ErrorKind = "transport"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInvalid      ErrorKind = "invalid"
	KindServer       ErrorKind = "server"
	KindDecode       ErrorKind = "decode"
)

// OpError wraps an underlying error with the API operation and a kind, so
// front ends can classify failures without string matching.
type OpError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

func kindForStatus(status int) (ErrorKind, error) {
	switch {
	case status == 404:
		return KindNotFound, ErrNotFound
	case status == 401 || status == 403:
		return KindUnauthorized, ErrUnauthorized
	case status >= 400 && status < 500:
		return KindInvalid, ErrInvalid
	default:
		return KindServer, ErrServer
	}
}
