package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a fetch failure.
type Kind string

const (
	KindNoConnection Kind = "no_connection"
	KindInvalidURL   Kind = "invalid_url"
	KindServer       Kind = "server"
	KindDecoding     Kind = "decoding"
	KindNoData       Kind = "no_data"
	KindUnknown      Kind = "unknown"
)

// Error is the error returned by every Fetcher.
type Error struct {
	Kind Kind
	Page int
	Err  error
}

// Sentinels for errors.Is matching by kind.
var (
	ErrNoConnection = &Error{Kind: KindNoConnection}
	ErrInvalidURL   = &Error{Kind: KindInvalidURL}
	ErrServer       = &Error{Kind: KindServer}
	ErrDecoding     = &Error{Kind: KindDecoding}
	ErrNoData       = &Error{Kind: KindNoData}
	ErrUnknown      = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch page %d: %s", e.Page, e.Kind)
	}
	return fmt.Sprintf("fetch page %d: %s: %v", e.Page, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage returns the text shown to the user for a failed fetch.
func UserMessage(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return "Something went wrong. Please try again."
	}
	switch fe.Kind {
	case KindNoConnection:
		return "No internet connection. Check your connection and try again."
	case KindInvalidURL:
		return "The university source address is invalid."
	case KindServer:
		return "The server could not complete the request. Please try again later."
	case KindDecoding:
		return "The received data could not be read."
	case KindNoData:
		return "No data was received."
	default:
		return "Something went wrong. Please try again."
	}
}

func newError(kind Kind, page int, err error) *Error {
	return &Error{Kind: kind, Page: page, Err: err}
}

// classifyTransport maps a transport level failure onto a Kind.
func classifyTransport(page int, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindNoConnection, page, err)
	}
	// *url.Error and *net.OpError both satisfy net.Error.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return newError(KindNoConnection, page, err)
	}
	return newError(KindUnknown, page, err)
}
