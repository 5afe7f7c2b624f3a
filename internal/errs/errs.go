// Package errs classifies failures of the session and data-access layer so
// callers can tell an unreachable server from one that rejected a request.
package errs

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the category of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport covers DNS failures, refused or reset connections.
	KindTransport
	// KindTimeout means the per-call deadline elapsed.
	KindTimeout
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindMalformedResponse means a 2xx body could not be decoded.
	KindMalformedResponse
	// KindStorage means the persisted store failed to read or write.
	KindStorage
	// KindRequest means the request could not be built or encoded.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindMalformedResponse:
		return "malformed_response"
	case KindStorage:
		return "storage"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Status and Detail are only set for
// KindHTTPStatus.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPStatus && e.Detail != "":
		return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, e.Detail)
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("%s: http %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport wraps a connection-level failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// Timeout wraps a deadline failure.
func Timeout(op string, err error) *Error {
	if err == nil {
		err = context.DeadlineExceeded
	}
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

// HTTPStatus builds a rejection carrying the status and optional detail.
func HTTPStatus(op string, status int, detail string) *Error {
	return &Error{Kind: KindHTTPStatus, Op: op, Status: status, Detail: detail}
}

// Malformed wraps a body decode failure.
func Malformed(op string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Op: op, Err: err}
}

// Storage wraps a persisted store failure.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// Request wraps a failure to build or encode an outgoing request.
func Request(op string, err error) *Error {
	return &Error{Kind: KindRequest, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status of a KindHTTPStatus error, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTPStatus {
		return e.Status
	}
	return 0
}

// DetailOf returns the server-provided detail message, if any.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}
