package serviceerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on the category instead
// of matching messages.
type Kind string

const (
	KindTransport       Kind = "transport"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindBusiness        Kind = "business"
	KindServer          Kind = "server"
	KindMalformed       Kind = "malformed"
	KindUnknown         Kind = "unknown"
)

type Error struct {
	Op      string // operation that failed, e.g. "menu.list"
	Kind    Kind
	Status  int // HTTP status reported by the backend, 0 if none
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func Validation(op, format string, args ...any) *Error {
	return New(KindValidation, op, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindFromStatus maps a backend HTTP status to a Kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == 401:
		return KindUnauthenticated
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 422:
		return KindValidation
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindBusiness
	default:
		return KindUnknown
	}
}
