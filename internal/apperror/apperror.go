package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindAuthRequired
	KindInvalidToken
	KindInvalidCredentials
	KindNotFound
	KindValidation
	KindStoreUnavailable
)

var codes = map[Kind]string{
	KindInternal:           "INTERNAL",
	KindAuthRequired:       "AUTH_REQUIRED",
	KindInvalidToken:       "INVALID_TOKEN",
	KindInvalidCredentials: "INVALID_CREDENTIALS",
	KindNotFound:           "NOT_FOUND",
	KindValidation:         "VALIDATION_ERROR",
	KindStoreUnavailable:   "STORE_UNAVAILABLE",
}

func (k Kind) Code() string {
	if c, ok := codes[k]; ok {
		return c
	}
	return codes[KindInternal]
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuthRequired, KindInvalidToken, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Code() string { return e.Kind.Code() }

// Is matches any *Error of the same kind, so errors.Is(err, apperror.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrAuthRequired       = &Error{Kind: KindAuthRequired, Message: "authentication required"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "invalid or expired token"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation error"}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable, Message: "store unavailable"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a driver error. The message shown to clients stays generic.
func Store(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "store unavailable", Err: err}
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Public returns the message that is safe to send to a client.
func Public(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
