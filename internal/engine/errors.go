package engine

import (
	"errors"
	"fmt"
)

// Kind is a stable error code callers can switch on.
type Kind string

const (
	// KindUnsupportedLabel means the label does not resolve.
	KindUnsupportedLabel Kind = "UNSUPPORTED_LABEL"
	// KindInvalidParameter means a parameter is missing or out of range.
	KindInvalidParameter Kind = "INVALID_PARAMETER"
	// KindStoreUnavailable means the record store failed or timed out.
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
)

// Error is the only error type Run returns.
type Error struct {
	Kind    Kind   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the same request may succeed later unchanged.
func (e *Error) Retryable() bool { return e.Kind == KindStoreUnavailable }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func invalidParam(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidParameter, Field: field, Message: fmt.Sprintf(format, args...)}
}

func unsupportedLabel(err error) *Error {
	return &Error{Kind: KindUnsupportedLabel, Field: "label", Message: err.Error(), Err: err}
}

func storeUnavailable(op string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}
