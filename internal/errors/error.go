package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryClient   Category = "client"
)

// ArenaError is a structured error with a stable code and an optional cause.
type ArenaError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the offending value.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ArenaError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ArenaError) Unwrap() error {
	return e.Wrapped
}

// Is matches another ArenaError with the same non-empty code.
func (e *ArenaError) Is(target error) bool {
	t, ok := target.(*ArenaError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *ArenaError) WithDetail(d string) *ArenaError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *ArenaError) WithDetailf(format string, args ...any) *ArenaError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ArenaError) WithSuggestion(s string) *ArenaError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ArenaError) Wrap(err error) *ArenaError {
	e.Wrapped = err
	return e
}

// New creates an ArenaError from a registered error code.
func New(code string) *ArenaError {
	template, ok := registry[code]
	if !ok {
		return &ArenaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ArenaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new ArenaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ArenaError {
	return &ArenaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an ArenaError. An ArenaError is returned unchanged.
func FromError(err error, code string) *ArenaError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*ArenaError); ok {
		return ae
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first ArenaError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if ae, ok := err.(*ArenaError); ok && ae.Code != "" {
			return ae.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
