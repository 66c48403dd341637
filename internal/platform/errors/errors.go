package errors

import (
	stderrors "errors"
	"maps"
)

// Domain is the error domain for rpgmapper errors.
const Domain = "github.com/dyle/rpgmapper"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Message != "" {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Kind classifies the error by its code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// With returns a copy of e carrying an extra message suffix and merged metadata.
// It keeps sentinel errors immutable while letting callers attach context.
func (e *Error) With(detail string, metadata map[string]string) *Error {
	out := &Error{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
	}
	if detail != "" {
		out.Message = e.Message + ": " + detail
	}
	if len(e.Metadata) > 0 || len(metadata) > 0 {
		out.Metadata = make(map[string]string, len(e.Metadata)+len(metadata))
		maps.Copy(out.Metadata, e.Metadata)
		maps.Copy(out.Metadata, metadata)
	}
	return out
}

// CodeOf extracts the domain code from an error chain.
// Errors without a domain error in the chain report CodeUnknown.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// KindOf classifies any error chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return CodeOf(err).Kind()
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsStructural reports whether err signals a stale or invalid entity reference.
func IsStructural(err error) bool {
	return KindOf(err) == KindStructural
}
