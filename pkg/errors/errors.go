package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when an object is not found in the repository.
	ErrNotFound = errors.New("object not found")

	// ErrInvalidArgument is returned when caller input is invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotSupported is returned when a repository lacks a capability.
	ErrNotSupported = errors.New("not supported")
)

// Error is the base interface for all typed faults in this module.
// It extends the standard error interface with a code and message.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed faults.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// NotFoundError indicates an identity is absent in the repository. The
// session purges the cache for the identity when it sees one.
type NotFoundError struct {
	*BaseError
	Resource string // "object", "path", "type", ...
	ID       string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: &BaseError{
			code:    CodeNotFound,
			message: fmt.Sprintf("%s not found", resource),
			stack:   captureStack(1),
		},
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// TransportError indicates a network or protocol failure inside the binding.
// The session propagates it verbatim without retrying.
type TransportError struct {
	*BaseError
	Op         string // binding operation, e.g. "FetchObject"
	StatusCode int    // protocol status when known, 0 otherwise
}

// NewTransportError creates a new transport error.
func NewTransportError(op, message string, statusCode int, cause error) *TransportError {
	if message == "" {
		message = "transport failure"
	}
	return &TransportError{
		BaseError: &BaseError{
			code:    CodeTransport,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
		Op:         op,
		StatusCode: statusCode,
	}
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	msg := e.message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// QueryTemplateError indicates incorrect use of a query statement template:
// a placeholder bound twice, never bound, or an index outside the template.
type QueryTemplateError struct {
	*BaseError
	Index int // 1-based placeholder index, 0 when not index-specific
}

// NewQueryTemplateError creates a new query template error.
func NewQueryTemplateError(index int, message string) *QueryTemplateError {
	return &QueryTemplateError{
		BaseError: &BaseError{
			code:    CodeQueryTemplate,
			message: message,
			stack:   captureStack(1),
		},
		Index: index,
	}
}

// Error implements the error interface.
func (e *QueryTemplateError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("query template: parameter %d: %s", e.Index, e.message)
	}
	return fmt.Sprintf("query template: %s", e.message)
}

// InvalidLiteralError indicates a statement parameter value cannot be
// rendered in its declared literal syntax.
type InvalidLiteralError struct {
	*BaseError
	LiteralType string // "uri", "id", "decimal", ...
	Value       any
}

// NewInvalidLiteralError creates a new invalid literal error.
func NewInvalidLiteralError(literalType string, value any, cause error) *InvalidLiteralError {
	return &InvalidLiteralError{
		BaseError: &BaseError{
			code:    CodeInvalidLiteral,
			message: fmt.Sprintf("invalid %s literal", literalType),
			cause:   cause,
			stack:   captureStack(1),
		},
		LiteralType: literalType,
		Value:       value,
	}
}

// Error implements the error interface.
func (e *InvalidLiteralError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid %s literal %q: %v", e.LiteralType, fmt.Sprint(e.Value), e.cause)
	}
	return fmt.Sprintf("invalid %s literal %q", e.LiteralType, fmt.Sprint(e.Value))
}

// NewInvalidArgument creates an error for a caller-supplied argument that
// fails local validation before any request is issued.
func NewInvalidArgument(message string) error {
	return &BaseError{
		code:    CodeInvalidArgument,
		message: message,
		stack:   captureStack(1),
	}
}

// ConstraintError indicates the repository rejected an operation violating a
// type or schema constraint.
type ConstraintError struct {
	*BaseError
	Detail string
}

// NewConstraintError creates a new constraint error.
func NewConstraintError(detail string) *ConstraintError {
	message := "constraint violation"
	if detail != "" {
		message = fmt.Sprintf("constraint violation: %s", detail)
	}
	return &ConstraintError{
		BaseError: &BaseError{
			code:    CodeConstraint,
			message: message,
			stack:   captureStack(1),
		},
		Detail: detail,
	}
}

// UpdateConflictError indicates a stale change token or a concurrent
// modification.
type UpdateConflictError struct {
	*BaseError
	ObjectID string
}

// NewUpdateConflictError creates a new update conflict error.
func NewUpdateConflictError(objectID string) *UpdateConflictError {
	return &UpdateConflictError{
		BaseError: &BaseError{
			code:    CodeUpdateConflict,
			message: "object was modified concurrently",
			stack:   captureStack(1),
		},
		ObjectID: objectID,
	}
}

// PermissionDeniedError indicates the caller lacks permission.
type PermissionDeniedError struct {
	*BaseError
	ObjectID string
	Action   string
}

// NewPermissionDeniedError creates a new permission denied error.
func NewPermissionDeniedError(objectID, action string) *PermissionDeniedError {
	message := "permission denied"
	if action != "" {
		message = fmt.Sprintf("permission denied: %s", action)
	}
	return &PermissionDeniedError{
		BaseError: &BaseError{
			code:    CodePermissionDenied,
			message: message,
			stack:   captureStack(1),
		},
		ObjectID: objectID,
		Action:   action,
	}
}

// VersioningError indicates a versioning rule was violated.
type VersioningError struct {
	*BaseError
	ObjectID string
}

// NewVersioningError creates a new versioning error.
func NewVersioningError(objectID, message string) *VersioningError {
	if message == "" {
		message = "versioning rule violated"
	}
	return &VersioningError{
		BaseError: &BaseError{
			code:    CodeVersioning,
			message: message,
			stack:   captureStack(1),
		},
		ObjectID: objectID,
	}
}

// NotSupportedError indicates the repository lacks a capability.
type NotSupportedError struct {
	*BaseError
	Capability string
}

// NewNotSupportedError creates a new not supported error.
func NewNotSupportedError(capability string) *NotSupportedError {
	message := "not supported"
	if capability != "" {
		message = fmt.Sprintf("%s not supported", capability)
	}
	return &NotSupportedError{
		BaseError: &BaseError{
			code:    CodeNotSupported,
			message: message,
			stack:   captureStack(1),
		},
		Capability: capability,
	}
}

// Wrap wraps an error with additional context.
// If the error is already one of our typed faults, it preserves the code and
// adds to the cause chain. Otherwise it becomes a runtime error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &BaseError{
		code:    CodeRuntime,
		message: message,
		cause:   err,
		stack:   captureStack(1),
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeRuntime,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}
