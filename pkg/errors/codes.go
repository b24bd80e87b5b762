package errors

// Error codes for categorizing faults raised by bindings and by the session
// runtime. Bindings map their protocol-level failures onto these codes; the
// session never invents new ones.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeNotFound indicates an object, path or type is absent in the
	// repository.
	CodeNotFound = "NOT_FOUND"

	// CodeTransport indicates a network or protocol-level failure reported
	// by the binding transport. Never retried inside this module.
	CodeTransport = "TRANSPORT_ERROR"

	// CodeQueryTemplate indicates a query statement template was used
	// incorrectly: a placeholder bound twice, never bound, or an index
	// outside the template range.
	CodeQueryTemplate = "QUERY_TEMPLATE_ERROR"

	// CodeInvalidLiteral indicates a statement parameter value cannot be
	// rendered in its declared literal syntax.
	CodeInvalidLiteral = "INVALID_LITERAL"

	// CodeInvalidArgument indicates a caller-supplied argument is invalid.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeConstraint indicates the repository rejected an operation that
	// violates a type or schema constraint.
	CodeConstraint = "CONSTRAINT"

	// CodeContentAlreadyExists indicates a content stream exists and
	// overwrite was not requested.
	CodeContentAlreadyExists = "CONTENT_ALREADY_EXISTS"

	// CodeUpdateConflict indicates a stale change token or a concurrent
	// modification.
	CodeUpdateConflict = "UPDATE_CONFLICT"

	// CodePermissionDenied indicates the caller lacks permission.
	CodePermissionDenied = "PERMISSION_DENIED"

	// CodeVersioning indicates a versioning rule was violated (for example
	// checking in an object that is not checked out).
	CodeVersioning = "VERSIONING_ERROR"

	// CodeNotSupported indicates the repository does not implement the
	// requested capability.
	CodeNotSupported = "NOT_SUPPORTED"

	// CodeStorage indicates the repository failed to store or retrieve
	// content.
	CodeStorage = "STORAGE_ERROR"

	// CodeRuntime indicates an unclassified repository-side failure.
	CodeRuntime = "RUNTIME_ERROR"
)

// ErrorCategory represents a high-level fault category.
type ErrorCategory string

const (
	// CategoryCaller indicates the caller must change the request.
	CategoryCaller ErrorCategory = "CALLER_ERROR"

	// CategoryRepository indicates a repository-side failure.
	CategoryRepository ErrorCategory = "REPOSITORY_ERROR"

	// CategoryTransport indicates a connectivity-level failure.
	CategoryTransport ErrorCategory = "TRANSPORT_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeNotFound, CodeQueryTemplate, CodeInvalidLiteral,
		CodeInvalidArgument, CodeConstraint, CodeContentAlreadyExists,
		CodeUpdateConflict, CodePermissionDenied, CodeVersioning,
		CodeNotSupported:
		return CategoryCaller

	case CodeTransport:
		return CategoryTransport

	default:
		return CategoryRepository
	}
}

// IsLocal reports whether an error with the given code is produced entirely
// on the client side, before any network call.
func IsLocal(code string) bool {
	switch code {
	case CodeQueryTemplate, CodeInvalidLiteral, CodeInvalidArgument:
		return true
	default:
		return false
	}
}
