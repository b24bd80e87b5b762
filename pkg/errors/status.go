package errors

import "net/http"

// FromStatusCode maps an HTTP status from a browser/AtomPub style binding to
// a typed fault. Bindings call this so the session only ever sees the fault
// taxonomy, never raw status codes.
func FromStatusCode(status int, op, message string, cause error) error {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return NewNotFoundError("object", "")
	case http.StatusForbidden, http.StatusUnauthorized:
		return NewPermissionDeniedError("", op)
	case http.StatusConflict:
		return NewConstraintError(message)
	case http.StatusPreconditionFailed:
		return NewUpdateConflictError("")
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return NewNotSupportedError(op)
	default:
		return NewTransportError(op, message, status, cause)
	}
}
