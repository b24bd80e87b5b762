package errors

import "errors"

// IsNotFound checks if an error indicates an identity absent in the
// repository.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}

// IsTransport checks if an error is a binding transport failure.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsQueryTemplate checks if an error is a query template error.
func IsQueryTemplate(err error) bool {
	if err == nil {
		return false
	}

	var templateErr *QueryTemplateError
	return errors.As(err, &templateErr)
}

// IsInvalidLiteral checks if an error is an invalid literal error.
func IsInvalidLiteral(err error) bool {
	if err == nil {
		return false
	}

	var literalErr *InvalidLiteralError
	return errors.As(err, &literalErr)
}

// IsInvalidArgument checks if an error is a local argument validation
// failure.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	return GetErrorCode(err) == CodeInvalidArgument || errors.Is(err, ErrInvalidArgument)
}

// IsConstraint checks if an error is a constraint violation.
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}

	var constraintErr *ConstraintError
	return errors.As(err, &constraintErr)
}

// IsUpdateConflict checks if an error indicates a concurrent modification.
func IsUpdateConflict(err error) bool {
	if err == nil {
		return false
	}

	var conflictErr *UpdateConflictError
	return errors.As(err, &conflictErr)
}

// IsPermissionDenied checks if an error indicates missing permission.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	var permErr *PermissionDeniedError
	return errors.As(err, &permErr)
}

// IsVersioning checks if an error indicates a versioning rule violation.
func IsVersioning(err error) bool {
	if err == nil {
		return false
	}

	var versioningErr *VersioningError
	return errors.As(err, &versioningErr)
}

// IsNotSupported checks if an error indicates a missing capability.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var notSupportedErr *NotSupportedError
	return errors.As(err, &notSupportedErr) || errors.Is(err, ErrNotSupported)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	switch {
	case IsNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrNotSupported):
		return CodeNotSupported
	default:
		return CodeRuntime
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}

// Cause returns the underlying cause of an error.
// It unwraps the error chain until it finds the root cause.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}
