// Package errors defines the fault taxonomy shared by binding transports and
// the session runtime: typed errors with string codes and captured stacks,
// errors.As-based predicates, and an HTTP status mapping for binding
// implementors.
package errors
