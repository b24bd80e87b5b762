// Package session implements the client-side repository session runtime: a
// Session composed of an identity cache, a typed object factory, lazy paged
// iterables over server-side listings, and a query statement builder with
// injection-safe literal substitution.
//
// A Session talks to exactly one repository through a binding.Transport and
// is safe for concurrent use. Reads consult the identity cache under the
// active operation context; mutations go straight to the transport and
// invalidate the identities they touch.
package session
