// Package identity talks to the external identity provider: one session fetch
// at bootstrap and one logout call, both over HTTP.
//
// The session endpoint takes no documented parameters and returns either a
// plain JSON session payload or, when assertion verification is configured, a
// signed JWT whose claims carry the payload. Fetch failure is binary — there is
// no retry policy here; the Engine treats any error as terminal for bootstrap.
//
// # Architecture boundaries
//
// This package translates HTTP and token semantics into session payloads. It
// does NOT merge state, make authorization decisions, or build redirect URLs.
//
// # What this package must NOT do
//
//   - Import goGate, role, or gate.
//   - Mutate the session store.
//   - Retry, cache, or otherwise mask a failed fetch.
package identity
