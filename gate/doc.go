// Package gate exposes navigation-time authorization: a synchronous decision
// table over an already-resolved session, and an HTTP middleware adapter.
//
// # Decision table
//
// The target path is classified as public (the login path) or protected
// (everything else); the session is authenticated or not:
//
//	authenticated   + login path  → redirect home
//	authenticated   + other       → allow
//	unauthenticated + login path  → allow
//	unauthenticated + other       → redirect to login, intended destination
//	                                attached percent-encoded as the referrer
//	                                parameter
//
// # Architecture boundaries
//
// This package translates HTTP navigation semantics into pass/redirect
// verdicts. It performs no network calls and holds no session state — the
// authenticated bit and snapshot are delegated to the [Authorizer].
//
// # What this package must NOT do
//
//   - Fetch or merge session state.
//   - Access Redis (the Engine owns I/O).
//   - Make authorization decisions beyond the table above.
package gate
