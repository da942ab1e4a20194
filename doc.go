// Package goGate provides a session-gated application bootstrap engine with role
// predicates, an SSO-redirecting startup sequencer, and navigation-time route gating.
//
// The package is designed around a single guarantee: no protected route table or UI
// surface is constructed before the current user's session has been fetched from the
// external identity provider. [Engine.Run] enforces this by invoking the mount
// callback only after the bootstrap sequencer reaches [StateReady].
//
// # Architecture boundaries
//
// goGate is the public surface. It exposes [Engine], [Builder], [Config], and value
// types (MetricsSnapshot, Route, etc.). Session state lives in the session
// subpackage, role predicates in role, identity transport in identity, and the HTTP
// navigation gate in gate. The root package orchestrates; it performs no HTTP
// handling of its own.
//
// # What this package must NOT do
//
//   - Expose Redis clients, the raw session record, or identity transport details
//     in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Retry or recover from an identity fetch failure: failure is terminal for the
//     bootstrap path and always ends in an SSO redirect.
//
// # Performance contract
//
// Role predicates and [Engine.Decide] are the hot paths. They must not allocate
// beyond the returned snapshot copy and must never touch the network. The identity
// fetch happens at most once per process; the optional Redis snapshot cache costs
// one round-trip on warm starts.
package goGate
