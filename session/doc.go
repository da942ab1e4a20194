// Package session owns the shared mutable session record, its single-writer
// store, and the optional Redis-backed snapshot cache used for warm starts.
//
// # Merge semantics
//
// The record is created with sentinel defaults and merged in place exactly once
// by the bootstrap sequencer. The merge is permissive and field-by-field: only
// fields present in the fetched [Payload] overwrite the record, unknown payload
// fields are dropped by JSON decoding, and no shape validation is performed.
// Identity is preserved — every holder of the [Store] observes the update.
//
// # Architecture boundaries
//
// This package owns session state and its persistence. It does NOT evaluate
// authorization predicates, build redirect URLs, or talk to the identity
// provider — those responsibilities belong to the role, gate, and identity
// packages and the Engine.
//
// # What this package must NOT do
//
//   - Import goGate, role, gate, or identity (no upward imports).
//   - Mutate the record from anywhere other than [Store.Merge].
//   - Perform network I/O outside of [Cache] methods.
package session
