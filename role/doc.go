// Package role provides pure boolean authorization predicates evaluated against
// session snapshots, and a frozen registry for looking them up by name.
//
// # Predicates
//
// A [Predicate] holds no cached state: it is re-evaluated on every call and
// always reflects the snapshot it is given. The built-in constructors cover the
// three standard checks — [Authenticated], [Admin], and [SalesLeader] — and the
// combinators [And], [Or], and [Not] compose them.
//
// # Architecture boundaries
//
// This package is pure in-memory logic with no I/O. Predicate names are
// registered via [Registry.Register] before [Registry.Freeze] and are stable
// for the lifetime of the process.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goGate, gate, or identity.
//   - Mutate the snapshot it evaluates.
package role
