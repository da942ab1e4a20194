package goGate

import (
	"net/http"

	"github.com/MrEthical07/goGate/role"
	"github.com/MrEthical07/goGate/session"
)

// Route is a single navigable entry produced by the [RouteBuilder].
type Route struct {
	Path    string
	Name    string
	Handler http.Handler
}

// RouteBuilder assembles a route table against a session snapshot captured
// once at creation time. Conditional entries are decided when added, not when
// the table is later served, so the table is stable for the snapshot it was
// built from.
type RouteBuilder struct {
	snapshot session.Snapshot
	routes   []Route
}

// NewRouteBuilder captures the current session snapshot and returns a builder
// whose conditional entries are all evaluated against that one snapshot.
func (e *Engine) NewRouteBuilder() *RouteBuilder {
	return &RouteBuilder{
		snapshot: e.Snapshot(),
		routes:   []Route{},
	}
}

// Add appends an unconditional route.
func (b *RouteBuilder) Add(path, name string, handler http.Handler) *RouteBuilder {
	b.routes = append(b.routes, Route{Path: path, Name: name, Handler: handler})
	return b
}

// AddIf appends the route only when the predicate holds for the captured
// snapshot. A nil predicate never matches.
func (b *RouteBuilder) AddIf(p role.Predicate, path, name string, handler http.Handler) *RouteBuilder {
	if p == nil || !p(b.snapshot) {
		return b
	}
	return b.Add(path, name, handler)
}

// Build returns the assembled table. The result is never nil, so ranging over
// an empty table is safe.
func (b *RouteBuilder) Build() []Route {
	out := make([]Route, len(b.routes))
	copy(out, b.routes)
	return out
}

// Snapshot returns the session snapshot the builder was created with.
func (b *RouteBuilder) Snapshot() session.Snapshot {
	return b.snapshot
}
