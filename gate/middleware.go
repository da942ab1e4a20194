package gate

import (
	"context"
	"net/http"

	"github.com/MrEthical07/goGate/session"
)

// Authorizer is the engine-side surface the middleware needs: a verdict for a
// target path and the current session snapshot. *goGate.Engine implements it.
type Authorizer interface {
	Decide(target string) Verdict
	Snapshot() session.Snapshot
}

type snapshotContextKey struct{}

// SnapshotFromContext returns the session snapshot injected by [Middleware],
// or false when the request did not pass through it.
func SnapshotFromContext(ctx context.Context) (session.Snapshot, bool) {
	snap, ok := ctx.Value(snapshotContextKey{}).(session.Snapshot)
	return snap, ok
}

// Middleware wraps a handler with the navigation decision table. Allowed
// requests proceed with the session snapshot injected into the request
// context; redirect verdicts answer with 302 Found.
func Middleware(auth Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			verdict := auth.Decide(r.URL.Path)
			if verdict.Decision != Allow {
				http.Redirect(w, r, verdict.Location, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), snapshotContextKey{}, auth.Snapshot())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
