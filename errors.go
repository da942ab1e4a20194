package goGate

import "errors"

var (
	// ErrRedirecting is an exported constant or variable used by the bootstrap engine.
	ErrRedirecting = errors.New("redirecting to identity provider")
	// ErrEngineNotReady is an exported constant or variable used by the bootstrap engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrIdentityUnavailable is an exported constant or variable used by the bootstrap engine.
	ErrIdentityUnavailable = errors.New("identity service unavailable")
	// ErrAssertionInvalid is an exported constant or variable used by the bootstrap engine.
	ErrAssertionInvalid = errors.New("identity assertion invalid")
	// ErrPredicateNotFound is an exported constant or variable used by the bootstrap engine.
	ErrPredicateNotFound = errors.New("predicate not registered")
	// ErrLogoutFailed is an exported constant or variable used by the bootstrap engine.
	ErrLogoutFailed = errors.New("identity logout failed")
)

// RedirectError is the terminal outcome of a failed bootstrap. It carries the
// fully built SSO redirect target; the caller must navigate there and abandon
// the current process. It unwraps to [ErrRedirecting].
type RedirectError struct {
	URL string
}

// Error describes the error operation and its observable behavior.
//
// Error may return an error when input validation, dependency calls, or security checks fail.
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *RedirectError) Error() string {
	return "redirecting to " + e.URL
}

// Unwrap describes the unwrap operation and its observable behavior.
//
// Unwrap may return an error when input validation, dependency calls, or security checks fail.
// Unwrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *RedirectError) Unwrap() error {
	return ErrRedirecting
}
