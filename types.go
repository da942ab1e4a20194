package goGate

import "context"

// BootstrapState represents the lifecycle state of the bootstrap sequencer.
//
// The sequencer starts in [StateFetching] and terminates in exactly one of
// [StateReady] (session merged, mounting may proceed) or [StateRedirecting]
// (identity fetch failed, the process is abandoned in favor of an SSO
// redirect).
type BootstrapState int32

const (
	// StateFetching is an exported constant or variable used by the bootstrap engine.
	StateFetching BootstrapState = iota
	// StateReady is an exported constant or variable used by the bootstrap engine.
	StateReady
	// StateRedirecting is an exported constant or variable used by the bootstrap engine.
	StateRedirecting
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s BootstrapState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// MountFunc is the application construction hook passed to [Engine.Run]. It is
// invoked only after the bootstrap sequencer reaches [StateReady]; protected
// route tables and UI surfaces must be built inside it and nowhere else.
type MountFunc func(ctx context.Context, e *Engine) error
