package gate

import "net/url"

// Decision defines a public type used by goGate APIs.
//
// Decision instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decision int

const (
	// Allow is an exported constant or variable used by the bootstrap engine.
	Allow Decision = iota
	// RedirectLogin is an exported constant or variable used by the bootstrap engine.
	RedirectLogin
	// RedirectHome is an exported constant or variable used by the bootstrap engine.
	RedirectHome
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of a single navigation check. Location is set only
// for redirect decisions.
type Verdict struct {
	Decision Decision
	Location string
}

// Config defines a public type used by goGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	LoginPath     string
	HomePath      string
	ReferrerParam string
}

// Gate evaluates the navigation decision table. It is purely synchronous given
// an already-resolved session and performs no I/O.
type Gate struct {
	loginPath     string
	homePath      string
	referrerParam string
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(cfg Config) *Gate {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	homePath := cfg.HomePath
	if homePath == "" {
		homePath = "/"
	}
	referrerParam := cfg.ReferrerParam
	if referrerParam == "" {
		referrerParam = "referrer"
	}

	return &Gate{
		loginPath:     loginPath,
		homePath:      homePath,
		referrerParam: referrerParam,
	}
}

// Decide classifies the target path and the current authentication state into
// a [Verdict] per the decision table. Total: every input yields a verdict.
func (g *Gate) Decide(authenticated bool, target string) Verdict {
	public := target == g.loginPath

	switch {
	case authenticated && public:
		return Verdict{Decision: RedirectHome, Location: g.homePath}
	case authenticated:
		return Verdict{Decision: Allow}
	case public:
		return Verdict{Decision: Allow}
	default:
		return Verdict{Decision: RedirectLogin, Location: g.loginRedirect(target)}
	}
}

// LoginPath returns the configured public path.
func (g *Gate) LoginPath() string {
	return g.loginPath
}

func (g *Gate) loginRedirect(target string) string {
	q := url.Values{}
	q.Set(g.referrerParam, target)
	return g.loginPath + "?" + q.Encode()
}
