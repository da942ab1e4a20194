package role

import "github.com/MrEthical07/goGate/session"

// Predicate is a pure, side-effect-free authorization check over a session
// snapshot. Predicates cache nothing; each call reflects the given snapshot.
type Predicate func(session.Snapshot) bool

// Authenticated returns a predicate that is true when the session carries a
// non-nil identifier.
func Authenticated() Predicate {
	return func(s session.Snapshot) bool {
		return s.ID != nil
	}
}

// Admin returns a predicate that is true when the session role equals the
// administrator sentinel.
func Admin(sentinel string) Predicate {
	return func(s session.Snapshot) bool {
		return s.Role == sentinel
	}
}

// SalesLeader returns a predicate that is true only when the session role
// equals the sales sentinel AND the leader flag is present and exactly true.
// A nil or false leader flag yields false.
func SalesLeader(sentinel string) Predicate {
	return func(s session.Snapshot) bool {
		return s.Role == sentinel && s.Leader != nil && *s.Leader
	}
}

// And returns a predicate that is true when every given predicate is true.
func And(preds ...Predicate) Predicate {
	return func(s session.Snapshot) bool {
		for _, p := range preds {
			if p == nil || !p(s) {
				return false
			}
		}
		return true
	}
}

// Or returns a predicate that is true when any given predicate is true.
func Or(preds ...Predicate) Predicate {
	return func(s session.Snapshot) bool {
		for _, p := range preds {
			if p != nil && p(s) {
				return true
			}
		}
		return false
	}
}

// Not returns the negation of the given predicate.
func Not(p Predicate) Predicate {
	return func(s session.Snapshot) bool {
		return p == nil || !p(s)
	}
}
