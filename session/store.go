package session

import "sync"

// Store is the explicitly owned, single-writer holder of the shared session
// record. Readers obtain copies via [Store.Snapshot]; the bootstrap sequencer
// is the only writer, through [Store.Merge]. Subscribers registered with
// [Store.Subscribe] are notified with the post-merge snapshot.
type Store struct {
	mu     sync.RWMutex
	rec    Record
	merged bool
	subs   []func(Snapshot)
}

// NewStore creates a [Store] holding a record with sentinel defaults.
func NewStore() *Store {
	return &Store{}
}

// Merge applies the payload onto the shared record in place, field by field.
// Nil payload fields leave the current value untouched. All subscribers are
// invoked synchronously, in registration order, with the post-merge snapshot.
func (s *Store) Merge(p Payload) {
	s.mu.Lock()
	if p.ID != nil {
		id := *p.ID
		s.rec.ID = &id
	}
	if p.Username != nil {
		s.rec.Username = *p.Username
	}
	if p.Role != nil {
		s.rec.Role = *p.Role
	}
	if p.Leader != nil {
		leader := *p.Leader
		s.rec.Leader = &leader
	}
	s.merged = true

	snap := snapshotOf(s.rec)
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may read the store.
	for _, fn := range subs {
		fn(snap)
	}
}

// Snapshot returns a copy of the current record fields. Safe to call from any
// goroutine, any number of times; it always reflects the latest merge.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotOf(s.rec)
}

// Merged reports whether [Store.Merge] has been applied at least once.
func (s *Store) Merged() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merged
}

// Subscribe registers a callback invoked on every merge with the post-merge
// snapshot. Registration order is notification order.
func (s *Store) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
