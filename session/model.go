package session

// Record is the shared mutable session record. Until the bootstrap fetch
// resolves, fields hold their sentinel defaults: nil ID, empty Username and
// Role, nil Leader.
type Record struct {
	ID       *int64
	Username string
	Role     string
	Leader   *bool
}

// Payload is a freshly fetched session payload. Pointer fields distinguish
// "absent" from zero so the merge can stay permissive: a nil field leaves the
// record's current value untouched.
type Payload struct {
	ID       *int64  `json:"id"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
	Leader   *bool   `json:"isLeader"`
}

// Snapshot is a read-only copy of the record at a point in time. Pointer
// fields are deep-copied so holders cannot alias the live record.
type Snapshot struct {
	ID       *int64
	Username string
	Role     string
	Leader   *bool
}

// Authenticated reports whether the snapshot carries a non-nil identifier.
func (s Snapshot) Authenticated() bool {
	return s.ID != nil
}

func snapshotOf(rec Record) Snapshot {
	snap := Snapshot{
		Username: rec.Username,
		Role:     rec.Role,
	}
	if rec.ID != nil {
		id := *rec.ID
		snap.ID = &id
	}
	if rec.Leader != nil {
		leader := *rec.Leader
		snap.Leader = &leader
	}
	return snap
}
