package core

import "time"

// Revision is one version of an entity. Every field except RemovedAt is
// immutable once the revision is committed; RemovedAt starts unset and may
// later be set once and then only ever tightened (moved earlier).
type Revision struct {
	RevisionID int64             `json:"revision_id"`
	EntityID   int64             `json:"entity_id"`
	AddedAt    time.Time         `json:"added_at"`
	RemovedAt  *time.Time        `json:"removed_at,omitempty"`
	Payload    map[string]string `json:"payload"`
}

// Precedes reports whether r comes before other in the effective order for
// revisions of the same entity: AddedAt ascending, ties broken by RevisionID
// ascending. The tie-break makes the order total even when the clock is
// coarse relative to the write rate.
func (r Revision) Precedes(other Revision) bool {
	if r.AddedAt.Before(other.AddedAt) {
		return true
	}
	if r.AddedAt.Equal(other.AddedAt) {
		return r.RevisionID < other.RevisionID
	}
	return false
}

// ActiveAt reports whether t falls inside the revision's effective interval
// [AddedAt, RemovedAt). A zero-length interval is active at no instant.
func (r Revision) ActiveAt(t time.Time) bool {
	if r.AddedAt.After(t) {
		return false
	}
	if r.RemovedAt == nil {
		return true
	}
	return t.Before(*r.RemovedAt)
}

// Open reports whether the revision's interval is open-ended.
func (r Revision) Open() bool {
	return r.RemovedAt == nil
}

// Validate checks the per-revision invariants: EntityID <= RevisionID and
// AddedAt <= RemovedAt when RemovedAt is set.
func (r Revision) Validate() error {
	if r.EntityID > r.RevisionID {
		return Constraintf("entity id %d exceeds revision id %d", r.EntityID, r.RevisionID)
	}
	if r.RemovedAt != nil && r.RemovedAt.Before(r.AddedAt) {
		return Constraintf("removed_at %s precedes added_at %s", r.RemovedAt.Format(time.RFC3339), r.AddedAt.Format(time.RFC3339))
	}
	return nil
}
