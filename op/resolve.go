package op

import (
	"sort"

	"github.com/nickyhof/TemporalDB/core"
)

// Resolve computes the effective intervals for all revisions of one entity.
// Revisions are ordered by (added_at, revision_id) and every revision that has
// a successor gets removed_at = min(current removed_at, successor's added_at).
// The last revision keeps whatever removed_at it already carries (a logical
// delete) or stays open.
//
// The function is pure and idempotent: feeding its output back in returns the
// same intervals, and the result does not depend on the order revisions were
// appended in. removed_at only ever tightens; an existing earlier removed_at
// is never moved later.
func Resolve(revisions []core.Revision) []core.Revision {
	resolved := make([]core.Revision, len(revisions))
	copy(resolved, revisions)

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Precedes(resolved[j])
	})

	for i := 0; i < len(resolved)-1; i++ {
		successorStart := resolved[i+1].AddedAt

		current := resolved[i].RemovedAt
		if current == nil || successorStart.Before(*current) {
			bound := successorStart
			resolved[i].RemovedAt = &bound
		}
	}

	return resolved
}

// CheckIntervals verifies the non-overlap invariant over an ordered revision
// set: every revision except the last must end at or before its successor
// starts. Returns an integrity error naming the first overlapping pair.
func CheckIntervals(revisions []core.Revision) error {
	ordered := make([]core.Revision, len(revisions))
	copy(ordered, revisions)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Precedes(ordered[j])
	})

	for i := 0; i < len(ordered)-1; i++ {
		next := ordered[i+1]
		if ordered[i].RemovedAt == nil || ordered[i].RemovedAt.After(next.AddedAt) {
			return core.Integrityf("revisions %d and %d of entity %d overlap",
				ordered[i].RevisionID, next.RevisionID, next.EntityID)
		}
	}

	return nil
}
