// Package op provides high-level operations over TemporalDB revision logs.
//
// The op package sits between the SQL engine (db/) and the persistence layer
// (ps/). It owns the temporal semantics: revision id allocation, supersession
// resolution, point-in-time reads, and the Insert/Update/Delete facade.
//
// # TableLog
//
// TableLog is the append-only revision log of one table:
//
//	_, log, err := op.CreateTable(table, persistence, identity)
//	log, err = op.OpenTable("people", persistence)
//
//	rev, closed, txn, _ := log.Append(nil, time.Now(), payload, identity)
//	history, _ := log.RevisionsOf(rev.EntityID)
//
// Appending runs the supersession resolver: revisions of an entity are
// ordered by (added_at, revision_id) and each one's removed_at becomes the
// added_at of its successor, tightening only. Two revisions with the same
// added_at order by revision id, leaving the earlier one a zero-length
// interval. An append dated in the future schedules the row; one dated in
// the past backfills history, closing or splitting whatever was active.
//
// # Point-in-time reads
//
//	active, _ := log.AsOf(time.Now())            // whole table at an instant
//	rev, _ := log.AsOfEntity(asof, entityId)     // one entity, nil if inactive
//
// Reads never repair: a stored interval set that violates non-overlap
// surfaces as an integrity error.
//
// # Mutator
//
// Mutator is the write facade, bound to an identity for attribution:
//
//	m := op.NewMutator(log, identity)
//	rev, txn, _ := m.Insert(&entityId, payload, nil)   // insert-or-replace
//	rev, txn, _ = m.Update(entityId, set, nil, nil)
//	rev, txn, _ = m.Delete(entityId, nil)              // logical delete
//
// Policy knobs on Mutator.Options reject duplicate identifiers or identity
// changes instead; Mutator.Hooks observe opened and closed revisions after
// each commit.
//
// # Bulk
//
// Bulk batches mutations into one commit, the path a BEGIN..COMMIT load
// takes:
//
//	b := m.Begin()
//	for _, row := range rows {
//	    b.Insert(&row.Id, row.Payload, nil)
//	}
//	result, _ := b.Commit()
//
// # Architecture
//
// The layering is:
//
//	SQL Parser (sql/)
//	     ↓
//	SQL Engine (db/)
//	     ↓
//	Operations (op/)     ← This package
//	     ↓
//	Persistence (ps/)
//	     ↓
//	Git Storage (go-git)
package op
