// Package ps provides the persistence layer for TemporalDB.
//
// The persistence layer is backed by Git, using go-git for storage. Every
// committed mutation is a Git commit: an append with its interval tightenings,
// a schema change, a bulk load. The commit author carries attribution and the
// commit log is the transaction log.
//
// # Memory Persistence
//
// For testing or ephemeral stores:
//
//	persistence, err := ps.NewMemoryPersistence()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
// For persistent storage:
//
//	persistence, err := ps.NewFilePersistence("/path/to/data", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Layout
//
// Revision records live under <table>/<entity_id>/<revision_id>, both ids
// zero-padded so Git tree order matches numeric order. Table schemas live at
// <table>.table, and the revision id counter at .temporaldb/sequence.
//
// # Applying Changes
//
// All mutations funnel through Apply, which turns any number of file-level
// changes into exactly one commit:
//
//	change, _ := ps.RevisionChange("people", rev)
//	txn, _ := persistence.Apply([]ps.Change{change, ps.SequenceChange(rev.RevisionID)},
//	    identity, "Appending revision")
//
// Callers hold the write lock around the read-allocate-apply sequence;
// per-entity mutexes from LockEntity serialize writers of the same entity.
package ps
