package op

import (
	"fmt"
	"sort"
	"time"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/ps"
)

// TableLog is the append-only revision log of one table. Appends allocate
// revision ids from the durable sequence, run supersession resolution against
// the entity's existing revisions, and land as exactly one commit.
type TableLog struct {
	Table       core.Table
	Persistence *ps.Persistence
}

func CreateTable(table core.Table, persistence *ps.Persistence, identity core.Identity) (*ps.Transaction, *TableLog, error) {
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}

	txn, err := persistence.CreateTable(table, identity)
	if err != nil {
		return nil, nil, err
	}

	return &txn, &TableLog{
		Table:       table,
		Persistence: persistence,
	}, nil
}

func OpenTable(tableName string, persistence *ps.Persistence) (*TableLog, error) {
	table, err := persistence.GetTable(tableName)

	if err != nil {
		return nil, err
	}

	return &TableLog{
		Table:       *table,
		Persistence: persistence,
	}, nil
}

func (log *TableLog) DropTable(identity core.Identity) (txn ps.Transaction, err error) {
	return log.Persistence.DropTable(log.Table.Name, identity)
}

// EntityIDs returns all entity ids in the log, ascending
func (log *TableLog) EntityIDs() ([]int64, error) {
	return log.Persistence.ListEntityIDs(log.Table.Name)
}

// RevisionsOf returns the full timeline of one entity in effective order
// (added_at ascending, ties by revision id). This is the entity's history.
// Intervals are returned exactly as stored; resolution happens at write time
// and a corrupted set must stay visible to CheckIntervals, not be repaired
// on the way out.
func (log *TableLog) RevisionsOf(entityId int64) ([]core.Revision, error) {
	revisions, err := log.Persistence.ListRevisions(log.Table.Name, entityId)
	if err != nil {
		return nil, err
	}

	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].Precedes(revisions[j])
	})

	return revisions, nil
}

// Revision finds one revision by id, scanning entity directories. Revision
// ids are global, so at most one entity holds it.
func (log *TableLog) Revision(revisionId int64) (*core.Revision, error) {
	entityIds, err := log.EntityIDs()
	if err != nil {
		return nil, err
	}

	for _, entityId := range entityIds {
		rev, err := log.Persistence.ReadRevision(log.Table.Name, entityId, revisionId)
		if err == nil {
			return rev, nil
		}
	}

	return nil, fmt.Errorf("revision %d not found in table %s", revisionId, log.Table.Name)
}

// Count returns the number of entities in the log
func (log *TableLog) Count() int {
	ids, err := log.EntityIDs()
	if err != nil {
		return 0
	}
	return len(ids)
}

// Append appends one revision. A nil entityId auto-assigns the entity from
// the allocated revision id; an explicit entityId targets that entity,
// superseding whatever was active. A future addedAt schedules the revision:
// it exists immediately but only becomes visible to as-of reads at addedAt.
//
// Returns the resolved new revision and the revisions whose intervals were
// tightened by it.
func (log *TableLog) Append(entityId *int64, addedAt time.Time, payload map[string]string, identity core.Identity) (*core.Revision, []core.Revision, ps.Transaction, error) {
	if entityId != nil {
		mu := log.Persistence.LockEntity(log.Table.Name, *entityId)
		mu.Lock()
		defer mu.Unlock()
	}

	log.Persistence.Lock()
	defer log.Persistence.Unlock()

	return log.appendLocked(entityId, addedAt, payload, identity, "Appending revision")
}

// appendLocked does the allocate-resolve-apply step. Callers hold the write
// lock, and the entity lock when the entity is explicit.
func (log *TableLog) appendLocked(entityId *int64, addedAt time.Time, payload map[string]string, identity core.Identity, message string) (*core.Revision, []core.Revision, ps.Transaction, error) {
	last, err := log.Persistence.Sequence()
	if err != nil {
		return nil, nil, ps.Transaction{}, err
	}
	revisionId := last + 1

	entity := revisionId
	if entityId != nil {
		entity = *entityId
	}

	rev := core.Revision{
		RevisionID: revisionId,
		EntityID:   entity,
		AddedAt:    addedAt,
		Payload:    payload,
	}
	if err := rev.Validate(); err != nil {
		return nil, nil, ps.Transaction{}, err
	}

	existing, err := log.Persistence.ListRevisions(log.Table.Name, entity)
	if err != nil {
		return nil, nil, ps.Transaction{}, err
	}

	resolved := Resolve(append(existing, rev))

	changes, closed, err := log.revisionChanges(existing, resolved)
	if err != nil {
		return nil, nil, ps.Transaction{}, err
	}
	changes = append(changes, ps.SequenceChange(revisionId))

	txn, err := log.Persistence.Apply(changes, identity, message)
	if err != nil {
		return nil, nil, ps.Transaction{}, err
	}

	for i := range resolved {
		if resolved[i].RevisionID == revisionId {
			return &resolved[i], closed, txn, nil
		}
	}

	return &rev, closed, txn, nil
}

// revisionChanges diffs a resolved revision set against what is stored and
// returns the Changes to persist, plus the revisions whose removed_at was
// tightened. New revisions are always written.
func (log *TableLog) revisionChanges(existing, resolved []core.Revision) ([]ps.Change, []core.Revision, error) {
	before := make(map[int64]core.Revision, len(existing))
	for _, rev := range existing {
		before[rev.RevisionID] = rev
	}

	var changes []ps.Change
	var closed []core.Revision

	for _, rev := range resolved {
		prior, existed := before[rev.RevisionID]
		if existed && sameRemovedAt(prior.RemovedAt, rev.RemovedAt) {
			continue
		}

		change, err := ps.RevisionChange(log.Table.Name, rev)
		if err != nil {
			return nil, nil, err
		}
		changes = append(changes, change)

		if existed {
			closed = append(closed, rev)
		}
	}

	return changes, closed, nil
}

func sameRemovedAt(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
