package op

import (
	"sort"
	"time"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/ps"
)

// Bulk batches inserts and deletes into one commit. This is the load path:
// fifty thousand INSERT OR REPLACE rows between BEGIN and COMMIT become one
// sequence allocation, one resolution pass per touched entity, and one Git
// commit. The final state is identical to issuing the same mutations one at
// a time; only the transaction count differs.
//
// Timestamps are captured when the mutation is staged, not at Commit, so the
// effective order inside a batch matches the order rows were added.
type Bulk struct {
	log      *TableLog
	identity core.Identity
	hooks    Hooks

	inserts []bulkInsert
	deletes []bulkDelete
}

type bulkInsert struct {
	entityId *int64
	payload  map[string]string
	addedAt  time.Time
}

type bulkDelete struct {
	entityId  int64
	removedAt time.Time
}

// BulkResult reports what a committed batch did
type BulkResult struct {
	Transaction      ps.Transaction
	RevisionsWritten int
	RevisionsClosed  int
}

// Begin starts a batch bound to the mutator's identity and hooks
func (m *Mutator) Begin() *Bulk {
	return &Bulk{
		log:      m.Log,
		identity: m.Identity,
		hooks:    m.Hooks,
	}
}

// Insert stages an insert. Semantics match Mutator.Insert.
func (b *Bulk) Insert(entityId *int64, payload map[string]string, at *time.Time) {
	b.inserts = append(b.inserts, bulkInsert{
		entityId: entityId,
		payload:  payload,
		addedAt:  timeOrNow(at),
	})
}

// Delete stages a logical delete. Semantics match Mutator.Delete.
func (b *Bulk) Delete(entityId int64, at *time.Time) {
	b.deletes = append(b.deletes, bulkDelete{
		entityId:  entityId,
		removedAt: timeOrNow(at),
	})
}

// Pending returns the number of staged mutations
func (b *Bulk) Pending() int {
	return len(b.inserts) + len(b.deletes)
}

// Rollback discards the staged mutations
func (b *Bulk) Rollback() {
	b.inserts = nil
	b.deletes = nil
}

// Commit allocates revision ids for every staged insert, resolves each
// touched entity once, and applies everything as one commit. A validation
// failure on any staged row rejects the whole batch; nothing is written.
func (b *Bulk) Commit() (BulkResult, error) {
	if b.Pending() == 0 {
		return BulkResult{}, nil
	}
	defer b.Rollback()

	b.log.Persistence.Lock()
	defer b.log.Persistence.Unlock()

	last, err := b.log.Persistence.Sequence()
	if err != nil {
		return BulkResult{}, err
	}

	// Allocate ids in staging order and group new revisions per entity
	incoming := make(map[int64][]core.Revision)
	next := last
	for _, ins := range b.inserts {
		next++

		entity := next
		if ins.entityId != nil {
			entity = *ins.entityId
		}

		rev := core.Revision{
			RevisionID: next,
			EntityID:   entity,
			AddedAt:    ins.addedAt,
			Payload:    ins.payload,
		}
		if err := rev.Validate(); err != nil {
			return BulkResult{}, err
		}

		incoming[entity] = append(incoming[entity], rev)
	}

	touched := make(map[int64]bool)
	for entity := range incoming {
		touched[entity] = true
	}
	for _, del := range b.deletes {
		touched[del.entityId] = true
	}

	entities := make([]int64, 0, len(touched))
	for entity := range touched {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	var changes []ps.Change
	var opened []core.Revision
	var closed []core.Revision

	for _, entity := range entities {
		existing, err := b.log.Persistence.ListRevisions(b.log.Table.Name, entity)
		if err != nil {
			return BulkResult{}, err
		}

		resolved := Resolve(append(existing, incoming[entity]...))

		resolved, entityClosed, err := b.applyDeletes(entity, resolved)
		if err != nil {
			return BulkResult{}, err
		}

		entityChanges, tightened, err := b.log.revisionChanges(existing, resolved)
		if err != nil {
			return BulkResult{}, err
		}

		changes = append(changes, entityChanges...)
		closed = append(closed, mergeClosed(tightened, entityClosed)...)

		newIds := make(map[int64]bool, len(incoming[entity]))
		for _, rev := range incoming[entity] {
			newIds[rev.RevisionID] = true
		}
		for _, rev := range resolved {
			if newIds[rev.RevisionID] {
				opened = append(opened, rev)
			}
		}
	}

	changes = append(changes, ps.SequenceChange(next))

	txn, err := b.log.Persistence.Apply(changes, b.identity, "Bulk applying revisions")
	if err != nil {
		return BulkResult{}, err
	}

	if b.hooks.OnRevisionOpened != nil {
		for _, rev := range opened {
			b.hooks.OnRevisionOpened(b.log.Table.Name, rev, txn)
		}
	}
	if b.hooks.OnRevisionClosed != nil {
		for _, rev := range closed {
			b.hooks.OnRevisionClosed(b.log.Table.Name, rev, txn)
		}
	}

	return BulkResult{
		Transaction:      txn,
		RevisionsWritten: len(opened),
		RevisionsClosed:  len(closed),
	}, nil
}

// applyDeletes tightens the active revision at each staged delete timestamp
// for one entity, over the already-resolved set
func (b *Bulk) applyDeletes(entity int64, resolved []core.Revision) ([]core.Revision, []core.Revision, error) {
	var closed []core.Revision

	for _, del := range b.deletes {
		if del.entityId != entity {
			continue
		}

		for i := range resolved {
			if !resolved[i].ActiveAt(del.removedAt) {
				continue
			}

			bound := del.removedAt
			resolved[i].RemovedAt = &bound
			if err := resolved[i].Validate(); err != nil {
				return nil, nil, err
			}
			closed = append(closed, resolved[i])
			break
		}
	}

	return resolved, closed, nil
}

// mergeClosed combines tightenings found by diffing with explicit delete
// closures, without double counting
func mergeClosed(tightened, deleted []core.Revision) []core.Revision {
	seen := make(map[int64]bool, len(tightened))
	merged := make([]core.Revision, 0, len(tightened)+len(deleted))

	for _, rev := range tightened {
		seen[rev.RevisionID] = true
		merged = append(merged, rev)
	}
	for _, rev := range deleted {
		if !seen[rev.RevisionID] {
			merged = append(merged, rev)
		}
	}

	return merged
}
