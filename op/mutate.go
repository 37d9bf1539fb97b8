package op

import (
	"time"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/ps"
)

// DuplicatePolicy decides what an insert with an already-used entity id does.
type DuplicatePolicy int

const (
	// AllowAsUpdate treats the insert as a replacement: the new revision
	// supersedes whatever was active. This is the default.
	AllowAsUpdate DuplicatePolicy = iota
	// RejectDuplicate refuses inserts for entity ids that already have
	// revisions.
	RejectDuplicate
)

// IdentityChangePolicy decides whether an update may move a row to a new
// entity id.
type IdentityChangePolicy int

const (
	// AllowIdentityChange closes the old entity's active revision and opens
	// a revision under the new id. This is the default.
	AllowIdentityChange IdentityChangePolicy = iota
	// RejectIdentityChange refuses updates that change the entity id.
	RejectIdentityChange
)

type Options struct {
	OnDuplicateIdentifier DuplicatePolicy
	OnIdentityChange      IdentityChangePolicy
}

// Hooks are invoked after the commit that opened or closed a revision, with
// the transaction carrying the attribution. A revision counts as closed when
// the mutation set or tightened its removed_at.
type Hooks struct {
	OnRevisionOpened func(table string, rev core.Revision, txn ps.Transaction)
	OnRevisionClosed func(table string, rev core.Revision, txn ps.Transaction)
}

// Mutator is the write facade over a TableLog: Insert, Update, Delete with
// insert-or-replace semantics, bound to one identity.
type Mutator struct {
	Log      *TableLog
	Identity core.Identity
	Options  Options
	Hooks    Hooks
}

func NewMutator(log *TableLog, identity core.Identity) *Mutator {
	return &Mutator{
		Log:      log,
		Identity: identity,
	}
}

// Insert appends a new revision. A nil entityId auto-assigns the entity; an
// explicit entityId is insert-or-replace under the duplicate policy. A nil
// `at` means now; a future `at` schedules the row.
func (m *Mutator) Insert(entityId *int64, payload map[string]string, at *time.Time) (*core.Revision, ps.Transaction, error) {
	addedAt := timeOrNow(at)

	if entityId != nil {
		mu := m.Log.Persistence.LockEntity(m.Log.Table.Name, *entityId)
		mu.Lock()
		defer mu.Unlock()

		if m.Options.OnDuplicateIdentifier == RejectDuplicate {
			existing, err := m.Log.Persistence.ListRevisions(m.Log.Table.Name, *entityId)
			if err != nil {
				return nil, ps.Transaction{}, err
			}
			if len(existing) > 0 {
				return nil, ps.Transaction{}, core.Constraintf("entity %d already exists in table %s", *entityId, m.Log.Table.Name)
			}
		}
	}

	m.Log.Persistence.Lock()
	defer m.Log.Persistence.Unlock()

	rev, closed, txn, err := m.Log.appendLocked(entityId, addedAt, payload, m.Identity, "Inserting revision")
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	m.fireOpened(*rev, txn)
	m.fireClosed(closed, txn)

	return rev, txn, nil
}

// Update supersedes the entity's active revision: the stored payload is the
// active payload overlaid with set. When newEntityId names a different
// entity, the old entity's revision closes and the new revision opens under
// the new id, in the same commit.
func (m *Mutator) Update(entityId int64, set map[string]string, newEntityId *int64, at *time.Time) (*core.Revision, ps.Transaction, error) {
	when := timeOrNow(at)

	target := entityId
	if newEntityId != nil && *newEntityId != entityId {
		if m.Options.OnIdentityChange == RejectIdentityChange {
			return nil, ps.Transaction{}, core.Constraintf("identity change from entity %d to %d rejected", entityId, *newEntityId)
		}
		target = *newEntityId
	}

	unlock := m.lockEntities(entityId, target)
	defer unlock()

	m.Log.Persistence.Lock()
	defer m.Log.Persistence.Unlock()

	current, err := m.Log.AsOfEntity(when, entityId)
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	merged := make(map[string]string)
	if current != nil {
		for key, value := range current.Payload {
			merged[key] = value
		}
	}
	for key, value := range set {
		merged[key] = value
	}

	if target == entityId {
		rev, closed, txn, err := m.Log.appendLocked(&entityId, when, merged, m.Identity, "Updating revision")
		if err != nil {
			return nil, ps.Transaction{}, err
		}

		m.fireOpened(*rev, txn)
		m.fireClosed(closed, txn)

		return rev, txn, nil
	}

	return m.moveLocked(current, target, merged, when)
}

// moveLocked performs an identity change: one commit closing the old entity's
// active revision and opening a revision under the new entity id.
func (m *Mutator) moveLocked(current *core.Revision, target int64, payload map[string]string, when time.Time) (*core.Revision, ps.Transaction, error) {
	last, err := m.Log.Persistence.Sequence()
	if err != nil {
		return nil, ps.Transaction{}, err
	}
	revisionId := last + 1

	rev := core.Revision{
		RevisionID: revisionId,
		EntityID:   target,
		AddedAt:    when,
		Payload:    payload,
	}
	if err := rev.Validate(); err != nil {
		return nil, ps.Transaction{}, err
	}

	existing, err := m.Log.Persistence.ListRevisions(m.Log.Table.Name, target)
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	resolved := Resolve(append(existing, rev))

	changes, closed, err := m.Log.revisionChanges(existing, resolved)
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	if current != nil && (current.RemovedAt == nil || when.Before(*current.RemovedAt)) {
		ended := *current
		bound := when
		ended.RemovedAt = &bound
		if err := ended.Validate(); err != nil {
			return nil, ps.Transaction{}, err
		}

		change, err := ps.RevisionChange(m.Log.Table.Name, ended)
		if err != nil {
			return nil, ps.Transaction{}, err
		}
		changes = append(changes, change)
		closed = append(closed, ended)
	}

	changes = append(changes, ps.SequenceChange(revisionId))

	txn, err := m.Log.Persistence.Apply(changes, m.Identity, "Updating revision identity")
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	opened := rev
	for i := range resolved {
		if resolved[i].RevisionID == revisionId {
			opened = resolved[i]
		}
	}

	m.fireOpened(opened, txn)
	m.fireClosed(closed, txn)

	return &opened, txn, nil
}

// Delete logically deletes: the active revision's removed_at is tightened to
// `at` (or now). The revision record itself stays in the log. A delete with
// nothing active is a no-op returning a nil revision and zero transaction.
func (m *Mutator) Delete(entityId int64, at *time.Time) (*core.Revision, ps.Transaction, error) {
	when := timeOrNow(at)

	mu := m.Log.Persistence.LockEntity(m.Log.Table.Name, entityId)
	mu.Lock()
	defer mu.Unlock()

	m.Log.Persistence.Lock()
	defer m.Log.Persistence.Unlock()

	current, err := m.Log.AsOfEntity(when, entityId)
	if err != nil {
		return nil, ps.Transaction{}, err
	}
	if current == nil {
		return nil, ps.Transaction{}, nil
	}

	ended := *current
	bound := when
	ended.RemovedAt = &bound
	if err := ended.Validate(); err != nil {
		return nil, ps.Transaction{}, err
	}

	change, err := ps.RevisionChange(m.Log.Table.Name, ended)
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	txn, err := m.Log.Persistence.Apply([]ps.Change{change}, m.Identity, "Deleting revision")
	if err != nil {
		return nil, ps.Transaction{}, err
	}

	m.fireClosed([]core.Revision{ended}, txn)

	return &ended, txn, nil
}

// lockEntities locks one or two entity mutexes in id order, avoiding
// deadlock between concurrent identity changes. Returns the unlock func.
func (m *Mutator) lockEntities(a, b int64) func() {
	if a == b {
		mu := m.Log.Persistence.LockEntity(m.Log.Table.Name, a)
		mu.Lock()
		return mu.Unlock
	}

	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}

	muLo := m.Log.Persistence.LockEntity(m.Log.Table.Name, lo)
	muHi := m.Log.Persistence.LockEntity(m.Log.Table.Name, hi)
	muLo.Lock()
	muHi.Lock()

	return func() {
		muHi.Unlock()
		muLo.Unlock()
	}
}

func (m *Mutator) fireOpened(rev core.Revision, txn ps.Transaction) {
	if m.Hooks.OnRevisionOpened == nil {
		return
	}
	m.Hooks.OnRevisionOpened(m.Log.Table.Name, rev, txn)
}

func (m *Mutator) fireClosed(closed []core.Revision, txn ps.Transaction) {
	if m.Hooks.OnRevisionClosed == nil {
		return
	}
	for _, rev := range closed {
		m.Hooks.OnRevisionClosed(m.Log.Table.Name, rev, txn)
	}
}

func timeOrNow(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return time.Now()
}
