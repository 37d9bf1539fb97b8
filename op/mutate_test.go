package op

import (
	"errors"
	"testing"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/ps"
)

func TestInsertUpdateDeleteRoundTrip(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	entity := int64(1)
	at0, at1, at2 := ts(0), ts(10), ts(20)

	inserted, _, err := m.Insert(&entity, map[string]string{"name": "Abraham Lincoln"}, &at0)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if inserted.EntityID != entity {
		t.Errorf("Expected entity %d, got %d", entity, inserted.EntityID)
	}

	updated, _, err := m.Update(entity, map[string]string{"name": "A. Lincoln"}, nil, &at1)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.EntityID != entity {
		t.Errorf("Update changed entity: %d", updated.EntityID)
	}

	deleted, _, err := m.Delete(entity, &at2)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted == nil || !deleted.RemovedAt.Equal(at2) {
		t.Fatalf("Expected delete to close at %s, got %v", at2, deleted)
	}

	// The full lifecycle reads back correctly at each instant
	rev, _ := log.AsOfEntity(ts(5), entity)
	if rev == nil || rev.Payload["name"] != "Abraham Lincoln" {
		t.Errorf("ts(5): expected original row, got %v", rev)
	}
	rev, _ = log.AsOfEntity(ts(15), entity)
	if rev == nil || rev.Payload["name"] != "A. Lincoln" {
		t.Errorf("ts(15): expected updated row, got %v", rev)
	}
	rev, _ = log.AsOfEntity(ts(25), entity)
	if rev != nil {
		t.Errorf("ts(25): expected deleted, got %v", rev)
	}

	// History retains all revisions
	history, _ := log.RevisionsOf(entity)
	if len(history) != 2 {
		t.Errorf("Expected 2 revisions in history, got %d", len(history))
	}
}

func TestUpdateMergesPayload(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	entity := int64(1)
	at0, at1 := ts(0), ts(10)

	m.Insert(&entity, map[string]string{"name": "Alice", "city": "Boston"}, &at0)
	m.Update(entity, map[string]string{"city": "Chicago"}, nil, &at1)

	rev, err := log.AsOfEntity(ts(15), entity)
	if err != nil {
		t.Fatalf("AsOfEntity failed: %v", err)
	}
	if rev.Payload["name"] != "Alice" {
		t.Errorf("Untouched column lost: %v", rev.Payload)
	}
	if rev.Payload["city"] != "Chicago" {
		t.Errorf("Updated column wrong: %v", rev.Payload)
	}
}

func TestInsertRejectDuplicate(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)
	m.Options.OnDuplicateIdentifier = RejectDuplicate

	entity := int64(1)
	at0 := ts(0)

	if _, _, err := m.Insert(&entity, map[string]string{"name": "v1"}, &at0); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	at1 := ts(10)
	_, _, err := m.Insert(&entity, map[string]string{"name": "v2"}, &at1)
	if !errors.Is(err, core.ErrConstraintViolation) {
		t.Errorf("Expected ErrConstraintViolation on duplicate, got %v", err)
	}

	// Default policy replaces instead
	m.Options.OnDuplicateIdentifier = AllowAsUpdate
	if _, _, err := m.Insert(&entity, map[string]string{"name": "v2"}, &at1); err != nil {
		t.Fatalf("Insert-or-replace failed: %v", err)
	}

	rev, _ := log.AsOfEntity(ts(15), entity)
	if rev == nil || rev.Payload["name"] != "v2" {
		t.Errorf("Replacement not visible: %v", rev)
	}
}

func TestUpdateIdentityChange(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	oldId := int64(1)
	at0, at1 := ts(0), ts(10)
	m.Insert(&oldId, map[string]string{"name": "Alice"}, &at0)

	newId := int64(2)
	moved, _, err := m.Update(oldId, nil, &newId, &at1)
	if err != nil {
		t.Fatalf("Identity change failed: %v", err)
	}
	if moved.EntityID != newId {
		t.Errorf("Expected entity %d, got %d", newId, moved.EntityID)
	}
	if moved.Payload["name"] != "Alice" {
		t.Errorf("Payload lost in identity change: %v", moved.Payload)
	}

	// Old entity closed at the change instant, new one active after
	rev, _ := log.AsOfEntity(ts(15), oldId)
	if rev != nil {
		t.Errorf("Old entity should be inactive after identity change, got %v", rev)
	}
	rev, _ = log.AsOfEntity(ts(15), newId)
	if rev == nil || rev.Payload["name"] != "Alice" {
		t.Errorf("New entity should be active, got %v", rev)
	}

	// Before the change the old entity still answers
	rev, _ = log.AsOfEntity(ts(5), oldId)
	if rev == nil || rev.Payload["name"] != "Alice" {
		t.Errorf("Old entity should answer before the change, got %v", rev)
	}
}

func TestUpdateIdentityChangeRejected(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)
	m.Options.OnIdentityChange = RejectIdentityChange

	oldId := int64(1)
	at0 := ts(0)
	m.Insert(&oldId, map[string]string{"name": "Alice"}, &at0)

	newId := int64(2)
	at1 := ts(10)
	_, _, err := m.Update(oldId, nil, &newId, &at1)
	if !errors.Is(err, core.ErrConstraintViolation) {
		t.Errorf("Expected ErrConstraintViolation, got %v", err)
	}
}

func TestDeleteNothingActive(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	at := ts(0)
	rev, txn, err := m.Delete(42, &at)
	if err != nil {
		t.Fatalf("Delete of absent entity failed: %v", err)
	}
	if rev != nil {
		t.Errorf("Expected no-op delete, got %v", rev)
	}
	if txn.Id != "" {
		t.Error("No-op delete should not commit")
	}
}

func TestDeleteThenReinsert(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	entity := int64(1)
	at0, at1, at2 := ts(0), ts(10), ts(20)

	m.Insert(&entity, map[string]string{"name": "v1"}, &at0)
	m.Delete(entity, &at1)
	m.Insert(&entity, map[string]string{"name": "v2"}, &at2)

	// The gap between delete and reinsert has no active revision
	rev, err := log.AsOfEntity(ts(15), entity)
	if err != nil {
		t.Fatalf("AsOfEntity failed: %v", err)
	}
	if rev != nil {
		t.Errorf("Expected gap at ts(15), got %v", rev)
	}

	rev, _ = log.AsOfEntity(ts(25), entity)
	if rev == nil || rev.Payload["name"] != "v2" {
		t.Errorf("Reinserted row not visible: %v", rev)
	}
}

func TestHooksFire(t *testing.T) {
	log, identity := newTestLog(t)
	m := NewMutator(log, identity)

	var openedIds, closedIds []int64
	m.Hooks = Hooks{
		OnRevisionOpened: func(table string, rev core.Revision, txn ps.Transaction) {
			if table != "people" {
				t.Errorf("Unexpected table in hook: %s", table)
			}
			if txn.Author == "" {
				t.Error("Hook transaction missing attribution")
			}
			openedIds = append(openedIds, rev.RevisionID)
		},
		OnRevisionClosed: func(table string, rev core.Revision, txn ps.Transaction) {
			closedIds = append(closedIds, rev.RevisionID)
		},
	}

	entity := int64(1)
	at0, at1, at2 := ts(0), ts(10), ts(20)

	m.Insert(&entity, map[string]string{"name": "v1"}, &at0)
	m.Update(entity, map[string]string{"name": "v2"}, nil, &at1)
	m.Delete(entity, &at2)

	if len(openedIds) != 2 {
		t.Errorf("Expected 2 opened hooks, got %d", len(openedIds))
	}
	// Update closes revision 1, delete closes revision 2
	if len(closedIds) != 2 || closedIds[0] != 1 || closedIds[1] != 2 {
		t.Errorf("Unexpected closed hooks: %v", closedIds)
	}
}
