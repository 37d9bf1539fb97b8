package op

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/ps"
)

func newTestLog(t *testing.T) (*TableLog, core.Identity) {
	t.Helper()

	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}

	table := core.Table{
		Name: "people",
		Columns: []core.Column{
			{Name: "id", Type: core.IntType, PrimaryKey: true},
			{Name: "name", Type: core.StringType},
		},
	}

	_, log, err := CreateTable(table, &persistence, identity)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	return log, identity
}

func TestAppendAutoEntity(t *testing.T) {
	log, identity := newTestLog(t)

	rev, closed, txn, err := log.Append(nil, ts(0), map[string]string{"name": "Abraham Lincoln"}, identity)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if rev.RevisionID != 1 {
		t.Errorf("Expected revision id 1, got %d", rev.RevisionID)
	}
	if rev.EntityID != rev.RevisionID {
		t.Errorf("Auto entity should equal revision id, got %d", rev.EntityID)
	}
	if len(closed) != 0 {
		t.Errorf("First revision should close nothing, got %d", len(closed))
	}
	if txn.Id == "" {
		t.Error("Expected transaction ID")
	}
}

func TestAppendMonotonicIds(t *testing.T) {
	log, identity := newTestLog(t)

	var previous int64
	for i := 0; i < 5; i++ {
		rev, _, _, err := log.Append(nil, ts(i), map[string]string{"name": "row"}, identity)
		if err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
		if rev.RevisionID <= previous {
			t.Errorf("Revision ids not strictly increasing: %d after %d", rev.RevisionID, previous)
		}
		previous = rev.RevisionID
	}
}

func TestAppendSupersedes(t *testing.T) {
	log, identity := newTestLog(t)

	entity := int64(1)
	first, _, _, err := log.Append(&entity, ts(0), map[string]string{"name": "v1"}, identity)
	if err != nil {
		t.Fatalf("First append failed: %v", err)
	}

	second, closed, _, err := log.Append(&entity, ts(10), map[string]string{"name": "v2"}, identity)
	if err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	if len(closed) != 1 || closed[0].RevisionID != first.RevisionID {
		t.Fatalf("Expected first revision closed, got %v", closed)
	}
	if !closed[0].RemovedAt.Equal(second.AddedAt) {
		t.Errorf("Closed revision should end where successor starts, got %v", closed[0].RemovedAt)
	}

	// Round trip: stored intervals match
	history, err := log.RevisionsOf(entity)
	if err != nil {
		t.Fatalf("RevisionsOf failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 revisions, got %d", len(history))
	}
	if history[0].RemovedAt == nil || !history[0].RemovedAt.Equal(ts(10)) {
		t.Errorf("Stored first interval wrong: %v", history[0].RemovedAt)
	}
	if history[1].RemovedAt != nil {
		t.Errorf("Stored second interval should be open: %v", history[1].RemovedAt)
	}
}

func TestAppendExplicitEntityAboveSequence(t *testing.T) {
	log, identity := newTestLog(t)

	// Next revision id is 1; an explicit entity id above it breaks the
	// entity_id <= revision_id invariant
	entity := int64(100)
	_, _, _, err := log.Append(&entity, ts(0), map[string]string{"name": "x"}, identity)
	if !errors.Is(err, core.ErrConstraintViolation) {
		t.Errorf("Expected ErrConstraintViolation, got %v", err)
	}

	// The rejected append must leave no partial state
	ids, _ := log.EntityIDs()
	if len(ids) != 0 {
		t.Errorf("Rejected append left entities behind: %v", ids)
	}
	last, _ := log.Persistence.Sequence()
	if last != 0 {
		t.Errorf("Rejected append consumed sequence: %d", last)
	}
}

func TestAsOfEntityTimeline(t *testing.T) {
	log, identity := newTestLog(t)

	entity := int64(1)
	log.Append(&entity, ts(0), map[string]string{"name": "v1"}, identity)
	log.Append(&entity, ts(10), map[string]string{"name": "v2"}, identity)
	log.Append(&entity, ts(20), map[string]string{"name": "v3"}, identity)

	tests := []struct {
		name   string
		asof   time.Time
		expect string // "" means no active revision
	}{
		{"before first", ts(-1), ""},
		{"at first", ts(0), "v1"},
		{"mid first", ts(5), "v1"},
		{"at second boundary", ts(10), "v2"},
		{"mid third", ts(25), "v3"},
		{"far future", ts(1000000), "v3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev, err := log.AsOfEntity(tt.asof, entity)
			if err != nil {
				t.Fatalf("AsOfEntity failed: %v", err)
			}
			if tt.expect == "" {
				if rev != nil {
					t.Errorf("Expected no active revision, got %v", rev.Payload)
				}
				return
			}
			if rev == nil {
				t.Fatal("Expected an active revision, got none")
			}
			if rev.Payload["name"] != tt.expect {
				t.Errorf("Expected %s, got %s", tt.expect, rev.Payload["name"])
			}
		})
	}
}

func TestScheduledRevision(t *testing.T) {
	log, identity := newTestLog(t)

	entity := int64(1)
	now := time.Now()
	future := now.Add(24 * time.Hour)

	log.Append(&entity, now, map[string]string{"name": "current"}, identity)
	log.Append(&entity, future, map[string]string{"name": "scheduled"}, identity)

	// Before the scheduled instant the current row shows
	rev, err := log.AsOfEntity(now.Add(time.Minute), entity)
	if err != nil {
		t.Fatalf("AsOfEntity failed: %v", err)
	}
	if rev == nil || rev.Payload["name"] != "current" {
		t.Errorf("Expected current row before scheduled time, got %v", rev)
	}

	// At the scheduled instant the new row takes over
	rev, err = log.AsOfEntity(future, entity)
	if err != nil {
		t.Fatalf("AsOfEntity failed: %v", err)
	}
	if rev == nil || rev.Payload["name"] != "scheduled" {
		t.Errorf("Expected scheduled row at its added_at, got %v", rev)
	}
}

func TestAsOfTable(t *testing.T) {
	log, identity := newTestLog(t)

	e1, e2 := int64(1), int64(2)
	log.Append(&e1, ts(0), map[string]string{"name": "alice"}, identity)
	log.Append(&e2, ts(5), map[string]string{"name": "bob"}, identity)
	log.Append(&e1, ts(10), map[string]string{"name": "alice2"}, identity)

	active, err := log.AsOf(ts(3))
	if err != nil {
		t.Fatalf("AsOf failed: %v", err)
	}
	if len(active) != 1 || active[0].Payload["name"] != "alice" {
		t.Errorf("At ts(3) only alice should be active, got %v", active)
	}

	active, err = log.AsOf(ts(20))
	if err != nil {
		t.Fatalf("AsOf failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("At ts(20) both entities should be active, got %d", len(active))
	}
	if active[0].EntityID != 1 || active[0].Payload["name"] != "alice2" {
		t.Errorf("Entity 1 should show its latest revision, got %v", active[0].Payload)
	}
}

func TestIntegrityErrorSurfaced(t *testing.T) {
	log, identity := newTestLog(t)

	// Hand-craft overlapping intervals, bypassing the resolver
	r1 := core.Revision{RevisionID: 1, EntityID: 1, AddedAt: ts(0)}
	r2 := core.Revision{RevisionID: 2, EntityID: 1, AddedAt: ts(10)}
	c1, _ := ps.RevisionChange("people", r1)
	c2, _ := ps.RevisionChange("people", r2)
	if _, err := log.Persistence.Apply([]ps.Change{c1, c2, ps.SequenceChange(2)}, identity, "Seeding corrupt intervals"); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Both are open at ts(20): two active revisions
	_, err := log.AsOfEntity(ts(20), 1)
	if !errors.Is(err, core.ErrIntegrity) {
		t.Errorf("Expected ErrIntegrity, got %v", err)
	}

	if err := log.CheckIntegrity(); !errors.Is(err, core.ErrIntegrity) {
		t.Errorf("CheckIntegrity should flag the overlap, got %v", err)
	}
}

func TestConcurrentAppendsPartitionTime(t *testing.T) {
	log, identity := newTestLog(t)

	entity := int64(1)
	const n = 10

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := log.Append(&entity, time.Now(), map[string]string{"name": "racer"}, identity)
			if err != nil {
				t.Errorf("Concurrent append failed: %v", err)
			}
		}()
	}
	wg.Wait()

	history, err := log.RevisionsOf(entity)
	if err != nil {
		t.Fatalf("RevisionsOf failed: %v", err)
	}
	if len(history) != n {
		t.Fatalf("Expected %d revisions, got %d", n, len(history))
	}

	// Exactly one open revision, and intervals partition the covered range
	open := 0
	for _, rev := range history {
		if rev.Open() {
			open++
		}
	}
	if open != 1 {
		t.Errorf("Expected exactly 1 open revision, got %d", open)
	}
	if err := CheckIntervals(history); err != nil {
		t.Errorf("Concurrent appends broke non-overlap: %v", err)
	}

	// At most one active at any revision boundary
	for _, rev := range history {
		active := 0
		for _, other := range history {
			if other.ActiveAt(rev.AddedAt) {
				active++
			}
		}
		if active > 1 {
			t.Errorf("%d revisions active at %s", active, rev.AddedAt)
		}
	}
}

func TestRevisionLookup(t *testing.T) {
	log, identity := newTestLog(t)

	e1 := int64(1)
	log.Append(&e1, ts(0), map[string]string{"name": "alice"}, identity)
	want, _, _, err := log.Append(nil, ts(5), map[string]string{"name": "bob"}, identity)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := log.Revision(want.RevisionID)
	if err != nil {
		t.Fatalf("Revision lookup failed: %v", err)
	}
	if got.EntityID != want.EntityID || got.Payload["name"] != "bob" {
		t.Errorf("Unexpected revision: %+v", got)
	}

	if _, err := log.Revision(999); err == nil {
		t.Error("Expected error for missing revision")
	}
}
