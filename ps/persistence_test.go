package ps

import (
	"testing"
	"time"

	"github.com/nickyhof/TemporalDB/core"
)

func TestNewMemoryPersistence(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create memory persistence: %v", err)
	}

	if !persistence.IsInitialized() {
		t.Error("Expected persistence to be initialized")
	}
}

func TestPersistenceNotInitialized(t *testing.T) {
	var persistence Persistence

	if persistence.IsInitialized() {
		t.Error("Expected uninitialized persistence to return false")
	}

	err := persistence.ensureInitialized()
	if err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestCreateAndGetTable(t *testing.T) {
	persistence, err := NewMemoryPersistence()
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

	txn, err := persistence.CreateTable(table, identity)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if txn.Id == "" {
		t.Error("Expected transaction ID to be set")
	}

	gotTable, err := persistence.GetTable("people")
	if err != nil {
		t.Fatalf("Failed to get table: %v", err)
	}
	if gotTable.Name != "people" {
		t.Errorf("Expected table name 'people', got '%s'", gotTable.Name)
	}
	if len(gotTable.Columns) != 2 {
		t.Errorf("Expected 2 columns, got %d", len(gotTable.Columns))
	}
}

func TestCreateTableTwice(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}
	table := core.Table{Name: "people", Columns: []core.Column{{Name: "id", Type: core.IntType}}}

	if _, err := persistence.CreateTable(table, identity); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	if _, err := persistence.CreateTable(table, identity); err == nil {
		t.Error("Expected error creating table twice")
	}
}

func TestListTables(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}

	persistence.CreateTable(core.Table{Name: "table1", Columns: []core.Column{{Name: "id"}}}, identity)
	persistence.CreateTable(core.Table{Name: "table2", Columns: []core.Column{{Name: "id"}}}, identity)

	tables, err := persistence.ListTables()
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(tables) != 2 {
		t.Errorf("Expected 2 tables, got %d", len(tables))
	}
}

func TestDropTable(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}

	persistence.CreateTable(core.Table{Name: "people", Columns: []core.Column{{Name: "id"}}}, identity)

	rev := core.Revision{RevisionID: 1, EntityID: 1, AddedAt: time.Now(), Payload: map[string]string{"name": "Alice"}}
	change, _ := RevisionChange("people", rev)
	if _, err := persistence.Apply([]Change{change}, identity, "Appending revision"); err != nil {
		t.Fatalf("Failed to apply revision: %v", err)
	}

	if _, err := persistence.DropTable("people", identity); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}

	if _, err := persistence.GetTable("people"); err == nil {
		t.Error("Expected error getting dropped table")
	}

	ids, _ := persistence.ListEntityIDs("people")
	if len(ids) != 0 {
		t.Errorf("Expected revision log to be dropped with table, got %d entities", len(ids))
	}
}

func TestWriteAndReadRevision(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}
	addedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rev := core.Revision{
		RevisionID: 1,
		EntityID:   1,
		AddedAt:    addedAt,
		Payload:    map[string]string{"name": "Abraham Lincoln"},
	}

	change, err := RevisionChange("people", rev)
	if err != nil {
		t.Fatalf("Failed to build revision change: %v", err)
	}

	txn, err := persistence.Apply([]Change{change, SequenceChange(1)}, identity, "Appending revision")
	if err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	if txn.Id == "" {
		t.Error("Expected transaction ID to be set")
	}

	got, err := persistence.ReadRevision("people", 1, 1)
	if err != nil {
		t.Fatalf("Failed to read revision: %v", err)
	}
	if got.RevisionID != 1 || got.EntityID != 1 {
		t.Errorf("Unexpected revision ids: %+v", got)
	}
	if !got.AddedAt.Equal(addedAt) {
		t.Errorf("AddedAt round trip mismatch: got %s, want %s", got.AddedAt, addedAt)
	}
	if got.Payload["name"] != "Abraham Lincoln" {
		t.Errorf("Payload round trip mismatch: %v", got.Payload)
	}

	last, err := persistence.Sequence()
	if err != nil {
		t.Fatalf("Failed to read sequence: %v", err)
	}
	if last != 1 {
		t.Errorf("Expected sequence 1, got %d", last)
	}
}

func TestListEntityIDsAndRevisions(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var changes []Change
	for i := int64(1); i <= 3; i++ {
		rev := core.Revision{RevisionID: i, EntityID: 1, AddedAt: base.Add(time.Duration(i) * time.Second)}
		change, _ := RevisionChange("people", rev)
		changes = append(changes, change)
	}
	rev := core.Revision{RevisionID: 4, EntityID: 4, AddedAt: base}
	change, _ := RevisionChange("people", rev)
	changes = append(changes, change, SequenceChange(4))

	if _, err := persistence.Apply(changes, identity, "Bulk appending revisions"); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}

	ids, err := persistence.ListEntityIDs("people")
	if err != nil {
		t.Fatalf("Failed to list entity ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 4 {
		t.Errorf("Unexpected entity ids: %v", ids)
	}

	revisions, err := persistence.ListRevisions("people", 1)
	if err != nil {
		t.Fatalf("Failed to list revisions: %v", err)
	}
	if len(revisions) != 3 {
		t.Fatalf("Expected 3 revisions, got %d", len(revisions))
	}
	for i, rev := range revisions {
		if rev.RevisionID != int64(i+1) {
			t.Errorf("Expected revisions ordered by id, got %d at position %d", rev.RevisionID, i)
		}
	}
}

func TestSequenceEmptyRepo(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	last, err := persistence.Sequence()
	if err != nil {
		t.Fatalf("Failed to read sequence: %v", err)
	}
	if last != 0 {
		t.Errorf("Expected sequence 0 for fresh repo, got %d", last)
	}
}

func TestLockEntityStable(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	mu1 := persistence.LockEntity("people", 1)
	mu2 := persistence.LockEntity("people", 1)
	if mu1 != mu2 {
		t.Error("Expected the same mutex for the same entity")
	}

	other := persistence.LockEntity("people", 2)
	if mu1 == other {
		t.Error("Expected different mutexes for different entities")
	}
}

func TestEmptyCommitPrevention(t *testing.T) {
	persistence, err := NewMemoryPersistence()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	identity := core.Identity{Name: "test", Email: "test@test.com"}

	rev := core.Revision{RevisionID: 1, EntityID: 1, AddedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	change, _ := RevisionChange("people", rev)

	txn1, err := persistence.Apply([]Change{change}, identity, "Appending revision")
	if err != nil {
		t.Fatalf("Failed to apply initial change: %v", err)
	}
	if txn1.Id == "" {
		t.Error("Expected transaction ID for initial apply")
	}

	// Applying the exact same blob again should NOT create a new commit
	txn2, err := persistence.Apply([]Change{change}, identity, "Appending revision")
	if err != nil {
		t.Fatalf("Failed to apply duplicate change: %v", err)
	}
	if txn2.Id != "" {
		t.Error("Expected empty transaction ID when no changes are made (identical data)")
	}

	latest := persistence.LatestTransaction()
	if latest.Id != txn1.Id {
		t.Errorf("Expected HEAD to remain at %s, got %s", txn1.Id, latest.Id)
	}
}
