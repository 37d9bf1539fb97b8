package ps

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nickyhof/TemporalDB/core"
)

// Tree layout:
//
//	<table>.table                     schema JSON
//	<table>/<entity_id>/<revision_id> revision JSON, both ids zero-padded
//	.temporaldb/sequence              last allocated revision id
//	.temporaldb/views/<name>.json     saved point-in-time views
//
// Zero-padding makes Git tree order equal numeric order, so listing a
// directory yields entities and revisions already sorted.

func tablePath(table string) string {
	return fmt.Sprintf("%s.table", table)
}

func entityDir(table string, entityId int64) string {
	return fmt.Sprintf("%s/%020d", table, entityId)
}

func revisionPath(table string, entityId, revisionId int64) string {
	return fmt.Sprintf("%s/%020d/%020d", table, entityId, revisionId)
}

// RevisionChange builds the Change writing one revision record. The same path
// is written again when a later append tightens the revision's removed_at.
func RevisionChange(table string, rev core.Revision) (Change, error) {
	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return Change{}, fmt.Errorf("failed to marshal revision %d: %w", rev.RevisionID, err)
	}

	return Change{
		Path: revisionPath(table, rev.EntityID, rev.RevisionID),
		Data: data,
	}, nil
}

// CreateTable stores a table schema. Fails if the table already exists.
func (p *Persistence) CreateTable(table core.Table, identity core.Identity) (Transaction, error) {
	if err := p.ensureInitialized(); err != nil {
		return Transaction{}, err
	}

	if _, err := p.GetTable(table.Name); err == nil {
		return Transaction{}, fmt.Errorf("table %s already exists", table.Name)
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to marshal table: %w", err)
	}

	return p.WriteFileDirect(tablePath(table.Name), data, identity, fmt.Sprintf("Creating table %s", table.Name))
}

// GetTable retrieves a table schema
func (p *Persistence) GetTable(name string) (*core.Table, error) {
	data, err := p.ReadFileDirect(tablePath(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	var table core.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table %s: %w", name, err)
	}

	return &table, nil
}

// DropTable removes a table schema and its whole revision log
func (p *Persistence) DropTable(name string, identity core.Identity) (Transaction, error) {
	if _, err := p.GetTable(name); err != nil {
		return Transaction{}, err
	}

	paths := []string{tablePath(name), name}
	return p.DeletePathDirect(paths, identity, fmt.Sprintf("Dropping table %s", name))
}

// ListTables returns all table schemas, sorted by name
func (p *Persistence) ListTables() ([]core.Table, error) {
	entries, err := p.ListEntriesDirect("")
	if err != nil {
		return nil, err
	}

	var tables []core.Table
	for _, entry := range entries {
		if entry.IsDir || !strings.HasSuffix(entry.Name, ".table") {
			continue
		}

		table, err := p.GetTable(strings.TrimSuffix(entry.Name, ".table"))
		if err != nil {
			continue // Skip unreadable schemas
		}
		tables = append(tables, *table)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

// ListEntityIDs returns the entity ids present in a table, ascending
func (p *Persistence) ListEntityIDs(table string) ([]int64, error) {
	entries, err := p.ListEntriesDirect(table)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		id, err := strconv.ParseInt(entry.Name, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	// Zero-padded names list in numeric order already; sort anyway
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ReadRevision reads one revision record
func (p *Persistence) ReadRevision(table string, entityId, revisionId int64) (*core.Revision, error) {
	data, err := p.ReadFileDirect(revisionPath(table, entityId, revisionId))
	if err != nil {
		return nil, fmt.Errorf("revision %d of entity %d not found: %w", revisionId, entityId, err)
	}

	var rev core.Revision
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal revision %d: %w", revisionId, err)
	}

	return &rev, nil
}

// ListRevisions returns all revisions of one entity, by revision id ascending
func (p *Persistence) ListRevisions(table string, entityId int64) ([]core.Revision, error) {
	entries, err := p.ListEntriesDirect(entityDir(table, entityId))
	if err != nil {
		return nil, err
	}

	var revisions []core.Revision
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		revisionId, err := strconv.ParseInt(entry.Name, 10, 64)
		if err != nil {
			continue
		}

		rev, err := p.ReadRevision(table, entityId, revisionId)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, *rev)
	}

	sort.Slice(revisions, func(i, j int) bool { return revisions[i].RevisionID < revisions[j].RevisionID })
	return revisions, nil
}
