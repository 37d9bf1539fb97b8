package core

type ColumnType int

const (
	StringType ColumnType = iota
	IntType
	FloatType
	BoolType
	TextType
	TimestampType
)

type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	PrimaryKey bool       `json:"primaryKey"`
}

// Table describes a temporal table. The primary-key column, when present, is
// the entity identifier column: an INSERT carrying a value for it appends a
// revision under that explicit entity id (insert-or-replace). A table without
// a primary key auto-assigns entity ids from revision ids.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// EntityColumn returns the primary-key column name, or nil when the table
// auto-assigns entity ids.
func (t Table) EntityColumn() *string {
	for _, col := range t.Columns {
		if col.PrimaryKey {
			name := col.Name
			return &name
		}
	}
	return nil
}

// Validate checks that a table has a name, at least one column, and at most
// one primary key, which must be an integer column (it carries entity ids).
func (t Table) Validate() error {
	if t.Name == "" {
		return Constraintf("table name is empty")
	}
	if len(t.Columns) == 0 {
		return Constraintf("table %s has no columns", t.Name)
	}
	seen := false
	for _, col := range t.Columns {
		if !col.PrimaryKey {
			continue
		}
		if seen {
			return Constraintf("table %s has more than one primary key", t.Name)
		}
		if col.Type != IntType {
			return Constraintf("primary key %s.%s must be INT", t.Name, col.Name)
		}
		seen = true
	}
	return nil
}

func (t ColumnType) String() string {
	switch t {
	case StringType:
		return "STRING"
	case IntType:
		return "INT"
	case FloatType:
		return "FLOAT"
	case BoolType:
		return "BOOL"
	case TextType:
		return "TEXT"
	case TimestampType:
		return "TIMESTAMP"
	default:
		return "STRING"
	}
}
