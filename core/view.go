package core

import "time"

// View is a saved point-in-time query: a table pinned at an instant. Selecting
// from a view always returns the table as it was at AsOf, regardless of
// revisions appended since.
type View struct {
	Name      string    `json:"name"`
	Table     string    `json:"table"`
	AsOf      time.Time `json:"as_of"`
	Columns   []string  `json:"columns"` // empty means all table columns
	CreatedAt time.Time `json:"created_at"`
}
