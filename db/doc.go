// Package db provides the temporal SQL execution engine for TemporalDB.
//
// An Engine binds a persistence and an identity, parses temporal SQL with
// the sql package, and executes it through the op layer:
//
//	engine := db.NewEngine(&persistence, identity)
//	engine.Execute("CREATE TABLE people (id INT PRIMARY KEY, name STRING)")
//	engine.Execute("INSERT INTO people (id, name) VALUES (1, 'Abraham Lincoln')")
//	result, err := engine.Execute("SELECT * FROM people AS OF '2025-06-01 12:00:00'")
//
// SELECT without AS OF answers at the current instant; HISTORY returns an
// entity's full revision timeline. BEGIN..COMMIT batches mutations into one
// commit per table through the op bulk path; an engine is a single session
// and its transaction state is not shared.
package db
