// Package TemporalDB provides a Git-backed temporal database engine.
//
// TemporalDB records every row as a revision with a validity interval,
// making every mutation a Git commit. Nothing is ever deleted: an UPDATE
// closes the old revision and opens a new one, a DELETE only closes. Any
// past state of a table can be read back with AS OF, and the full
// timeline of a row with HISTORY.
//
// # Quick Start
//
// Create an in-memory database:
//
//	persistence, _ := ps.NewMemoryPersistence()
//	instance := TemporalDB.Open(&persistence)
//	engine := instance.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	engine.Execute("CREATE TABLE users (id INT PRIMARY KEY, name STRING)")
//	engine.Execute("INSERT INTO users (id, name) VALUES (1, 'Alice')")
//	engine.Execute("UPDATE users SET name = 'Alicia' WHERE id = 1")
//
//	result, _ := engine.Execute("SELECT * FROM users AS OF '2025-06-01 12:00:00'")
//	result.Display()
//
// # Supported SQL
//
// TemporalDB supports a temporal subset of SQL including:
//   - CREATE/DROP TABLE, CREATE/DROP VIEW
//   - INSERT [OR REPLACE] ... [AT 'ts']
//   - SELECT ... [AS OF 'ts'], UPDATE/DELETE ... [AT 'ts']
//   - HISTORY <table> WHERE <pk> = <value>
//   - WHERE with comparison operators, ORDER BY, LIMIT, OFFSET
//   - Transactions: BEGIN, COMMIT, ROLLBACK
//   - SNAPSHOT, TRANSACTIONS [SINCE 'ts']
//   - EXPORT <table> TO 'url', IMPORT 'url' INTO <table>
package TemporalDB
