// Package sql provides SQL lexing and parsing for TemporalDB.
//
// The package includes a lexer that tokenizes SQL strings and a parser
// that produces statement values for the temporal SQL dialect.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM people")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Printf("Token: %s = %s\n", token.Type, token.Value)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT * FROM people AS OF '2025-06-01 12:00:00'")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Temporal Clauses
//
// The dialect extends plain SQL with time travel. SELECT takes an optional
// AS OF '<timestamp>' clause that pins the query to an instant; INSERT,
// UPDATE and DELETE take an optional AT '<timestamp>' clause that places
// the mutation on the timeline, in the past or the future. Timestamp
// literals accept '2006-01-02 15:04:05', RFC 3339, and bare '2006-01-02'
// dates, all interpreted as UTC.
//
// # Supported Statements
//
// The parser supports the following statement types:
//   - SelectStatement (with AS OF, and SELECT * FROM VIEW name)
//   - InsertStatement (with OR REPLACE and AT)
//   - UpdateStatement, DeleteStatement (with AT)
//   - HistoryStatement
//   - CreateTableStatement, DropTableStatement
//   - CreateViewStatement, DropViewStatement
//   - BeginStatement, CommitStatement, RollbackStatement
//   - DescribeStatement, ShowTablesStatement, ShowViewsStatement
//   - SnapshotStatement, TransactionsStatement
//   - ExportStatement, ImportStatement
package sql
