package tests

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/nickyhof/TemporalDB"
	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/db"
	"github.com/nickyhof/TemporalDB/ps"
	"github.com/nickyhof/TemporalDB/sql"
)

// setupBenchmarkDB creates a database with test data for benchmarks
func setupBenchmarkDB(b *testing.B) *db.Engine {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		b.Fatalf("Failed to initialize persistence: %v", err)
	}
	instance := TemporalDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})

	engine.Execute("CREATE TABLE users (id INT PRIMARY KEY, name STRING, age INT, city STRING)")

	// Insert 1000 records as one batch
	engine.Execute("BEGIN")
	for i := 1; i <= 1000; i++ {
		engine.Execute("INSERT INTO users (id, name, age, city) VALUES (" +
			strconv.Itoa(i) + ", 'User" + strconv.Itoa(i) + "', " + strconv.Itoa(20+i%50) + ", 'City" + strconv.Itoa(i%10) + "')")
	}
	if _, err := engine.Execute("COMMIT"); err != nil {
		b.Fatalf("Failed to load benchmark data: %v", err)
	}

	return engine
}

// BenchmarkSQLParsing benchmarks SQL parsing performance
func BenchmarkSQLParsing(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"SimpleSelect", "SELECT * FROM users"},
		{"SelectWithWhere", "SELECT * FROM users WHERE age > 30"},
		{"SelectWithOrderBy", "SELECT * FROM users ORDER BY age DESC"},
		{"SelectAsOf", "SELECT * FROM users AS OF '2025-06-01 12:00:00'"},
		{"SelectComplex", "SELECT * FROM users WHERE age > 25 AND city = 'City5' ORDER BY name ASC LIMIT 10"},
		{"Insert", "INSERT INTO users (id, name, age, city) VALUES (1, 'Test', 25, 'NYC')"},
		{"InsertAt", "INSERT OR REPLACE INTO users (id, name, age, city) VALUES (1, 'Test', 25, 'NYC') AT '2025-06-01'"},
		{"Update", "UPDATE users SET age = 30 WHERE id = 1"},
		{"Delete", "DELETE FROM users WHERE id = 1"},
		{"History", "HISTORY users WHERE id = 1"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				parser := sql.NewParser(q.query)
				_, err := parser.Parse()
				if err != nil {
					b.Fatalf("Parse error: %v", err)
				}
			}
		})
	}
}

// BenchmarkSelectAll benchmarks SELECT * FROM table
func BenchmarkSelectAll(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWithWhere benchmarks SELECT with WHERE clause
func BenchmarkSelectWithWhere(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users WHERE age > 40")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWithOrderBy benchmarks SELECT with ORDER BY
func BenchmarkSelectWithOrderBy(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users ORDER BY age DESC")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWithLimit benchmarks SELECT with LIMIT
func BenchmarkSelectWithLimit(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users LIMIT 10")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectAsOf benchmarks a point-in-time read over the timeline
func BenchmarkSelectAsOf(b *testing.B) {
	engine := setupBenchmarkDB(b)

	// Layer a second revision onto every tenth entity
	engine.Execute("BEGIN")
	for i := 10; i <= 1000; i += 10 {
		engine.Execute("INSERT OR REPLACE INTO users (id, name, age, city) VALUES (" +
			strconv.Itoa(i) + ", 'User" + strconv.Itoa(i) + "', 99, 'Moved')")
	}
	engine.Execute("COMMIT")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users AS OF '2025-06-01 12:00:00'")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkHistory benchmarks a single entity timeline read
func BenchmarkHistory(b *testing.B) {
	engine := setupBenchmarkDB(b)
	for i := 0; i < 10; i++ {
		engine.Execute("UPDATE users SET age = " + strconv.Itoa(30+i) + " WHERE id = 1")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("HISTORY users WHERE id = 1")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkInsert benchmarks INSERT performance (one commit per row)
func BenchmarkInsert(b *testing.B) {
	persistence, _ := ps.NewMemoryPersistence()
	instance := TemporalDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})

	engine.Execute("CREATE TABLE items (id INT PRIMARY KEY, value STRING)")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("INSERT INTO items (id, value) VALUES (" +
			strconv.Itoa(i) + ", 'value" + strconv.Itoa(i) + "')")
		if err != nil {
			b.Fatalf("Insert error: %v", err)
		}
	}
}

// BenchmarkInsertBatched benchmarks INSERT inside BEGIN/COMMIT batches
func BenchmarkInsertBatched(b *testing.B) {
	persistence, _ := ps.NewMemoryPersistence()
	instance := TemporalDB.Open(&persistence)
	engine := instance.Engine(core.Identity{Name: "benchmark", Email: "bench@test.com"})

	engine.Execute("CREATE TABLE items (id INT PRIMARY KEY, value STRING)")

	b.ResetTimer()

	next := 0
	for i := 0; i < b.N; i++ {
		engine.Execute("BEGIN")
		for j := 0; j < 100; j++ {
			engine.Execute("INSERT INTO items (id, value) VALUES (" +
				strconv.Itoa(next) + ", 'value" + strconv.Itoa(next) + "')")
			next++
		}
		if _, err := engine.Execute("COMMIT"); err != nil {
			b.Fatalf("Commit error: %v", err)
		}
	}
}

// BenchmarkUpdate benchmarks UPDATE performance
func BenchmarkUpdate(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := (i % 1000) + 1
		_, err := engine.Execute("UPDATE users SET age = 99 WHERE id = " + strconv.Itoa(id))
		if err != nil {
			b.Fatalf("Update error: %v", err)
		}
	}
}

// BenchmarkComplexQuery benchmarks a complex query
func BenchmarkComplexQuery(b *testing.B) {
	engine := setupBenchmarkDB(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("SELECT * FROM users WHERE age > 30 AND city = 'City5' ORDER BY age DESC LIMIT 20")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkLexer benchmarks lexer performance
func BenchmarkLexer(b *testing.B) {
	query := "SELECT id, name, age FROM users AS OF '2025-06-01' WHERE age > 25 AND city = 'NYC' ORDER BY name ASC LIMIT 100 OFFSET 10"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lexer := sql.NewLexer(query)
		for {
			token := lexer.NextToken()
			if token.Type == sql.EOF {
				break
			}
		}
	}
}

// BenchmarkExport benchmarks EXPORT of the full revision log
func BenchmarkExport(b *testing.B) {
	engine := setupBenchmarkDB(b)
	exportPath := b.TempDir() + "/export_bench.jsonl"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.Execute("EXPORT users TO '" + exportPath + "'")
		if err != nil {
			b.Fatalf("Export error: %v", err)
		}
	}
}

// BenchmarkImport benchmarks CSV IMPORT as a single bulk commit
func BenchmarkImport(b *testing.B) {
	engine := setupBenchmarkDB(b)

	var csv strings.Builder
	csv.WriteString("id,name,age,city\n")
	for i := 1; i <= 500; i++ {
		fmt.Fprintf(&csv, "%d,Name%d,%d,City%d\n", i, i, 20+i%50, i%10)
	}
	importPath := b.TempDir() + "/import_bench.csv"
	if err := os.WriteFile(importPath, []byte(csv.String()), 0644); err != nil {
		b.Fatalf("Failed to write import file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tableName := fmt.Sprintf("import_test_%d", i)
		engine.Execute("CREATE TABLE " + tableName + " (id INT PRIMARY KEY, name STRING, age INT, city STRING)")

		_, err := engine.Execute("IMPORT '" + importPath + "' INTO " + tableName)
		if err != nil {
			b.Fatalf("Import error: %v", err)
		}
	}
}
