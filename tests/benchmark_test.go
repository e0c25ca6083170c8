package tests

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"

	mee "github.com/amonsch/mee-cli"
	"github.com/amonsch/mee-cli/engine"
	"github.com/amonsch/mee-cli/source"
	"github.com/amonsch/mee-cli/sql"
)

// benchmarkData builds an NDJSON source with n records.
func benchmarkData(n int) []byte {
	var buf bytes.Buffer
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&buf, `{"id": %d, "name": "User%d", "age": %d, "city": "City%d"}`+"\n",
			i, i, 20+i%50, i%10)
	}
	return buf.Bytes()
}

// setupBenchmarkEngine creates an engine over an in-memory source with 1000 records
func setupBenchmarkEngine(b *testing.B) *engine.Engine {
	fs := memfs.New()
	if err := util.WriteFile(fs, "users.ndjson", benchmarkData(1000), 0644); err != nil {
		b.Fatalf("Failed to seed store: %v", err)
	}
	return mee.Open(source.NewStore(fs)).Engine()
}

// BenchmarkParsing benchmarks statement parsing performance
func BenchmarkParsing(b *testing.B) {
	statements := []struct {
		name      string
		statement string
	}{
		{"SimpleSelect", "SELECT name FROM users.ndjson"},
		{"MultiColumn", "SELECT id, name, age, city FROM users.ndjson"},
		{"WhereEquals", "SELECT name FROM users.ndjson WHERE city = 'City5'"},
		{"WhereNotEquals", "SELECT name, age FROM users.ndjson WHERE age != 33"},
		{"QuotedSource", "SELECT name FROM 'https://example.com/users.ndjson' WHERE id = 7"},
		{"FloatLiteral", "SELECT total FROM orders.jsonl WHERE total = 42.5"},
		{"NegativeLiteral", "SELECT delta FROM deltas.ndjson WHERE delta = -12"},
		{"BoolLiteral", "SELECT name FROM users.ndjson WHERE active = TRUE"},
		{"NullLiteral", "SELECT name FROM users.ndjson WHERE nickname != NULL"},
	}

	for _, s := range statements {
		b.Run(s.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				parser := sql.NewParser(s.statement)
				_, err := parser.Parse()
				if err != nil {
					b.Fatalf("Parse error: %v", err)
				}
			}
		})
	}
}

// BenchmarkLexer benchmarks lexer performance
func BenchmarkLexer(b *testing.B) {
	statement := "SELECT id, name, age, city FROM 'https://example.com/users.ndjson' WHERE city != 'City5';"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lexer := sql.NewLexer(statement)
		for {
			token := lexer.NextToken()
			if token.Type == sql.EOF {
				break
			}
		}
	}
}

// BenchmarkSelectAll benchmarks a full projection over every record
func BenchmarkSelectAll(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := eng.Execute("SELECT id, name, age, city FROM users.ndjson")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectNarrow benchmarks a single-column projection
func BenchmarkSelectNarrow(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := eng.Execute("SELECT name FROM users.ndjson")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWhere benchmarks an exact-match filter
func BenchmarkSelectWhere(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := eng.Execute("SELECT name, city FROM users.ndjson WHERE city = 'City5'")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkSelectWhereNotEquals benchmarks a negated filter
func BenchmarkSelectWhereNotEquals(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := eng.Execute("SELECT name, city FROM users.ndjson WHERE city != 'City5'")
		if err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkEvaluateFirstRows benchmarks lazy row production, stopping after
// the first ten rows of each pass
func BenchmarkEvaluateFirstRows(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	statement, err := engine.Prepare("SELECT name FROM users.ndjson")
	if err != nil {
		b.Fatalf("Prepare error: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rows, err := eng.Evaluate(statement)
		if err != nil {
			b.Fatalf("Evaluate error: %v", err)
		}
		count := 0
		for range rows {
			count++
			if count == 10 {
				break
			}
		}
	}
}

// BenchmarkReadTable benchmarks NDJSON decoding into a table
func BenchmarkReadTable(b *testing.B) {
	data := benchmarkData(1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := source.ReadTable(bytes.NewReader(data))
		if err != nil {
			b.Fatalf("ReadTable error: %v", err)
		}
	}
}

// BenchmarkDisplay benchmarks tabular rendering of a full result
func BenchmarkDisplay(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	result, err := eng.Execute("SELECT id, name, age, city FROM users.ndjson")
	if err != nil {
		b.Fatalf("Execute error: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result.Display(io.Discard)
	}
}

// BenchmarkWriteJSON benchmarks NDJSON rendering of a full result
func BenchmarkWriteJSON(b *testing.B) {
	eng := setupBenchmarkEngine(b)
	result, err := eng.Execute("SELECT id, name, age, city FROM users.ndjson")
	if err != nil {
		b.Fatalf("Execute error: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := result.WriteJSON(io.Discard); err != nil {
			b.Fatalf("WriteJSON error: %v", err)
		}
	}
}
