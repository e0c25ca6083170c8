package engine

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/amonsch/mee-cli/source"
	"github.com/amonsch/mee-cli/sql"
)

// ErrInvalidInput is returned for any statement that does not parse. The
// parser's own message never crosses this boundary: the shell treats every
// malformed statement the same way.
var ErrInvalidInput = errors.New("invalid input")

// Engine evaluates select statements against a source store.
type Engine struct {
	store *source.Store
}

// NewEngine returns an engine reading from store.
func NewEngine(store *source.Store) *Engine {
	return &Engine{store: store}
}

// Store returns the store the engine reads from.
func (engine *Engine) Store() *source.Store {
	return engine.store
}

// Prepare strips surrounding whitespace and at most one trailing semicolon
// from a raw statement, then parses what remains. Input that is empty
// after stripping returns a nil statement with no error.
func Prepare(input string) (sql.Statement, error) {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimSuffix(trimmed, ";")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return nil, nil
	}

	statement, err := sql.NewParser(trimmed).Parse()
	if err != nil {
		return nil, ErrInvalidInput
	}
	return statement, nil
}

// Execute runs one raw statement end to end and materializes the result.
// Empty input yields a nil result and no error.
func (engine *Engine) Execute(input string) (*QueryResult, error) {
	startTime := time.Now()

	statement, err := Prepare(input)
	if err != nil {
		return nil, err
	}
	if statement == nil {
		return nil, nil
	}

	selectStatement, ok := statement.(sql.SelectStatement)
	if !ok {
		return nil, fmt.Errorf("unsupported statement type: %T", statement)
	}

	table, rows, err := engine.scanStatement(selectStatement)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{}
	for row := range rows {
		result.Rows = append(result.Rows, row)
	}

	result.Columns = resultColumns(selectStatement.Columns, result.Rows)
	result.RecordsRead = len(result.Rows)
	result.RecordsScanned = table.Len()
	result.ExecutionTimeSec = time.Since(startTime).Seconds()

	return result, nil
}

// Evaluate runs a parsed statement and returns its rows as a lazy
// sequence. The source file is read up front; rows are produced only as
// the consumer pulls them, and abandoning the sequence stops all further
// work. Statements other than select violate the engine contract.
func (engine *Engine) Evaluate(statement sql.Statement) (iter.Seq[Row], error) {
	selectStatement, ok := statement.(sql.SelectStatement)
	if !ok {
		return nil, fmt.Errorf("unsupported statement type: %T", statement)
	}

	_, rows, err := engine.scanStatement(selectStatement)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// scanStatement loads the statement's source and returns the loaded table
// together with the row sequence over it.
func (engine *Engine) scanStatement(statement sql.SelectStatement) (*source.Table, iter.Seq[Row], error) {
	table, err := engine.store.Load(statement.Table)
	if err != nil {
		return nil, nil, err
	}

	var match func(value any) bool
	if statement.Where != nil {
		match, err = compilePredicate(statement.Where)
		if err != nil {
			return nil, nil, err
		}
	}

	rows := func(yield func(Row) bool) {
		for record := range table.Records() {
			row, ok := projectRecord(record, statement, match)
			if !ok {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}

	return table, rows, nil
}

// projectRecord builds the output row for one record. It walks the
// requested columns in order, skips fields the record does not have, and
// applies the WHERE condition when the walk reaches the condition's own
// column. A failed condition abandons the record; a record contributing
// no fields produces no row.
func projectRecord(record source.Record, statement sql.SelectStatement, match func(value any) bool) (Row, bool) {
	row := newRow()
	for _, column := range statement.Columns {
		value, present := record[column]
		if !present {
			continue
		}
		if statement.Where != nil && column == statement.Where.Field && !match(value) {
			return Row{}, false
		}
		row.add(column, value)
	}
	if row.Len() == 0 {
		return Row{}, false
	}
	return row, true
}

// resultColumns filters the requested columns down to those populated in
// at least one row, keeping the request order. Rows of different shapes
// share one header this way.
func resultColumns(requested []string, rows []Row) []string {
	populated := make(map[string]bool)
	for _, row := range rows {
		for _, field := range row.Fields() {
			populated[field] = true
		}
	}

	columns := []string{}
	for _, column := range requested {
		if populated[column] {
			columns = append(columns, column)
		}
	}
	return columns
}
