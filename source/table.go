package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Lines can hold large embedded documents; the scanner buffer grows up to
// this limit.
const maxLineBytes = 16 * 1024 * 1024

var errMissingID = errors.New("record has no id field")

// Record is a single decoded line of a source file. Records in the same
// table do not need to share a field set.
type Record map[string]any

// Table holds the records of one source file keyed by id, in the order the
// ids first appeared.
type Table struct {
	ids     []any
	records map[any]Record
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{records: make(map[any]Record)}
}

// Len returns the number of records in the table.
func (table *Table) Len() int {
	return len(table.ids)
}

// Get returns the record stored under id.
func (table *Table) Get(id any) (Record, bool) {
	record, ok := table.records[id]
	return record, ok
}

// Insert stores a record under its id field. Inserting an id that is
// already present replaces the record but keeps its original position.
func (table *Table) Insert(record Record) error {
	id, ok := record["id"]
	if !ok {
		return errMissingID
	}
	switch id.(type) {
	case string, float64:
	default:
		return fmt.Errorf("id must be a string or a number, got %T", id)
	}
	if _, exists := table.records[id]; !exists {
		table.ids = append(table.ids, id)
	}
	table.records[id] = record
	return nil
}

// Records yields the records in insertion order. Each call starts a fresh
// pass over the table.
func (table *Table) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, id := range table.ids {
			if !yield(table.records[id]) {
				return
			}
		}
	}
}

// ReadTable decodes newline-delimited JSON from r into a fresh table. Blank
// lines are skipped. A line that fails to decode, or that decodes to a
// record without a usable id, aborts the read with the line number in the
// error.
func ReadTable(r io.Reader) (*Table, error) {
	table := NewTable()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := table.Insert(record); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return table, nil
}
