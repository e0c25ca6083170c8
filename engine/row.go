package engine

import (
	"bytes"
	"encoding/json"
)

// Row is one result row. Fields keep the order of the requested columns,
// which a plain map would not.
type Row struct {
	fields []string
	values map[string]any
}

func newRow() Row {
	return Row{values: make(map[string]any)}
}

func (row *Row) add(field string, value any) {
	if _, exists := row.values[field]; !exists {
		row.fields = append(row.fields, field)
	}
	row.values[field] = value
}

// Len returns the number of populated fields.
func (row Row) Len() int {
	return len(row.fields)
}

// Fields returns the populated field names in projection order.
func (row Row) Fields() []string {
	return row.fields
}

// Value returns the value stored under field.
func (row Row) Value(field string) (any, bool) {
	value, ok := row.values[field]
	return value, ok
}

// MarshalJSON writes the row as an object with its fields in projection
// order.
func (row Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range row.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(row.values[field])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
