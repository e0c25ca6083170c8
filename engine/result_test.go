package engine

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestQueryResultDisplay(t *testing.T) {
	row1 := newRow()
	row1.add("name", "jane")
	row1.add("age", float64(33))
	row2 := newRow()
	row2.add("name", "bo")

	result := &QueryResult{
		Columns:          []string{"name", "age"},
		Rows:             []Row{row1, row2},
		RecordsRead:      2,
		RecordsScanned:   2,
		ExecutionTimeSec: 0.0001,
	}

	var buf bytes.Buffer
	result.Display(&buf)

	expected := `+------+-----+
| name | age |
+------+-----+
| jane |  33 |
| bo   |     |
+------+-----+
2 rows (<1ms, 20.0K records/s)
`
	if buf.String() != expected {
		t.Errorf("Test Failed: expected\n%s\ngot\n%s", expected, buf.String())
	}
}

func TestQueryResultDisplayEmpty(t *testing.T) {
	result := &QueryResult{ExecutionTimeSec: 0.0001}

	var buf bytes.Buffer
	result.Display(&buf)

	// No table for a zero-row result, just the stats line.
	if buf.String() != "0 rows (<1ms)\n" {
		t.Errorf("Test Failed: expected a bare stats line, got %q", buf.String())
	}
}

func TestQueryResultWriteJSON(t *testing.T) {
	row1 := newRow()
	row1.add("name", "jane")
	row1.add("age", float64(33))
	row2 := newRow()
	row2.add("name", "bo")

	result := &QueryResult{Rows: []Row{row1, row2}}

	var buf bytes.Buffer
	if err := result.WriteJSON(&buf); err != nil {
		t.Fatalf("Test Failed: unexpected error %v", err)
	}

	expected := `{"name":"jane","age":33}` + "\n" + `{"name":"bo"}` + "\n"
	if buf.String() != expected {
		t.Errorf("Test Failed: expected %q, got %q", expected, buf.String())
	}
}

func TestRowMarshalJSON(t *testing.T) {
	row := newRow()
	row.add("b", float64(1))
	row.add("a", "x")
	row.add("c", nil)

	raw, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Test Failed: unexpected error %v", err)
	}

	// Fields marshal in projection order, not sorted.
	expected := `{"b":1,"a":"x","c":null}`
	if string(raw) != expected {
		t.Errorf("Test Failed: expected %s, got %s", expected, raw)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0.0005, "<1ms"},
		{0.005, "5ms"},
		{0.05, "50ms"},
		{0.5, "500ms"},
		{1.5, "1.5s"},
		{30, "30s"},
		{90, "1m30s"},
		{120, "2m"},
	}

	for _, test := range tests {
		if got := formatDuration(test.secs); got != test.want {
			t.Errorf("Test Failed: formatDuration(%v) = %q, expected %q", test.secs, got, test.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "NULL"},
		{"graz", "graz"},
		{true, "true"},
		{float64(1), "1"},
		{float64(4.25), "4.25"},
		{float64(-3), "-3"},
		{map[string]any{"k": float64(1)}, `{"k":1}`},
		{[]any{float64(1), "a"}, `[1,"a"]`},
	}

	for _, test := range tests {
		if got := formatValue(test.value); got != test.want {
			t.Errorf("Test Failed: formatValue(%v) = %q, expected %q", test.value, got, test.want)
		}
	}
}
