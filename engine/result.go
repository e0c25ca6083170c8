package engine

import (
	"encoding/json"
	"fmt"
	"io"
)

// QueryResult is one fully materialized query response.
type QueryResult struct {
	Columns          []string
	Rows             []Row
	RecordsRead      int
	RecordsScanned   int
	ExecutionTimeSec float64
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

// ExecutionTime returns the elapsed time in human-readable form.
func (result *QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

// Display renders the result table to w, followed by a compact stats
// line. A zero-row result prints the stats line alone.
func (result *QueryResult) Display(w io.Writer) {
	if len(result.Rows) > 0 {
		table := NewTable(w)
		table.Header(result.Columns)
		table.AlignRight(result.numericColumns())
		for _, row := range result.Rows {
			cells := make([]string, len(result.Columns))
			for i, column := range result.Columns {
				value, ok := row.Value(column)
				if !ok {
					continue // absent fields render blank
				}
				cells[i] = formatValue(value)
			}
			table.Row(cells)
		}
		table.Render()
	}

	var throughput string
	if result.ExecutionTimeSec > 0 && result.RecordsScanned > 0 {
		rate := float64(result.RecordsScanned) / result.ExecutionTimeSec
		if rate >= 1000000 {
			throughput = fmt.Sprintf(", %.1fM records/s", rate/1000000)
		} else if rate >= 1000 {
			throughput = fmt.Sprintf(", %.1fK records/s", rate/1000)
		} else {
			throughput = fmt.Sprintf(", %.0f records/s", rate)
		}
	}

	fmt.Fprintf(w, "%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(), throughput)
}

// numericColumns reports, per column, whether every populated cell holds a
// number. Numeric columns are right-aligned in the rendered table.
func (result *QueryResult) numericColumns() []bool {
	numeric := make([]bool, len(result.Columns))
	for i, column := range result.Columns {
		seen := false
		allNumbers := true
		for _, row := range result.Rows {
			value, ok := row.Value(column)
			if !ok {
				continue
			}
			seen = true
			if _, isNumber := value.(float64); !isNumber {
				allNumbers = false
				break
			}
		}
		numeric[i] = seen && allNumbers
	}
	return numeric
}

// WriteJSON writes the rows to w as one JSON object per line, mirroring
// the source format.
func (result *QueryResult) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	for _, row := range result.Rows {
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
