package engine

import (
	"fmt"
	"reflect"

	"github.com/amonsch/mee-cli/sql"
)

// compilePredicate turns a WHERE condition into a test over record values.
// Comparison is typed: both sides come from JSON, so numbers are float64
// on either side and "1" never equals 1. Nested values compare
// structurally.
func compilePredicate(condition *sql.WhereCondition) (func(value any) bool, error) {
	switch condition.Operator {
	case sql.EqualsOperator:
		return func(value any) bool {
			return reflect.DeepEqual(value, condition.Value)
		}, nil
	case sql.NotEqualsOperator:
		return func(value any) bool {
			return !reflect.DeepEqual(value, condition.Value)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported comparison operator: %v", condition.Operator)
	}
}
