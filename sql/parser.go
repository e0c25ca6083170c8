package sql

import (
	"errors"
	"strconv"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
)

type Statement interface {
	Type() StatementType
}

// SelectStatement is the parsed form of a selection query. Table holds the
// source path exactly as written, Columns the projected field names in
// request order, and Where the optional single comparison.
type SelectStatement struct {
	Table   string
	Columns []string
	Where   *WhereCondition
}

// WhereCondition is a single field comparison. Value carries the literal
// operand already typed: string, float64, bool or nil.
type WhereCondition struct {
	Field    string
	Operator CompareOperator
	Value    any
}

// CompareOperator is the closed set of supported comparisons.
type CompareOperator int

const (
	EqualsOperator CompareOperator = iota
	NotEqualsOperator
)

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

type Parser struct {
	lexer *Lexer
}

func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	return &Parser{lexer: lexer}
}

func (parser *Parser) Parse() (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case Select:
		return ParseSelect(parser)
	default:
		return nil, errors.New("unknown statement type")
	}
}

func parse(input string) (Statement, error) {
	parser := NewParser(input)

	return parser.Parse()
}

func ParseSelect(parser *Parser) (Statement, error) {
	var selectStatement SelectStatement

	token := parser.lexer.NextToken()

	if token.Type != Identifier {
		return nil, errors.New("expected column name after SELECT")
	}

	selectStatement.Columns = append(selectStatement.Columns, token.Value)
	for {
		token = parser.lexer.NextToken()
		if token.Type == Comma {
			token = parser.lexer.NextToken()
			if token.Type != Identifier {
				return nil, errors.New("expected column name after comma")
			}
			selectStatement.Columns = append(selectStatement.Columns, token.Value)
		} else if token.Type == From {
			break
		} else {
			return nil, errors.New("expected FROM or comma")
		}
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier && token.Type != String {
		return nil, errors.New("expected source path after FROM")
	}
	selectStatement.Table = token.Value

	token = parser.lexer.NextToken()

	if token.Type == Where {
		condition, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Where = condition
		token = parser.lexer.NextToken()
	}

	if token.Type != EOF {
		return nil, errors.New("expected end of statement")
	}

	return selectStatement, nil
}

func ParseWhere(parser *Parser) (*WhereCondition, error) {
	var condition WhereCondition

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected field name in WHERE clause")
	}
	condition.Field = token.Value

	token = parser.lexer.NextToken()
	switch token.Type {
	case Equals:
		condition.Operator = EqualsOperator
	case NotEquals:
		condition.Operator = NotEqualsOperator
	default:
		return nil, errors.New("expected = or != in WHERE clause")
	}

	token = parser.lexer.NextToken()
	value, err := literalValue(token)
	if err != nil {
		return nil, err
	}
	condition.Value = value

	return &condition, nil
}

// literalValue converts a literal token into its typed value. Numbers become
// float64 to match JSON decoding, so 1 and 1.0 compare equal.
func literalValue(token Token) (any, error) {
	switch token.Type {
	case String:
		return token.Value, nil
	case Int, Float:
		value, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, errors.New("invalid numeric literal in WHERE clause")
		}
		return value, nil
	case True:
		return true, nil
	case False:
		return false, nil
	case Null:
		return nil, nil
	default:
		return nil, errors.New("expected literal value in WHERE clause")
	}
}
