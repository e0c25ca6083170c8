package sql

import (
	"reflect"
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			"keywords and identifiers",
			"SELECT a, b FROM people.ndjson",
			[]Token{
				{Type: Select, Value: "SELECT"},
				{Type: Identifier, Value: "a"},
				{Type: Comma, Value: ","},
				{Type: Identifier, Value: "b"},
				{Type: From, Value: "FROM"},
				{Type: Identifier, Value: "people.ndjson"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"lowercase keywords",
			"select a from t where b != 2",
			[]Token{
				{Type: Select, Value: "select"},
				{Type: Identifier, Value: "a"},
				{Type: From, Value: "from"},
				{Type: Identifier, Value: "t"},
				{Type: Where, Value: "where"},
				{Type: Identifier, Value: "b"},
				{Type: NotEquals, Value: "!="},
				{Type: Int, Value: "2"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"string literal",
			"'hello world'",
			[]Token{
				{Type: String, Value: "hello world"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"numeric literals",
			"1 2.5 -3 -4.25",
			[]Token{
				{Type: Int, Value: "1"},
				{Type: Float, Value: "2.5"},
				{Type: Int, Value: "-3"},
				{Type: Float, Value: "-4.25"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"bool and null literals",
			"true FALSE null",
			[]Token{
				{Type: True, Value: "true"},
				{Type: False, Value: "FALSE"},
				{Type: Null, Value: "null"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"operators",
			"= != <>",
			[]Token{
				{Type: Equals, Value: "="},
				{Type: NotEquals, Value: "!="},
				{Type: NotEquals, Value: "<>"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"path identifier with slash",
			"data/2024/events.ndjson",
			[]Token{
				{Type: Identifier, Value: "data/2024/events.ndjson"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"unknown characters",
			"a ; b",
			[]Token{
				{Type: Identifier, Value: "a"},
				{Type: Unknown, Value: ";"},
				{Type: Identifier, Value: "b"},
				{Type: EOF, Value: ""},
			},
		},
		{
			"unsupported comparison",
			"a >= 1",
			[]Token{
				{Type: Identifier, Value: "a"},
				{Type: Unknown, Value: ">="},
				{Type: Int, Value: "1"},
				{Type: EOF, Value: ""},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := tokenize(test.input)

			if !reflect.DeepEqual(actual, test.expected) {
				t.Errorf("Test Failed: Expected %v, got %v", test.expected, actual)
			}
		})
	}
}

func TestLexerPeekToken(t *testing.T) {
	lexer := NewLexer("SELECT a FROM t")

	peeked := lexer.PeekToken()
	if peeked.Type != Select {
		t.Fatalf("Expected peeked Select, got %s", peeked)
	}

	// Peek must not consume the token
	next := lexer.NextToken()
	if next.Type != Select {
		t.Fatalf("Expected Select after peek, got %s", next)
	}

	if token := lexer.NextToken(); token.Type != Identifier || token.Value != "a" {
		t.Fatalf("Expected Identifier(a), got %s", token)
	}
}
