// Package sql provides lexing and parsing for Mee's selection grammar.
//
// The package includes a lexer that tokenizes statement text and a parser
// that produces the statement AST consumed by the query engine. The grammar
// covers a single SELECT form with an optional one-field comparison.
//
//	SELECT <column> [, <column> ...] FROM <source> [WHERE <field> (=|!=) <literal>]
//
// Sources are file paths. Bare paths made of letters, digits, '_', '.' and
// '/' lex as identifiers; anything else (spaces, dashes, URL schemes) must be
// written as a single-quoted string:
//
//	SELECT a, b FROM people.ndjson WHERE a = 'x'
//	SELECT a FROM 's3://bucket/data/people.ndjson'
//
// Literals are single-quoted strings, integers, floats, true, false and
// null. Keywords are case-insensitive.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT a FROM people.ndjson")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Printf("Token: %s\n", token)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT a, b FROM people.ndjson WHERE b != 2")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// SelectStatement is the only statement type; every other input is a parse
// error. The shell discards the parse error detail and reports a generic
// invalid-input message, so error strings here are aimed at tests and
// embedders rather than end users.
package sql
