// Package mee provides an interactive query engine for newline-delimited
// JSON files.
//
// mee evaluates SQL-like selection statements against flat NDJSON files,
// local or remote. The files are the database: there is no server state,
// no schema and no index. Every query rereads its source file in full and
// projects the requested fields, so results always reflect the file as it
// is right now.
//
// # Quick Start
//
// Query a directory of .ndjson files:
//
//	db := mee.OpenDir("./data")
//	engine := db.Engine()
//
//	result, _ := engine.Execute("SELECT name, city FROM people.ndjson WHERE city = 'graz'")
//	result.Display(os.Stdout)
//
// # Supported SQL
//
// mee supports a small selection language:
//   - SELECT with an explicit column list (no wildcard)
//   - FROM naming a file path, or a quoted URL for file://, http://,
//     https://, s3:// and git+ sources
//   - WHERE with a single = or != comparison against a typed literal
//     (string, number, TRUE, FALSE, NULL)
//
// Statements end with an optional semicolon. Anything that does not parse
// is rejected as invalid input, with no partial evaluation.
package mee
