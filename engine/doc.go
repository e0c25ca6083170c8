// Package engine evaluates select statements against newline-delimited
// JSON sources.
//
// Every statement reloads its source file in full, so a query always sees
// the current state of the file and two queries never share state. The
// engine holds no caches and no cursors.
//
// # Evaluation
//
// A record produces at most one row. The requested columns are walked in
// request order: fields the record does not have are skipped silently, and
// when the walk reaches the column a WHERE condition names, the condition
// decides whether the record survives. A failing condition abandons the
// record, including fields already collected. A condition naming a column
// outside the projection is never consulted, and a record that ends up
// with no populated fields produces no row.
//
// Rows come out lazily through an iterator; Execute materializes them and
// wraps them in a QueryResult together with scan statistics.
package engine
