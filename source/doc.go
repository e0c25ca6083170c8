// Package source loads newline-delimited JSON tables from local and remote
// locations.
//
// A source file holds one JSON object per line, and every object carries an
// "id" field whose value is a string or a number. Files are read in full on
// every load; there is no cache and no index, so a query always sees the
// file as it is on disk. Records keep the order in which their ids first
// appear, and a later duplicate id replaces the earlier record in place.
//
// # Locations
//
// The Store resolves a path by its scheme:
//
//	people.ndjson                               relative to the store filesystem
//	file:///var/data/people.ndjson              absolute local path
//	https://example.com/people.ndjson           HTTP or HTTPS GET
//	s3://bucket/people.ndjson                   S3 object
//	git+https://host/data.git#main:people.ndjson  file in a git tree
//
// A source that does not exist is not an error: Load returns an empty
// table, so a query against it produces zero rows.
package source
