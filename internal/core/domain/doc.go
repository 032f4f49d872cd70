// Package domain defines the core business entities for the campus assistant.
//
// Types:
//
//   - RawDocument: Fetched bytes for one source location
//   - Document: The plain text of one page
//   - Chunk: A retrievable window of a document's text
//   - SearchHit: One ranked nearest-neighbour result
//   - Answer: Formatted bullets plus the sources they came from
//
// It also carries the IndexState machine, the error taxonomy shared by every
// adapter, and AppSettings with their defaults. Only the standard library is
// imported here.
package domain
