package domain

import "time"

// IndexState is a step of the index lifecycle.
type IndexState int

// Lifecycle states in the order they can be visited.
const (
	IndexStateChecking IndexState = iota
	IndexStateLoading
	IndexStateAcquiring
	IndexStateNormalizing
	IndexStateEmbedding
	IndexStateBuilding
	IndexStatePersisting
	IndexStateReady
	IndexStateFailed
)

var indexStateNames = map[IndexState]string{
	IndexStateChecking:    "checking",
	IndexStateLoading:     "loading",
	IndexStateAcquiring:   "acquiring",
	IndexStateNormalizing: "normalizing",
	IndexStateEmbedding:   "embedding",
	IndexStateBuilding:    "building",
	IndexStatePersisting:  "persisting",
	IndexStateReady:       "ready",
	IndexStateFailed:      "failed",
}

// String returns the lower-case state name.
func (s IndexState) String() string {
	if name, ok := indexStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether the lifecycle has finished.
func (s IndexState) IsTerminal() bool {
	return s == IndexStateReady || s == IndexStateFailed
}

// IndexSchemaVersion is the storage layout version written by this build.
const IndexSchemaVersion = 1

// IndexMetadata describes a persisted index.
type IndexMetadata struct {
	// SchemaVersion is the storage layout version.
	SchemaVersion int

	// Dimension is the length of every stored vector.
	Dimension int

	// Model is the embedding model that produced the vectors.
	Model string

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// CreatedAt is when the index was built.
	CreatedAt time.Time
}
