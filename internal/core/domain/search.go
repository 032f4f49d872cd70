package domain

// SearchHit is one entry of a retrieval result.
type SearchHit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Rank is the 1-based position in ascending distance order.
	Rank int

	// Distance is the Euclidean distance between the query and the chunk vector.
	Distance float64
}
