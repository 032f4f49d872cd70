package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// One EmbeddingService builds an index and embeds every question asked of it.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size, or 0 when the
	// provider only learns it from its first response.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable and properly configured.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
