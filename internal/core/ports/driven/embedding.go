package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches
// vectors. EmbeddingService generates vectors; VectorIndex stores them.
// The provider and model identity must stay consistent between
// ingestion and query time for a given index; the core validates
// dimensionality on first use and rejects later mismatches.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//
// Failures are reported as *domain.ProviderError so callers can
// distinguish retriable (rate limiting, transient server errors)
// from fatal (authentication, invalid input) conditions.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result is aligned with the input: result[i] embeds texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This is fixed by the model and must match the index it feeds.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before accepting uploads.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
