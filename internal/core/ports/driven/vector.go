package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
//
// Instances are session-scoped: one index per session, created by the
// session registry, so entries from different sessions can never meet.
// The reference implementation is an exact linear scan; an approximate
// index may be substituted if it preserves the ranked-top-K contract.
type VectorIndex interface {
	// Insert adds a batch of entries. The batch is applied atomically:
	// a concurrent Search sees either all entries or none of them.
	// All vectors must match the index dimensionality
	// (domain.ErrDimensionMismatch otherwise, with nothing applied).
	Insert(ctx context.Context, entries []IndexEntry) error

	// Remove deletes every entry belonging to the given document.
	// Atomic with respect to concurrent Search. Removing entries for
	// an unknown document is a no-op.
	Remove(ctx context.Context, documentID string) error

	// Search finds the k most similar entries to the query vector,
	// ranked by descending cosine similarity. Ties are broken by
	// insertion order (earlier entry wins) for determinism.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of entries in the index.
	Size() int

	// Dimensions returns the vector size the index was built with.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// IndexEntry is a (chunk reference, embedding) pair held in a VectorIndex.
type IndexEntry struct {
	// ChunkID is the indexed chunk.
	ChunkID string

	// DocumentID is the chunk's owning document, used for removal.
	DocumentID string

	// Vector is the chunk's embedding.
	Vector []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
