// Package memory provides an exact, in-memory vector index.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact linear-scan cosine similarity index.
//
// All mutations take the write lock and apply completely before it is
// released, so a concurrent Search observes either the pre- or
// post-mutation state, never a half-applied one. This is the reference
// ranked-top-K behaviour; an approximate structure may replace it only
// if it preserves the same contract.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	entries    []entry
}

// entry is one stored (chunk, vector) pair. Slice order is insertion
// order, which is the documented tie-break for equal similarities.
type entry struct {
	chunkID    string
	documentID string
	vector     []float32
}

// New creates an empty index for vectors of the given dimensionality.
func New(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d",
			domain.ErrInvalidInput, dimensions)
	}
	return &Index{dimensions: dimensions}, nil
}

// Insert adds a batch of entries atomically. The whole batch is
// validated before anything is appended; a dimension mismatch rejects
// the batch with nothing applied.
func (idx *Index) Insert(_ context.Context, entries []driven.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	for _, e := range entries {
		if len(e.Vector) != idx.dimensions {
			return fmt.Errorf("%w: index built for %d dimensions, got %d for chunk %s",
				domain.ErrDimensionMismatch, idx.dimensions, len(e.Vector), e.ChunkID)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range entries {
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		idx.entries = append(idx.entries, entry{
			chunkID:    e.ChunkID,
			documentID: e.DocumentID,
			vector:     vec,
		})
	}

	return nil
}

// Remove deletes every entry belonging to the given document.
func (idx *Index) Remove(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	for _, e := range idx.entries {
		if e.documentID != documentID {
			kept = append(kept, e)
		}
	}
	idx.entries = kept

	return nil
}

// Search returns up to k entries ranked by descending cosine
// similarity, ties broken by insertion order.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: index built for %d dimensions, query has %d",
			domain.ErrDimensionMismatch, idx.dimensions, len(query))
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, driven.VectorHit{
			ChunkID:    e.chunkID,
			DocumentID: e.documentID,
			Similarity: cosineSimilarity(query, e.vector),
		})
	}

	// SliceStable keeps insertion order for equal similarities.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of entries in the index.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the vector size the index was built with.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	return nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors of equal length. A zero vector yields similarity 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
