package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, 0, idx.Size())
}

func TestNew_InvalidDimensions(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_Insert_Search_SelfSimilarity(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	ctx := context.Background()

	vec := []float32{0.1, 0.7, 0.2}
	err = idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "c-1", DocumentID: "d-1", Vector: vec},
	})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, vec, 4)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// A vector is maximally similar to itself.
	assert.Equal(t, "c-1", hits[0].ChunkID)
	assert.Equal(t, "d-1", hits[0].DocumentID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_Search_Ranking(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	err = idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "orthogonal", DocumentID: "d-1", Vector: []float32{0, 1}},
		{ChunkID: "close", DocumentID: "d-1", Vector: []float32{0.9, 0.1}},
		{ChunkID: "exact", DocumentID: "d-1", Vector: []float32{1, 0}},
	})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact", hits[0].ChunkID)
	assert.Equal(t, "close", hits[1].ChunkID)
	assert.Equal(t, "orthogonal", hits[2].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	assert.Greater(t, hits[1].Similarity, hits[2].Similarity)
}

func TestIndex_Search_TieBreakInsertionOrder(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	// Identical vectors give identical similarity; the earlier insert wins.
	same := []float32{0.5, 0.5}
	err = idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "first", DocumentID: "d-1", Vector: same},
		{ChunkID: "second", DocumentID: "d-1", Vector: same},
	})
	require.NoError(t, err)

	hits, err := idx.Search(ctx, same, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].ChunkID)
	assert.Equal(t, "second", hits[1].ChunkID)
}

func TestIndex_Search_LimitsToK(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	entries := make([]driven.IndexEntry, 10)
	for i := range entries {
		entries[i] = driven.IndexEntry{
			ChunkID:    string(rune('a' + i)),
			DocumentID: "d-1",
			Vector:     []float32{float32(i), 1},
		}
	}
	require.NoError(t, idx.Insert(ctx, entries))

	hits, err := idx.Search(ctx, []float32{1, 1}, 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = idx.Search(ctx, []float32{1, 1}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Insert_DimensionMismatch_Atomic(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	ctx := context.Background()

	// One bad vector rejects the whole batch.
	err = idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "good", DocumentID: "d-1", Vector: []float32{1, 2, 3}},
		{ChunkID: "bad", DocumentID: "d-1", Vector: []float32{1, 2}},
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Size())
}

func TestIndex_Search_DimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 2}, 4)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_Remove(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	err = idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "c-1", DocumentID: "doc-a", Vector: []float32{1, 0}},
		{ChunkID: "c-2", DocumentID: "doc-a", Vector: []float32{0, 1}},
		{ChunkID: "c-3", DocumentID: "doc-b", Vector: []float32{1, 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, idx.Size())

	err = idx.Remove(ctx, "doc-a")
	require.NoError(t, err)

	// Size drops by exactly the removed chunk count.
	assert.Equal(t, 1, idx.Size())

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "doc-a", h.DocumentID)
	}
}

func TestIndex_Remove_UnknownDocument(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)

	err = idx.Remove(context.Background(), "missing")
	assert.NoError(t, err)
}

func TestIndex_InsertCopiesVectors(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, idx.Insert(ctx, []driven.IndexEntry{
		{ChunkID: "c-1", DocumentID: "d-1", Vector: vec},
	}))

	// Mutating the caller's slice must not affect the index.
	vec[0] = 0
	vec[1] = 1

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}

func TestIndex_ConcurrentInsertAndSearch(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = idx.Insert(ctx, []driven.IndexEntry{
				{ChunkID: string(rune('a' + n)), DocumentID: "d-1", Vector: []float32{float32(n), 1}},
			})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = idx.Search(ctx, []float32{1, 1}, 4)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, idx.Size())
}

func TestIndex_Close(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Insert(context.Background(), []driven.IndexEntry{
		{ChunkID: "c-1", DocumentID: "d-1", Vector: []float32{1, 0}},
	}))

	require.NoError(t, idx.Close())
	assert.Equal(t, 0, idx.Size())
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
