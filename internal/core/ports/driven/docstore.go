package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore persists a single session's documents and chunks.
// Instances are session-scoped and torn down with their session.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrDocumentNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a specific chunk by ID.
	// Returns domain.ErrChunkNotFound when absent.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	// Deleting an unknown document is a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns the session's documents ordered by upload time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
