package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Upload is a single file submitted for ingestion.
type Upload struct {
	// Filename is the original upload filename.
	Filename string

	// Data is the raw file content.
	Data []byte
}

// UploadResult reports the outcome of ingesting one file.
// Failures are scoped to the single file; other files in the same
// batch are unaffected.
type UploadResult struct {
	// Document is the ingested document. On failure its Status is
	// StatusFailed and nothing was stored or indexed for it.
	Document domain.Document

	// ChunkCount is the number of chunks indexed for the document.
	ChunkCount int

	// Err is the ingestion failure for this file, nil on success.
	Err error
}

// IngestService processes uploads into a session's index.
type IngestService interface {
	// Upload ingests a batch of files into the session, creating the
	// session if it does not exist yet. Each file is processed
	// independently and all-or-nothing: a file either becomes a fully
	// indexed document or leaves no trace. The returned slice is
	// aligned with the input files.
	Upload(ctx context.Context, sessionID string, files []Upload) ([]UploadResult, error)

	// List returns the session's documents ordered by upload time.
	List(ctx context.Context, sessionID string) ([]domain.Document, error)

	// Stats summarises the session's document collection.
	Stats(ctx context.Context, sessionID string) (*domain.CollectionStats, error)

	// Delete removes one document and its index entries.
	// Returns domain.ErrDocumentNotFound for an unknown document ID.
	Delete(ctx context.Context, sessionID, documentID string) error

	// Reset removes all of the session's documents and index entries.
	// Resetting an unknown session is a no-op.
	Reset(ctx context.Context, sessionID string) error
}
