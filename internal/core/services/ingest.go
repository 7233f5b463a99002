package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/retry"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns uploaded files into indexed documents inside a
// session. Each file is processed independently and all-or-nothing: a
// failure at any stage leaves no trace of that file in the session.
type IngestService struct {
	registry  *Registry
	extractor driven.TextExtractor
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	retryCfg  retry.Config
}

// NewIngestService creates an ingestion service.
func NewIngestService(
	registry *Registry,
	extractor driven.TextExtractor,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		registry:  registry,
		extractor: extractor,
		pipeline:  pipeline,
		embedder:  embedder,
		retryCfg:  retry.DefaultConfig(),
	}
}

// Upload ingests a batch of files into the session, creating the
// session on first use. The returned slice is aligned with the input;
// per-file failures are reported in the matching result and do not
// affect the other files.
func (s *IngestService) Upload(
	ctx context.Context, sessionID string, files []driving.Upload,
) ([]driving.UploadResult, error) {
	state, err := s.registry.ensure(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.registry.release(state)

	logger.Section("Document Upload")
	logger.Debug("Session %s: %d file(s)", sessionID, len(files))

	results := make([]driving.UploadResult, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, chunkCount, err := s.ingestFile(ctx, state, sessionID, file)
		if err != nil {
			logger.Warn("File %q failed: %v", file.Filename, err)
			doc.Status = domain.StatusFailed
			results[i] = driving.UploadResult{Document: doc, Err: err}
			continue
		}

		logger.Info("Indexed %q: %d pages, %d chunks", doc.Filename, doc.PageCount, chunkCount)
		results[i] = driving.UploadResult{Document: doc, ChunkCount: chunkCount}
	}

	return results, nil
}

// ingestFile runs one file through the full pipeline: extract, chunk,
// embed, store, index. Storage happens last and is rolled back if
// indexing fails, so a document is either fully searchable or absent.
func (s *IngestService) ingestFile(
	ctx context.Context, state *sessionState, sessionID string, file driving.Upload,
) (domain.Document, int, error) {
	doc := domain.Document{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Filename:   file.Filename,
		ByteSize:   int64(len(file.Data)),
		Status:     domain.StatusPending,
		UploadedAt: time.Now(),
	}

	pages, pageCount, err := s.extractor.Extract(ctx, file.Data)
	if err != nil {
		return doc, 0, fmt.Errorf("extract text: %w", err)
	}
	doc.Pages = pages
	doc.PageCount = pageCount

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return doc, 0, fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return doc, 0, domain.ErrUnreadableDocument
	}
	logger.Debug("Document %s: %d chunks from %d pages", doc.ID, len(chunks), len(pages))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := retry.DoWithData(ctx, s.retryCfg, func() ([][]float32, error) {
		return s.embedder.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return doc, 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return doc, 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		entries[i] = driven.IndexEntry{
			ChunkID:    chunks[i].ID,
			DocumentID: doc.ID,
			Vector:     vectors[i],
		}
	}

	index, err := s.registry.ensureIndex(state, len(vectors[0]))
	if err != nil {
		return doc, 0, err
	}

	doc.Status = domain.StatusProcessed
	if err := state.docs.SaveDocument(ctx, &doc); err != nil {
		return doc, 0, fmt.Errorf("save document: %w", err)
	}
	if err := state.docs.SaveChunks(ctx, chunks); err != nil {
		_ = state.docs.DeleteDocument(ctx, doc.ID)
		return doc, 0, fmt.Errorf("save chunks: %w", err)
	}
	if err := index.Insert(ctx, entries); err != nil {
		_ = state.docs.DeleteDocument(ctx, doc.ID)
		return doc, 0, fmt.Errorf("index chunks: %w", err)
	}

	return doc, len(chunks), nil
}

// List returns the session's documents ordered by upload time.
func (s *IngestService) List(ctx context.Context, sessionID string) ([]domain.Document, error) {
	state, err := s.registry.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.registry.release(state)

	docs, err := state.docs.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Stats summarises the session's document collection.
func (s *IngestService) Stats(ctx context.Context, sessionID string) (*domain.CollectionStats, error) {
	state, err := s.registry.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.registry.release(state)

	docs, err := state.docs.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	stats := &domain.CollectionStats{}
	for _, doc := range docs {
		stats.Documents++
		stats.Pages += doc.PageCount
		stats.Bytes += doc.ByteSize
	}
	if index := s.registry.indexOf(state); index != nil {
		stats.Chunks = index.Size()
	}
	return stats, nil
}

// Delete removes one document and its index entries.
func (s *IngestService) Delete(ctx context.Context, sessionID, documentID string) error {
	state, err := s.registry.acquire(sessionID)
	if err != nil {
		return err
	}
	defer s.registry.release(state)

	if _, err := state.docs.GetDocument(ctx, documentID); err != nil {
		return err
	}

	// Remove from the index first so a concurrent question cannot
	// retrieve chunks whose document is already gone from the store.
	if index := s.registry.indexOf(state); index != nil {
		if err := index.Remove(ctx, documentID); err != nil {
			return fmt.Errorf("remove index entries: %w", err)
		}
	}
	if err := state.docs.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Debug("Session %s: deleted document %s", sessionID, documentID)
	return nil
}

// Reset removes all of the session's documents and index entries.
// Resetting an unknown session is a no-op.
func (s *IngestService) Reset(ctx context.Context, sessionID string) error {
	state, err := s.registry.acquire(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	defer s.registry.release(state)

	docs, err := state.docs.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	index := s.registry.indexOf(state)
	for _, doc := range docs {
		if index != nil {
			if err := index.Remove(ctx, doc.ID); err != nil {
				return fmt.Errorf("remove index entries: %w", err)
			}
		}
		if err := state.docs.DeleteDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}

	logger.Debug("Session %s: reset, %d document(s) removed", sessionID, len(docs))
	return nil
}
