package postprocessors

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// DefaultPipeline builds the standard ingestion pipeline from chunking
// settings: a single page-aware chunker.
func DefaultPipeline(cfg domain.ChunkingSettings) driven.PostProcessorPipeline {
	cfg = cfg.Normalised()
	return NewPipeline(chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.Overlap),
	))
}
