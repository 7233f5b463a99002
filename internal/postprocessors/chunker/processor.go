// Package chunker provides a page-aware fixed-size text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// Processor splits extracted document pages into fixed-size chunks
// with overlap, so context spanning a split point is preserved in at
// least one chunk. It implements the PostProcessor interface.
//
// Chunk boundaries are deterministic: identical input always yields
// identical boundaries and count.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// pageSpan records where a page's text begins in the concatenated
// rune stream, so chunks can be attributed back to their page.
type pageSpan struct {
	number int
	start  int
}

// Process splits the document's extracted pages into chunks.
// Input chunks are ignored; this processor creates new chunks.
// A chunk is attributed to the page its window starts on.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil || len(doc.Pages) == 0 {
		// Empty content produces no chunks
		return nil, nil
	}

	runes, spans := flattenPages(doc.Pages)
	if len(runes) == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	if step <= 0 {
		step = p.chunkSize
	}

	estimated := (len(runes) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	for start := 0; start < len(runes); start += step {
		end := start + p.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Page:       pageAt(spans, start),
				Position:   len(chunks),
				Content:    content,
			})
		}

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

// flattenPages joins page texts with newlines into a single rune
// stream and records each page's start offset.
func flattenPages(pages []domain.Page) ([]rune, []pageSpan) {
	var runes []rune
	spans := make([]pageSpan, 0, len(pages))

	for i, page := range pages {
		if i > 0 {
			runes = append(runes, '\n')
		}
		spans = append(spans, pageSpan{number: page.Number, start: len(runes)})
		runes = append(runes, []rune(page.Text)...)
	}

	return runes, spans
}

// pageAt returns the page number whose span contains the given offset.
func pageAt(spans []pageSpan, offset int) int {
	page := 0
	for _, span := range spans {
		if span.start > offset {
			break
		}
		page = span.number
	}
	return page
}
