package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// TextExtractor extracts page text from an uploaded document.
//
// Implementations wrap an external extraction capability (a PDF
// library or tool); the core never parses file formats itself.
type TextExtractor interface {
	// Extract returns the pages with extractable text, in page order.
	// Pages without extractable text are omitted. Returns the total
	// page count of the source file alongside the extracted pages.
	//
	// Fails with domain.ErrUnreadableDocument when the bytes cannot
	// be parsed or no page yields any text.
	Extract(ctx context.Context, data []byte) (pages []domain.Page, pageCount int, err error)
}
