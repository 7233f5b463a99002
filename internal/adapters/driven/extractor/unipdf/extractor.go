// Package unipdf extracts per-page text from PDF documents using unipdf.
package unipdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdfextractor "github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads PDF bytes and returns the text of each page that
// carries any. Pages whose extracted text is empty after trimming are
// skipped, so the returned slice may be shorter than the page count.
type Extractor struct{}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the PDF and returns its non-empty pages in order,
// plus the document's total page count. Malformed or encrypted input
// fails with domain.ErrUnreadableDocument.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]domain.Page, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty file", domain.ErrUnreadableDocument)
	}

	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	if encrypted, err := reader.IsEncrypted(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	} else if encrypted {
		// Try the empty user password; many "encrypted" PDFs only
		// restrict printing and open without one.
		ok, err := reader.Decrypt([]byte(""))
		if err != nil || !ok {
			return nil, 0, fmt.Errorf("%w: document is password protected", domain.ErrUnreadableDocument)
		}
	}

	pageCount, err := reader.GetNumPages()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	pages := make([]domain.Page, 0, pageCount)
	for n := 1; n <= pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		page, err := reader.GetPage(n)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableDocument, n, err)
		}

		ex, err := pdfextractor.New(page)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableDocument, n, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableDocument, n, err)
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: n, Text: text})
	}

	return pages, pageCount, nil
}
