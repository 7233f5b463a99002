package domain

import "time"

// DocumentStatus tracks a document through ingestion.
type DocumentStatus string

// Document processing states.
const (
	// StatusPending indicates the document has been received but not indexed.
	StatusPending DocumentStatus = "pending"

	// StatusProcessed indicates the document is chunked, embedded and searchable.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed indicates ingestion failed; nothing was indexed for it.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Page is a single page of extracted document text.
// Pages with no extractable text are omitted by extractors.
type Page struct {
	// Number is the 1-based page number in the source document.
	Number int

	// Text is the extracted page text.
	Text string
}

// Document represents an uploaded document with metadata.
// A document is owned by exactly one session and is destroyed
// with it.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SessionID links to the owning session.
	SessionID string

	// Filename is the original upload filename.
	Filename string

	// PageCount is the total page count of the source file.
	PageCount int

	// ByteSize is the size of the uploaded file in bytes.
	ByteSize int64

	// Status is the processing state.
	Status DocumentStatus

	// Pages holds the extracted page texts. Only pages with
	// extractable text are present.
	Pages []Page

	// UploadedAt is when the document was received.
	UploadedAt time.Time
}

// Text returns the concatenated page texts in page order.
func (d *Document) Text() string {
	total := 0
	for _, p := range d.Pages {
		total += len(p.Text) + 1
	}

	buf := make([]byte, 0, total)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// Chunk represents the unit of embedding and retrieval.
// Chunks are immutable after creation and are destroyed with
// their owning document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Page is the 1-based source page number, 0 when unknown.
	Page int

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation once computed.
	Embedding []float32
}

// CollectionStats summarises a session's uploaded documents.
type CollectionStats struct {
	// Documents is the number of processed documents.
	Documents int

	// Pages is the total page count across documents.
	Pages int

	// Bytes is the total upload size across documents.
	Bytes int64

	// Chunks is the number of indexed chunks.
	Chunks int
}
