package domain

// RetrievedChunk pairs a chunk with its similarity to a query.
type RetrievedChunk struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// Filename is the owning document's upload filename.
	Filename string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// Citation references the document and page an answer was grounded in.
type Citation struct {
	// DocumentID identifies the cited document.
	DocumentID string

	// Filename is the document's upload filename.
	Filename string

	// Page is the 1-based page number, 0 when unknown.
	Page int
}

// Answer is the result of asking a question against a session.
type Answer struct {
	// Text is the generated answer, or an explicit statement that
	// no relevant content was found.
	Text string

	// Citations reference the chunks actually used to ground the
	// answer, ordered by decreasing relevance. Empty when the
	// answer is not grounded.
	Citations []Citation

	// Grounded is true when the answer was generated from retrieved
	// content. A false value means retrieval found nothing above the
	// relevance threshold; the answer text states that explicitly
	// rather than inventing content.
	Grounded bool
}
