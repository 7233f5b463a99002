package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QAService answers questions against a session's documents.
type QAService interface {
	// Ask embeds the question, retrieves the most relevant chunks from
	// the session's index, and returns a generated answer with source
	// citations.
	//
	// Fails with domain.ErrSessionNotFound when no session state exists
	// and domain.ErrNoDocuments when the session holds no processed
	// documents yet. When nothing relevant is retrieved the returned
	// Answer has Grounded == false and an empty citation list; no
	// answer is invented.
	Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error)
}
