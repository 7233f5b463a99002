package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrSessionNotFound indicates no session state exists for an identifier.
	// Distinct from a session that exists but holds no documents.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoDocuments indicates the session exists but has no processed
	// documents yet. The caller should upload documents first.
	ErrNoDocuments = errors.New("no documents uploaded")

	// ErrDocumentNotFound indicates a reference to an unknown document ID.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrChunkNotFound indicates a reference to an unknown chunk ID.
	ErrChunkNotFound = errors.New("chunk not found")

	// ErrUnreadableDocument indicates no extractable text was found.
	// Scoped to the single document; other documents in a batch are
	// unaffected.
	ErrUnreadableDocument = errors.New("no extractable text in document")

	// ErrDimensionMismatch indicates an embedding did not match the
	// dimensionality the index was built with. This is a fatal
	// configuration error and is never silently coerced.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding provider is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation provider is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ProviderError wraps a failure from an external AI provider
// (embedding or generation). The Retriable flag drives the bounded
// retry policy: rate limiting and transient server failures are
// retriable, authentication and invalid-input failures are not.
type ProviderError struct {
	// Provider names the provider ("openai", "anthropic", "ollama").
	Provider string

	// Op is the failing operation ("embed", "generate", "ping").
	Op string

	// StatusCode is the HTTP status, 0 for transport-level failures.
	StatusCode int

	// Retriable is true for transient failures worth retrying.
	Retriable bool

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s failed (status %d): %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetriable reports whether err is a transient provider failure.
// Only retriable provider errors should be retried; everything else
// surfaces to the caller immediately.
func IsRetriable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retriable
	}
	return false
}

// RetriableStatus reports whether an HTTP status from a provider
// indicates a transient failure (rate limiting or server error).
func RetriableStatus(status int) bool {
	return status == 429 || status >= 500
}
