package services

import (
	"context"
	"strings"

	indexmem "github.com/custodia-labs/docqa/internal/adapters/driven/index/memory"
	storagemem "github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// newTestRegistry builds a registry backed by the real in-memory
// adapters, which is what production wiring uses.
func newTestRegistry() *Registry {
	return NewRegistry(
		func() driven.DocumentStore { return storagemem.NewDocumentStore() },
		func(dims int) (driven.VectorIndex, error) { return indexmem.New(dims) },
	)
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	pages     []domain.Page
	pageCount int
	err       error
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte) ([]domain.Page, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.pages, m.pageCount, nil
}

// mockEmbedder implements driven.EmbeddingService with deterministic
// vectors: each text embeds to a direction derived from its content,
// so similar texts score high and unrelated texts score low.
type mockEmbedder struct {
	dims     int
	err      error
	errAfter int // fail after this many calls, 0 means use err directly
	calls    int
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	vec := make([]float32, m.dims)
	for i := range vec {
		vec[i] = 0.01
	}
	// Bucket texts by a keyword so tests can steer similarity.
	switch {
	case strings.Contains(text, "alpha"):
		vec[0] = 1
	case strings.Contains(text, "beta"):
		vec[1] = 1
	default:
		vec[2] = 1
	}
	return vec
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil && (m.errAfter == 0 || m.calls > m.errAfter) {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.err != nil && (m.errAfter == 0 || m.calls > m.errAfter) {
		return nil, m.err
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.template == "" {
		return "Excerpts:\n%s\n\nQuestion: %s\n\nAnswer:", nil
	}
	return m.template, nil
}

func (m *mockPromptStore) Reload() {}
