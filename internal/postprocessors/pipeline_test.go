package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// stubProcessor appends a marker chunk on each call.
type stubProcessor struct {
	name string
	err  error
}

func (s *stubProcessor) Name() string { return s.name }

func (s *stubProcessor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append(chunks, domain.Chunk{DocumentID: doc.ID, Content: s.name}), nil
}

func TestPipeline_Process(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "a"}, &stubProcessor{name: "b"})

	chunks, err := pipeline.Process(context.Background(), &domain.Document{ID: "doc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "a" || chunks[1].Content != "b" {
		t.Error("processors ran out of order")
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "a"})

	_, err := pipeline.Process(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	pipeline := NewPipeline(&stubProcessor{name: "bad", err: boom})

	_, err := pipeline.Process(context.Background(), &domain.Document{ID: "doc-1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped processor error, got %v", err)
	}
}

func TestPipeline_Add_Len(t *testing.T) {
	pipeline := NewPipeline()
	if pipeline.Len() != 0 {
		t.Errorf("expected empty pipeline, got %d", pipeline.Len())
	}

	pipeline.Add(&stubProcessor{name: "a"})
	if pipeline.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", pipeline.Len())
	}
}

func TestDefaultPipeline(t *testing.T) {
	pipeline := DefaultPipeline(domain.ChunkingSettings{ChunkSize: 100, Overlap: 10})

	doc := &domain.Document{
		ID:    "doc-1",
		Pages: []domain.Page{{Number: 1, Text: "some page text"}},
	}

	chunks, err := pipeline.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}
