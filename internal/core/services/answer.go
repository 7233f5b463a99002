package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/retry"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// notFoundAnswer is returned when retrieval finds nothing relevant.
// The model is never asked to answer from thin air.
const notFoundAnswer = "I could not find this in the uploaded documents."

// Generation defaults for grounded answering.
const (
	answerMaxTokens   = 512
	answerTemperature = 0.1
)

// QAService answers questions against a session's indexed documents.
type QAService struct {
	registry  *Registry
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	prompts   driven.PromptStore
	retrieval domain.RetrievalSettings
	retryCfg  retry.Config
}

// NewQAService creates a question answering service.
func NewQAService(
	registry *Registry,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	retrieval domain.RetrievalSettings,
) *QAService {
	return &QAService{
		registry:  registry,
		embedder:  embedder,
		llm:       llm,
		prompts:   prompts,
		retrieval: retrieval.Normalised(),
		retryCfg:  retry.DefaultConfig(),
	}
}

// Ask embeds the question, retrieves the most relevant chunks from the
// session's index, and generates an answer grounded in them.
func (s *QAService) Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	state, err := s.registry.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.registry.release(state)

	logger.Section("Question Answering")
	logger.Debug("Session %s: %q", sessionID, question)

	index := s.registry.indexOf(state)
	if index == nil || index.Size() == 0 {
		return nil, domain.ErrNoDocuments
	}

	queryVec, err := retry.DoWithData(ctx, s.retryCfg, func() ([]float32, error) {
		return s.embedder.Embed(ctx, question)
	})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := index.Search(ctx, queryVec, s.retrieval.TopK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	relevant := hits[:0:len(hits)]
	for _, hit := range hits {
		if hit.Similarity >= s.retrieval.MinSimilarity {
			relevant = append(relevant, hit)
		}
	}
	logger.Debug("Retrieved %d hit(s), %d above threshold %.2f",
		len(hits), len(relevant), s.retrieval.MinSimilarity)

	if len(relevant) == 0 {
		logger.Info("No relevant content found")
		return &domain.Answer{Text: notFoundAnswer, Grounded: false}, nil
	}

	excerpts, citations, err := s.assembleContext(ctx, state, relevant)
	if err != nil {
		return nil, err
	}

	template, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return nil, fmt.Errorf("load answer prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, excerpts, question)

	text, err := retry.DoWithData(ctx, s.retryCfg, func() (string, error) {
		return s.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   answerMaxTokens,
			Temperature: answerTemperature,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	logger.Info("Answer generated with %d citation(s)", len(citations))
	return &domain.Answer{
		Text:      strings.TrimSpace(text),
		Citations: citations,
		Grounded:  true,
	}, nil
}

// assembleContext builds the excerpt block for the prompt and the
// citations for the chunks actually included. Chunks are taken whole
// in rank order and assembly stops at the first chunk that would
// overflow the character budget, so the kept set is always a rank
// prefix. The top-ranked chunk is always included so the budget can
// never empty the prompt.
func (s *QAService) assembleContext(
	ctx context.Context, state *sessionState, hits []driven.VectorHit,
) (string, []domain.Citation, error) {
	var sb strings.Builder
	var citations []domain.Citation
	seen := make(map[string]bool)
	filenames := make(map[string]string)
	used := 0

	for i, hit := range hits {
		chunk, err := state.docs.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			return "", nil, fmt.Errorf("load chunk %s: %w", hit.ChunkID, err)
		}

		if i > 0 && used+len(chunk.Content) > s.retrieval.MaxContextChars {
			break
		}
		used += len(chunk.Content)

		filename, ok := filenames[hit.DocumentID]
		if !ok {
			doc, err := state.docs.GetDocument(ctx, hit.DocumentID)
			if err != nil {
				return "", nil, fmt.Errorf("load document %s: %w", hit.DocumentID, err)
			}
			filename = doc.Filename
			filenames[hit.DocumentID] = filename
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		if chunk.Page > 0 {
			fmt.Fprintf(&sb, "[%s, page %d]\n", filename, chunk.Page)
		} else {
			fmt.Fprintf(&sb, "[%s]\n", filename)
		}
		sb.WriteString(chunk.Content)

		key := fmt.Sprintf("%s:%d", hit.DocumentID, chunk.Page)
		if !seen[key] {
			seen[key] = true
			citations = append(citations, domain.Citation{
				DocumentID: hit.DocumentID,
				Filename:   filename,
				Page:       chunk.Page,
			})
		}
	}

	return sb.String(), citations, nil
}
