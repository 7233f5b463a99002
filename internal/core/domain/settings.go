package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
// The provider and model must stay consistent between ingestion and
// query time for a given index; a change requires re-ingestion.
type EmbeddingSettings struct {
	// Provider is the embedding provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates with cloud providers.
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int
}

// IsConfigured returns true if the settings identify a usable provider.
func (s *EmbeddingSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates with cloud providers.
	APIKey string
}

// IsConfigured returns true if the settings identify a usable provider.
func (s *LLMSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// Retrieval policy defaults. These are tuning choices, not structural
// requirements, and can be overridden in configuration.
const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 4

	// DefaultMinSimilarity is the relevance threshold below which a
	// chunk is not considered relevant to the question.
	DefaultMinSimilarity = 0.25

	// DefaultMaxContextChars bounds the assembled prompt context.
	// Lowest-ranked chunks are excluded first; chunks are never cut
	// mid-text.
	DefaultMaxContextChars = 6000
)

// RetrievalSettings holds query-time retrieval policy.
type RetrievalSettings struct {
	// TopK is the maximum number of chunks retrieved per question.
	TopK int

	// MinSimilarity is the relevance threshold (cosine similarity).
	MinSimilarity float64

	// MaxContextChars bounds the total size of chunk text placed in
	// the generation prompt.
	MaxContextChars int
}

// Normalised returns a copy with zero values replaced by defaults.
func (s RetrievalSettings) Normalised() RetrievalSettings {
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}
	if s.MinSimilarity <= 0 {
		s.MinSimilarity = DefaultMinSimilarity
	}
	if s.MaxContextChars <= 0 {
		s.MaxContextChars = DefaultMaxContextChars
	}
	return s
}

// Chunking defaults.
const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the overlap between consecutive chunks.
	DefaultChunkOverlap = 200
)

// ChunkingSettings holds document chunking configuration.
type ChunkingSettings struct {
	// ChunkSize is the target chunk length in runes.
	ChunkSize int

	// Overlap is the overlap between consecutive chunks in runes.
	Overlap int
}

// Normalised returns a copy with zero values replaced by defaults.
func (s ChunkingSettings) Normalised() ChunkingSettings {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.Overlap < 0 {
		s.Overlap = DefaultChunkOverlap
	}
	return s
}

// Session lifecycle defaults.
const (
	// DefaultIdleTimeout is how long a session may sit idle before
	// the expiry sweep tears it down.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultSweepInterval is how often the expiry sweep runs.
	DefaultSweepInterval = 1 * time.Minute
)

// SessionSettings holds session lifecycle policy.
type SessionSettings struct {
	// IdleTimeout is the maximum idle duration before expiry.
	IdleTimeout time.Duration

	// SweepInterval is how often idle sessions are collected.
	SweepInterval time.Duration
}

// Normalised returns a copy with zero values replaced by defaults.
func (s SessionSettings) Normalised() SessionSettings {
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = DefaultSweepInterval
	}
	return s
}

// Settings aggregates all application configuration.
type Settings struct {
	// Embedding configures the embedding provider.
	Embedding EmbeddingSettings

	// LLM configures the generation provider.
	LLM LLMSettings

	// Retrieval configures query-time policy.
	Retrieval RetrievalSettings

	// Chunking configures document splitting.
	Chunking ChunkingSettings

	// Session configures session lifecycle.
	Session SessionSettings
}

// DefaultSettings returns settings with all policy values at their
// documented defaults and no providers configured.
func DefaultSettings() *Settings {
	return &Settings{
		Retrieval: RetrievalSettings{}.Normalised(),
		Chunking:  ChunkingSettings{}.Normalised(),
		Session:   SessionSettings{}.Normalised(),
	}
}
