package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// fileSettings is the on-disk TOML layout. It is kept separate from
// domain.Settings so the file format can evolve without touching the
// domain types.
type fileSettings struct {
	Embedding struct {
		Provider   string `toml:"provider"`
		Model      string `toml:"model"`
		BaseURL    string `toml:"base_url"`
		APIKey     string `toml:"api_key"`
		Dimensions int    `toml:"dimensions"`
	} `toml:"embedding"`

	LLM struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		BaseURL  string `toml:"base_url"`
		APIKey   string `toml:"api_key"`
	} `toml:"llm"`

	Retrieval struct {
		TopK            int     `toml:"top_k"`
		MinSimilarity   float64 `toml:"min_similarity"`
		MaxContextChars int     `toml:"max_context_chars"`
	} `toml:"retrieval"`

	Chunking struct {
		ChunkSize int `toml:"chunk_size"`
		Overlap   int `toml:"overlap"`
	} `toml:"chunking"`

	Session struct {
		IdleTimeout   string `toml:"idle_timeout"`
		SweepInterval string `toml:"sweep_interval"`
	} `toml:"session"`
}

// DefaultPath returns the default settings file location,
// ~/.docqa/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".docqa", "config.toml"), nil
}

// LoadSettings reads settings from a TOML file. A missing file is not
// an error: defaults apply, with API keys picked up from the
// environment. Explicit file values win over environment variables.
func LoadSettings(path string) (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(settings)
			return settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	settings.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProvider(fs.Embedding.Provider),
		Model:      fs.Embedding.Model,
		BaseURL:    fs.Embedding.BaseURL,
		APIKey:     fs.Embedding.APIKey,
		Dimensions: fs.Embedding.Dimensions,
	}
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProvider(fs.LLM.Provider),
		Model:    fs.LLM.Model,
		BaseURL:  fs.LLM.BaseURL,
		APIKey:   fs.LLM.APIKey,
	}

	settings.Retrieval = domain.RetrievalSettings{
		TopK:            fs.Retrieval.TopK,
		MinSimilarity:   fs.Retrieval.MinSimilarity,
		MaxContextChars: fs.Retrieval.MaxContextChars,
	}.Normalised()

	settings.Chunking = domain.ChunkingSettings{
		ChunkSize: fs.Chunking.ChunkSize,
		Overlap:   fs.Chunking.Overlap,
	}.Normalised()

	session := domain.SessionSettings{}
	if fs.Session.IdleTimeout != "" {
		d, err := time.ParseDuration(fs.Session.IdleTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse session.idle_timeout: %w", err)
		}
		session.IdleTimeout = d
	}
	if fs.Session.SweepInterval != "" {
		d, err := time.ParseDuration(fs.Session.SweepInterval)
		if err != nil {
			return nil, fmt.Errorf("parse session.sweep_interval: %w", err)
		}
		session.SweepInterval = d
	}
	settings.Session = session.Normalised()

	applyEnv(settings)
	return settings, nil
}

// applyEnv fills missing API keys from environment variables so keys
// don't have to live in the config file.
func applyEnv(settings *domain.Settings) {
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}
