package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.Equal(t, domain.DefaultChunkSize, settings.Chunking.ChunkSize)
	assert.Equal(t, domain.DefaultIdleTimeout, settings.Session.IdleTimeout)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestLoadSettings_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[embedding]
provider = "openai"
model = "text-embedding-3-small"
api_key = "sk-test"
dimensions = 512

[llm]
provider = "anthropic"
model = "claude-3-5-sonnet-latest"
api_key = "sk-ant-test"

[retrieval]
top_k = 8
min_similarity = 0.4
max_context_chars = 9000

[chunking]
chunk_size = 500
overlap = 50

[session]
idle_timeout = "10m"
sweep_interval = "30s"
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 512, settings.Embedding.Dimensions)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.Equal(t, 0.4, settings.Retrieval.MinSimilarity)
	assert.Equal(t, 9000, settings.Retrieval.MaxContextChars)
	assert.Equal(t, 500, settings.Chunking.ChunkSize)
	assert.Equal(t, 50, settings.Chunking.Overlap)
	assert.Equal(t, 10*time.Minute, settings.Session.IdleTimeout)
	assert.Equal(t, 30*time.Second, settings.Session.SweepInterval)
}

func TestLoadSettings_PartialConfigNormalises(t *testing.T) {
	path := writeConfig(t, `
[retrieval]
top_k = 2
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, 2, settings.Retrieval.TopK)
	assert.Equal(t, domain.DefaultMinSimilarity, settings.Retrieval.MinSimilarity)
	assert.Equal(t, domain.DefaultMaxContextChars, settings.Retrieval.MaxContextChars)
	assert.Equal(t, domain.DefaultSweepInterval, settings.Session.SweepInterval)
}

func TestLoadSettings_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `not valid toml [[[`)

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettings_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
[session]
idle_timeout = "ten minutes"
`)

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idle_timeout")
}

func TestLoadSettings_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")

	path := writeConfig(t, `
[embedding]
provider = "openai"
model = "text-embedding-3-small"

[llm]
provider = "anthropic"
model = "claude-3-5-sonnet-latest"
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.Embedding.APIKey)
	assert.Equal(t, "sk-ant-from-env", settings.LLM.APIKey)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.True(t, settings.LLM.IsConfigured())
}

func TestLoadSettings_FileKeyWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	path := writeConfig(t, `
[embedding]
provider = "openai"
api_key = "sk-from-file"
`)

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", settings.Embedding.APIKey)
}
