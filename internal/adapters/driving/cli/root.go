// Package cli provides the command-line interface using cobra.
// Commands are thin wrappers that parse flags and delegate to the
// driving ports; all business logic lives in internal/core/services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/extractor/unipdf"
	indexmem "github.com/custodia-labs/docqa/internal/adapters/driven/index/memory"
	storagemem "github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports the CLI commands operate on.
type Services struct {
	Sessions driving.SessionRegistry
	Ingest   driving.IngestService
	QA       driving.QAService
}

// activeServices holds the injected or lazily wired services.
var activeServices *Services

// SetServices injects pre-built services, bypassing config-based
// wiring. Used by tests and alternative entry points.
func SetServices(s *Services) {
	activeServices = s
}

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your PDF documents",
	Long: `Docqa answers questions about uploaded PDF documents.

Documents are extracted, chunked and embedded into an in-memory vector
index scoped to a session. Questions are answered by a language model
grounded in the most relevant document excerpts, with source citations.

Configure embedding and LLM providers in ~/.docqa/config.toml.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.docqa/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices wires the full service graph from configuration on
// first use. Commands that need no providers (version, help) never
// trigger it.
func ensureServices() (*Services, error) {
	if activeServices != nil {
		return activeServices, nil
	}

	path := configPath
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	settings, err := configfile.LoadSettings(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return nil, err
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		return nil, fmt.Errorf("create prompt store: %w", err)
	}

	registry := services.NewRegistry(
		func() driven.DocumentStore { return storagemem.NewDocumentStore() },
		func(dims int) (driven.VectorIndex, error) { return indexmem.New(dims) },
	)
	pipeline := postprocessors.DefaultPipeline(settings.Chunking)

	activeServices = &Services{
		Sessions: registry,
		Ingest:   services.NewIngestService(registry, unipdf.New(), pipeline, embedder),
		QA:       services.NewQAService(registry, embedder, llm, prompts, settings.Retrieval),
	}
	return activeServices, nil
}
