// Package app wires adapters and services into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/ai"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/config/file"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/campus-assistant/internal/connectors/web"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/core/services"
	"github.com/custodia-labs/campus-assistant/internal/logger"
	"github.com/custodia-labs/campus-assistant/internal/normalisers"
	"github.com/custodia-labs/campus-assistant/internal/postprocessors"
)

const llmPingTimeout = 5 * time.Second

// Options configure New.
type Options struct {
	// ConfigDir holds config.toml and prompts/ (default: ~/.campus).
	ConfigDir string

	// Config, when non-nil, replaces config.toml with these dot-notation
	// values ("llm.provider"). Prompts and the index still live in ConfigDir.
	Config map[string]any

	// LLM replaces the configured generator when set.
	LLM driven.LLMService
}

// App holds every long-lived component. Driving adapters receive it
// instead of reaching for globals.
type App struct {
	ConfigDir string
	Settings  *domain.AppSettings

	Index      *services.IndexLifecycle
	Answer     *services.AnswerService
	IndexStore driven.IndexStore
	Prompts    *file.PromptStore

	embedder driven.EmbeddingService
	llm      driven.LLMService
}

// New loads configuration and builds the application. It does not start the
// index lifecycle; call Index.Start for that.
func New(ctx context.Context, opts Options) (*App, error) {
	configDir, err := resolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	configStore, configSource, err := openConfig(configDir, opts.Config)
	if err != nil {
		return nil, err
	}

	settings, err := services.NewSettingsService(configStore).Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	logger.Section("Configuration")
	logger.Info("config: %s", configSource)
	logger.Info("embedding: %s %s", settings.Embedding.Provider, settings.Embedding.Model)
	logger.Info("llm: %s %s", settings.LLM.Provider, settings.LLM.Model)

	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm := opts.LLM
	if llm == nil {
		llm = createLLM(ctx, &settings.LLM)
	}

	cacheDir := settings.Index.CacheDir
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(configDir, cacheDir)
	}
	store, err := sqlite.NewIndexStore(cacheDir)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("open index store: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("open prompt store: %w", err)
	}

	factory := memory.NewVectorIndexFactory(
		memory.WithBatchSize(settings.Embedding.BatchSize),
		memory.WithParallelism(settings.Embedding.Parallelism),
	)
	lifecycle := services.NewIndexLifecycle(services.LifecycleDeps{
		Acquirer: web.New(web.Config{
			UserAgent:     settings.Corpus.UserAgent,
			Concurrency:   settings.Corpus.Concurrency,
			RatePerSecond: settings.Corpus.RatePerSecond,
			Timeout:       settings.Corpus.Timeout,
		}),
		Normalisers: normalisers.NewDefaultRegistry(),
		Pipeline:    postprocessors.NewDefaultPipeline(settings.Chunking),
		Embedder:    embedder,
		Factory:     factory,
		Store:       store,
		Locations:   settings.Corpus.Locations(),
	})

	answer := services.NewAnswerService(lifecycle, embedder, llm, prompts, services.AnswerConfig{
		TopK:     settings.Retrieval.TopK,
		Timeout:  settings.LLM.Timeout,
		Generate: ai.GenerateOptions(&settings.LLM),
	})

	return &App{
		ConfigDir:  configDir,
		Settings:   settings,
		Index:      lifecycle,
		Answer:     answer,
		IndexStore: store,
		Prompts:    prompts,
		embedder:   embedder,
		llm:        llm,
	}, nil
}

// StartIndex runs the index lifecycle in the background. The returned
// channel receives its result once and is then closed.
func (a *App) StartIndex(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- a.Index.Start(ctx)
	}()
	return done
}

// WatchPrompts reloads prompt templates when their files change, until ctx
// is cancelled. The returned channel names each reloaded prompt and may be
// ignored. Failing to watch is logged and returns nil.
func (a *App) WatchPrompts(ctx context.Context) <-chan string {
	reloaded, err := file.NewPromptWatcher(a.Prompts).Watch(ctx)
	if err != nil {
		logger.Warn("prompt hot reload disabled: %v", err)
		return nil
	}
	return reloaded
}

// Close releases the AI services.
func (a *App) Close() error {
	var errs []error
	if a.embedder != nil {
		errs = append(errs, a.embedder.Close())
	}
	if a.llm != nil {
		errs = append(errs, a.llm.Close())
	}
	return errors.Join(errs...)
}

// createLLM returns the configured generator, or nil when none is
// configured. An unreachable generator is kept: it may come up later.
func createLLM(ctx context.Context, settings *domain.LLMSettings) driven.LLMService {
	if !settings.IsConfigured() {
		logger.Warn("no LLM configured; questions will fail until [llm] is set in config.toml")
		return nil
	}

	llm, err := ai.CreateLLMService(settings)
	if err != nil {
		logger.Warn("%v", fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, llmPingTimeout)
	defer cancel()
	if err := llm.Ping(pingCtx); err != nil {
		logger.Warn("LLM %s not reachable yet: %v", settings.Provider, err)
	}
	return llm
}

// openConfig returns the config store and a description of where it reads.
func openConfig(configDir string, values map[string]any) (driven.ConfigStore, string, error) {
	if values != nil {
		return memory.NewConfigStore(values), "in memory", nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	return store, store.Path(), nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}
