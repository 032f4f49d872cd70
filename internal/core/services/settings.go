package services

import (
	"os"
	"time"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusBaseURL     = "corpus.base_url"
	keyCorpusPages       = "corpus.pages"
	keyCorpusURLs        = "corpus.urls"
	keyCorpusUserAgent   = "corpus.user_agent"
	keyCorpusConcurrency = "corpus.concurrency"
	keyCorpusRate        = "corpus.rate_per_second"
	keyCorpusTimeout     = "corpus.timeout_seconds"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyTopK              = "retrieval.top_k"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDimensions   = "embedding.dimensions"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedParallelism  = "embedding.parallelism"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTimeout        = "llm.timeout_seconds"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyLLMTemperature    = "llm.temperature"
	keyLLMTopK           = "llm.top_k"
	keyLLMTopP           = "llm.top_p"
	keyLLMRepPenalty     = "llm.repetition_penalty"
	keyIndexCacheDir     = "index.cache_dir"
	keyServerAddr        = "server.addr"
)

// Environment variables that supply API keys missing from the config file.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// SettingsService maps configuration onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing keys keep their
// defaults. An API key in the config file wins over the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			BaseURL:       s.getString(keyCorpusBaseURL, d.Corpus.BaseURL),
			Pages:         s.getStringSlice(keyCorpusPages, d.Corpus.Pages),
			URLs:          s.configStore.GetStringSlice(keyCorpusURLs),
			UserAgent:     s.getString(keyCorpusUserAgent, d.Corpus.UserAgent),
			Concurrency:   s.getInt(keyCorpusConcurrency, d.Corpus.Concurrency),
			RatePerSecond: s.getFloat(keyCorpusRate, d.Corpus.RatePerSecond),
			Timeout:       s.getSeconds(keyCorpusTimeout, d.Corpus.Timeout),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, d.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, d.Retrieval.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:    s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:       s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:     s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:      s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:  s.getInt(keyEmbedDimensions, d.Embedding.Dimensions),
			BatchSize:   s.getInt(keyEmbedBatchSize, d.Embedding.BatchSize),
			Parallelism: s.getInt(keyEmbedParallelism, d.Embedding.Parallelism),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:             s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			Timeout:           s.getSeconds(keyLLMTimeout, d.LLM.Timeout),
			MaxTokens:         s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
			Temperature:       s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			TopK:              s.getInt(keyLLMTopK, d.LLM.TopK),
			TopP:              s.getFloat(keyLLMTopP, d.LLM.TopP),
			RepetitionPenalty: s.getFloat(keyLLMRepPenalty, d.LLM.RepetitionPenalty),
		},
		Index: domain.IndexSettings{
			CacheDir: s.getString(keyIndexCacheDir, d.Index.CacheDir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

func envAPIKey(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI:
		return os.Getenv(EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(EnvAnthropicAPIKey)
	default:
		return ""
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return time.Duration(s.configStore.GetFloat(key) * float64(time.Second))
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
