package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil))

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvAnthropicAPIKey, "")
	service := NewSettingsService(memory.NewConfigStore(nil))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"corpus.base_url":        "https://example.edu",
		"corpus.pages":           []any{"", "admissions"},
		"corpus.concurrency":     int64(8),
		"corpus.rate_per_second": 2.5,
		"corpus.timeout_seconds": int64(10),
		"chunking.size":          int64(500),
		"chunking.overlap":       int64(50),
		"retrieval.top_k":        int64(5),
		"embedding.provider":     "ollama",
		"embedding.model":        "nomic-embed-text",
		"embedding.base_url":     "http://localhost:11434",
		"embedding.batch_size":   int64(16),
		"embedding.parallelism":  int64(2),
		"llm.provider":           "openai",
		"llm.model":              "gpt-4o-mini",
		"llm.api_key":            "sk-from-config",
		"llm.timeout_seconds":    1.5,
		"llm.max_tokens":         int64(256),
		"llm.temperature":        0.0,
		"index.cache_dir":        "/var/cache/campus",
		"server.addr":            "127.0.0.1:9000",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.edu/", "https://example.edu/admissions"}, settings.Corpus.Locations())
	assert.Equal(t, 8, settings.Corpus.Concurrency)
	assert.InDelta(t, 2.5, settings.Corpus.RatePerSecond, 1e-9)
	assert.Equal(t, 10*time.Second, settings.Corpus.Timeout)
	assert.Equal(t, domain.ChunkingSettings{Size: 500, Overlap: 50}, settings.Chunking)
	assert.Equal(t, 5, settings.Retrieval.TopK)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, 16, settings.Embedding.BatchSize)
	assert.Equal(t, 2, settings.Embedding.Parallelism)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.Equal(t, "sk-from-config", settings.LLM.APIKey)
	assert.Equal(t, 1500*time.Millisecond, settings.LLM.Timeout)
	assert.Equal(t, 256, settings.LLM.MaxTokens)
	assert.Zero(t, settings.LLM.Temperature, "an explicit zero must not fall back to the default")
	assert.InDelta(t, domain.DefaultTopP, settings.LLM.TopP, 1e-9)
	assert.Equal(t, "/var/cache/campus", settings.Index.CacheDir)
	assert.Equal(t, "127.0.0.1:9000", settings.Server.Addr)
}

func TestSettingsService_Get_URLsOverridePages(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"corpus.urls": []any{"https://a.example/x", "https://b.example/y"},
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/x", "https://b.example/y"}, settings.Corpus.Locations())
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"embedding.provider": "invalid_provider",
		"llm.provider":       "invalid_provider",
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string]any
		wantLLM   string
		wantEmbed string
	}{
		{
			name:      "openai from env",
			values:    map[string]any{"llm.provider": "openai", "embedding.provider": "openai"},
			wantLLM:   "sk-openai-env",
			wantEmbed: "sk-openai-env",
		},
		{
			name:    "anthropic from env",
			values:  map[string]any{"llm.provider": "anthropic"},
			wantLLM: "sk-ant-env",
		},
		{
			name:    "config wins over env",
			values:  map[string]any{"llm.provider": "openai", "llm.api_key": "sk-config"},
			wantLLM: "sk-config",
		},
		{
			name:   "ollama ignores env",
			values: map[string]any{"llm.provider": "ollama"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOpenAIAPIKey, "sk-openai-env")
			t.Setenv(EnvAnthropicAPIKey, "sk-ant-env")

			settings, err := NewSettingsService(memory.NewConfigStore(tt.values)).Get()

			require.NoError(t, err)
			assert.Equal(t, tt.wantLLM, settings.LLM.APIKey)
			assert.Equal(t, tt.wantEmbed, settings.Embedding.APIKey)
		})
	}
}
