package domain

import (
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in hashing embedder. It has no LLM.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (feature hashing, offline)"
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

// CorpusSettings describes which pages are indexed and how they are fetched.
type CorpusSettings struct {
	// BaseURL is joined with each entry of Pages.
	BaseURL string

	// Pages are paths relative to BaseURL. The empty string is the home page.
	Pages []string

	// URLs, when non-empty, replaces BaseURL+Pages entirely.
	URLs []string

	// UserAgent identifies the crawler to remote servers.
	UserAgent string

	// Concurrency bounds the number of fetches in flight.
	Concurrency int

	// RatePerSecond limits request starts across all fetches.
	RatePerSecond float64

	// Timeout bounds each individual fetch.
	Timeout time.Duration
}

// Locations returns the source locations to acquire, in order.
func (c CorpusSettings) Locations() []string {
	if len(c.URLs) > 0 {
		out := make([]string, len(c.URLs))
		copy(out, c.URLs)
		return out
	}
	base := c.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	out := make([]string, 0, len(c.Pages))
	for _, page := range c.Pages {
		out = append(out, base+strings.TrimPrefix(page, "/"))
	}
	return out
}

// ChunkingSettings configures the recursive splitter.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings configures question answering.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's default vector size when non-zero.
	Dimensions int

	// BatchSize is how many chunks go to the provider per call.
	BatchSize int

	// Parallelism caps the batches in flight during an index build.
	Parallelism int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration and generation parameters.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration

	MaxTokens         int
	Temperature       float64
	TopK              int
	TopP              float64
	RepetitionPenalty float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings configures where the index is persisted.
type IndexSettings struct {
	// CacheDir holds the index database.
	CacheDir string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings
	Server    ServerSettings
}

// Default configuration values.
const (
	DefaultBaseURL           = "https://www.ruraluniv.ac.in/"
	DefaultUserAgent         = "UniversityChatbot/1.0 (+https://github.com/custodia-labs/campus-assistant)"
	DefaultFetchConcurrency  = 4
	DefaultFetchRate         = 5.0
	DefaultFetchTimeout      = 30 * time.Second
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
	DefaultTopK              = 3
	DefaultEmbedBatchSize    = 64
	DefaultEmbedParallelism  = 4
	DefaultLLMTimeout        = 120 * time.Second
	DefaultMaxTokens         = 500
	DefaultTemperature       = 0.3
	DefaultLLMTopK           = 50
	DefaultTopP              = 0.9
	DefaultRepetitionPenalty = 1.1
	DefaultCacheDir          = "cache"
	DefaultServerAddr        = "0.0.0.0:8000"
)

// DefaultPages returns the pages indexed when nothing else is configured.
func DefaultPages() []string {
	return []string{
		"",
		"about-us",
		"academics",
		"departments",
		"admissions",
		"examinations",
		"research",
		"facilities",
		"contact-us",
		"news-events",
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings default to the offline hashing provider. The LLM is left
// unconfigured and must be set before questions can be answered.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{
			BaseURL:       DefaultBaseURL,
			Pages:         DefaultPages(),
			UserAgent:     DefaultUserAgent,
			Concurrency:   DefaultFetchConcurrency,
			RatePerSecond: DefaultFetchRate,
			Timeout:       DefaultFetchTimeout,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Embedding: EmbeddingSettings{
			Provider:    AIProviderLocal,
			BatchSize:   DefaultEmbedBatchSize,
			Parallelism: DefaultEmbedParallelism,
		},
		LLM: LLMSettings{
			Timeout:           DefaultLLMTimeout,
			MaxTokens:         DefaultMaxTokens,
			Temperature:       DefaultTemperature,
			TopK:              DefaultLLMTopK,
			TopP:              DefaultTopP,
			RepetitionPenalty: DefaultRepetitionPenalty,
		},
		Index: IndexSettings{
			CacheDir: DefaultCacheDir,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// EmbeddingDimensions returns known vector sizes keyed by model name.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
	}
}
