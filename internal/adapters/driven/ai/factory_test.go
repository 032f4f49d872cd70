package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/campus-assistant/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/campus-assistant/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantModel string
		wantDims  int
		wantErr   error
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  domain.ErrUnsupportedProvider,
		},
		{
			name:      "local provider uses hashing defaults",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderLocal},
			wantModel: hashing.DefaultModel,
			wantDims:  hashing.DefaultDimensions,
		},
		{
			name: "ollama provider resolves known dimensions",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "mxbai-embed-large",
			},
			wantModel: "mxbai-embed-large",
			wantDims:  1024,
		},
		{
			name: "openai provider honours explicit dimensions",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderOpenAI,
				APIKey:     "test-key",
				Model:      "text-embedding-3-small",
				Dimensions: 256,
			},
			wantModel: "text-embedding-3-small",
			wantDims:  256,
		},
		{
			name:     "anthropic provider is rejected",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic},
			wantErr:  domain.ErrUnsupportedProvider,
		},
		{
			name:     "unknown provider is rejected",
			settings: &domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  domain.ErrUnsupportedProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateEmbeddingService() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateEmbeddingService() unexpected error: %v", err)
			}
			defer svc.Close()

			if svc.ModelName() != tt.wantModel {
				t.Errorf("ModelName() = %q, want %q", svc.ModelName(), tt.wantModel)
			}
			if svc.Dimensions() != tt.wantDims {
				t.Errorf("Dimensions() = %d, want %d", svc.Dimensions(), tt.wantDims)
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  bool
	}{
		{"nil settings", nil, true},
		{"ollama", &domain.LLMSettings{Provider: domain.AIProviderOllama}, false},
		{"openai", &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"}, false},
		{"openai without key", &domain.LLMSettings{Provider: domain.AIProviderOpenAI}, true},
		{"anthropic", &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, false},
		{"local has no llm", &domain.LLMSettings{Provider: domain.AIProviderLocal}, true},
		{"unknown", &domain.LLMSettings{Provider: "mystery"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateLLMService() error = %v, wantErr %v", err, tt.wantErr)
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("local always validates", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(context.Background(),
			&domain.EmbeddingSettings{Provider: domain.AIProviderLocal})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.Close()
	})

	t.Run("unconfigured is unavailable", func(t *testing.T) {
		_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{})
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Fatalf("error = %v, want ErrEmbeddingUnavailable", err)
		}
	})

	t.Run("unreachable ollama is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Fatalf("error = %v, want ErrEmbeddingUnavailable", err)
		}
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("reachable ollama validates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/tags" {
				w.Write([]byte(`{"models":[]}`)) //nolint:errcheck
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		svc.Close()
	})

	t.Run("local is unavailable", func(t *testing.T) {
		_, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderLocal})
		if !errors.Is(err, domain.ErrLLMUnavailable) {
			t.Fatalf("error = %v, want ErrLLMUnavailable", err)
		}
	})
}

func TestGenerateOptions(t *testing.T) {
	s := domain.DefaultAppSettings().LLM
	opts := GenerateOptions(&s)

	if opts.MaxTokens != domain.DefaultMaxTokens || opts.TopK != domain.DefaultLLMTopK {
		t.Errorf("GenerateOptions() = %+v", opts)
	}
	if opts.RepetitionPenalty != domain.DefaultRepetitionPenalty {
		t.Errorf("RepetitionPenalty = %v", opts.RepetitionPenalty)
	}
}
