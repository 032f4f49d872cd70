package driven

import "context"

// LLMService generates answer text from a rendered prompt.
type LLMService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable and properly configured.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation.
// Zero values leave the provider default in place.
type GenerateOptions struct {
	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls randomness (0.0-1.0).
	Temperature float64

	// TopK limits sampling to the k most likely tokens.
	TopK int

	// TopP is the nucleus sampling threshold.
	TopP float64

	// RepetitionPenalty discourages repeated tokens. Providers without an
	// equivalent ignore it.
	RepetitionPenalty float64

	// StopWords halt generation when encountered.
	StopWords []string
}
