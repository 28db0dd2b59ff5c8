package driven

import "context"

// LLMService is the generation backend. It receives a system
// instruction and the user prompt containing the assembled context;
// it never sees chunks that failed the similarity threshold.
type LLMService interface {
	// Generate produces a completion for the given system and user
	// messages. Temperature is caller-specified; Scribe keeps it low
	// for factual determinism.
	Generate(ctx context.Context, system, user string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight request.
	Ping(ctx context.Context) error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
