package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// Complete sends a completion request and returns the raw model text
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "qwen", "gemini")
	Name() string

	// Model returns the model being used
	Model() string
}

// Request represents a normalized LLM completion request
type Request struct {
	SystemPrompt string
	UserText     string
	Temperature  float64
	MaxTokens    int
	TopP         float64
}

// Response represents a normalized LLM completion response
type Response struct {
	Text         string
	ProviderName string
	ModelName    string
}
