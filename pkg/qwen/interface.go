package qwen

import "context"

// IQwen defines the interface for the Qwen (DashScope) API client.
// Implementations are safe for concurrent use.
type IQwen interface {
	// Complete sends a completion request to the Qwen API
	Complete(ctx context.Context, req *Request) (string, error)

	// Model returns the model being used
	Model() string
}

// New creates a new Qwen client with the given configuration
func New(cfg Config) (IQwen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newQwenImpl(cfg), nil
}
