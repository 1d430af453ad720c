package llmprovider

import (
	"context"

	"agenda-assistant/pkg/deepseek"
	"agenda-assistant/pkg/gemini"
	"agenda-assistant/pkg/qwen"
)

// GeminiAdapter adapts the Gemini client to the Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter wraps a Gemini client
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	text, err := a.client.Complete(ctx, &gemini.Request{
		SystemPrompt: req.SystemPrompt,
		UserText:     req.UserText,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		TopP:         req.TopP,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Text: text}, nil
}

func (a *GeminiAdapter) Name() string  { return "gemini" }
func (a *GeminiAdapter) Model() string { return a.client.Model() }

// DeepSeekAdapter adapts the DeepSeek client to the Provider interface
type DeepSeekAdapter struct {
	client *deepseek.Client
}

// NewDeepSeekAdapter wraps a DeepSeek client
func NewDeepSeekAdapter(client *deepseek.Client) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

func (a *DeepSeekAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	text, err := a.client.Complete(ctx, &deepseek.Request{
		SystemPrompt: req.SystemPrompt,
		UserText:     req.UserText,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		TopP:         req.TopP,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Text: text}, nil
}

func (a *DeepSeekAdapter) Name() string  { return "deepseek" }
func (a *DeepSeekAdapter) Model() string { return a.client.Model() }

// QwenAdapter adapts the Qwen client to the Provider interface
type QwenAdapter struct {
	client qwen.IQwen
}

// NewQwenAdapter wraps a Qwen client
func NewQwenAdapter(client qwen.IQwen) *QwenAdapter {
	return &QwenAdapter{client: client}
}

func (a *QwenAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	text, err := a.client.Complete(ctx, &qwen.Request{
		SystemPrompt: req.SystemPrompt,
		UserText:     req.UserText,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		TopP:         req.TopP,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Text: text}, nil
}

func (a *QwenAdapter) Name() string  { return "qwen" }
func (a *QwenAdapter) Model() string { return a.client.Model() }
