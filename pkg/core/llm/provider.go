// Package llm abstracts the chat-completion providers used for narrative
// generation. Providers are stateless; API keys come from the environment.
package llm

import (
	"context"
	"fmt"
)

// Request is one completion request. JSONMode asks the provider to return a
// single JSON object; callers still repair and validate the payload.
type Request struct {
	System      string
	Prompt      string
	Model       string
	JSONMode    bool
	Temperature float64
	MaxTokens   int
}

// Provider generates a completion for a request.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// New returns the provider registered under name.
func New(name string) (Provider, error) {
	switch name {
	case "gemini", "":
		return &GeminiProvider{}, nil
	case "deepseek":
		return &DeepSeekProvider{}, nil
	case "qwen":
		return &QwenProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", name)
	}
}
