package answer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// LocalGenerator talks to an OpenAI-compatible completion endpoint, such as
// a local inference server.
type LocalGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewLocalGenerator creates a generator against the given base URL (for
// example "http://localhost:11434/v1").
func NewLocalGenerator(endpoint, model string, maxTokens int) *LocalGenerator {
	cfg := openai.DefaultConfig("")
	cfg.BaseURL = endpoint
	return &LocalGenerator{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate runs a plain completion. Completion servers can echo the prompt
// at the start of the output, so the prompt prefix is stripped and only the
// continuation is returned.
func (g *LocalGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     g.model,
		Prompt:    prompt,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("local completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	text := strings.TrimPrefix(resp.Choices[0].Text, prompt)
	return strings.TrimSpace(text), nil
}

// Name identifies the backend for status reporting.
func (g *LocalGenerator) Name() string {
	return "local:" + g.model
}

// Close is a no-op.
func (g *LocalGenerator) Close() error {
	return nil
}
