package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	contextSeparator = "\n\n---\n\n"
	promptTemplate   = "Context: %s\n\nQuestion: %s\n\nAnswer in a clear and concise way."
)

// Composer builds the generation prompt from retrieved chunks and the
// question, and asks the generator for an answer.
type Composer struct {
	generator Generator
	logger    *zap.Logger
}

// NewComposer creates a composer over the given generator.
func NewComposer(generator Generator, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{generator: generator, logger: logger}
}

// BuildPrompt joins the context chunks with a separator and embeds them with
// the question in the generation template.
func (c *Composer) BuildPrompt(question string, contextChunks []string) string {
	contextText := strings.Join(contextChunks, contextSeparator)
	return fmt.Sprintf(promptTemplate, contextText, question)
}

// Compose generates an answer for the question grounded in the given chunks.
// ErrGenerationUnavailable propagates unchanged so callers can degrade to a
// placeholder answer.
func (c *Composer) Compose(ctx context.Context, question string, contextChunks []string) (string, error) {
	prompt := c.BuildPrompt(question, contextChunks)
	c.logger.Debug("generating answer",
		zap.Int("context_chunks", len(contextChunks)),
		zap.Int("prompt_len", len(prompt)))

	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", err)
	}
	return text, nil
}
