// Package answer composes retrieved context chunks and a question into a
// prompt and delegates to a text-generation backend, remote or local.
package answer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
)

// ErrGenerationUnavailable means no generation backend is configured or
// usable. Callers degrade to a placeholder answer rather than failing the
// whole query.
var ErrGenerationUnavailable = errors.New("no generation backend available")

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
	Close() error
}

// NewGeneratorFromConfig selects the generation backend: remote when
// configured with a credential, otherwise the local OpenAI-compatible
// endpoint, otherwise a generator that always reports unavailability.
func NewGeneratorFromConfig(ctx context.Context, cfg *config.GenerationConfig, apiKey string, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UseRemote && apiKey != "" {
		g, err := NewGeminiGenerator(ctx, apiKey, cfg.RemoteModel)
		if err == nil {
			logger.Info("using remote generation backend", zap.String("model", cfg.RemoteModel))
			return g
		}
		logger.Warn("remote generation backend failed to initialize", zap.Error(err))
	}
	if cfg.LocalEndpoint != "" && cfg.LocalModel != "" {
		logger.Info("using local generation backend",
			zap.String("endpoint", cfg.LocalEndpoint),
			zap.String("model", cfg.LocalModel))
		return NewLocalGenerator(cfg.LocalEndpoint, cfg.LocalModel, cfg.MaxTokens)
	}
	logger.Warn("no generation backend configured, answers degrade to a placeholder")
	return NewUnavailable("neither remote credential nor local model configured")
}

// NewUnavailable returns a generator whose calls always fail with
// ErrGenerationUnavailable.
func NewUnavailable(reason string) Generator {
	return &unavailableGenerator{reason: reason}
}

type unavailableGenerator struct {
	reason string
}

func (u *unavailableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrGenerationUnavailable, u.reason)
}

func (u *unavailableGenerator) Name() string {
	return "unavailable"
}

func (u *unavailableGenerator) Close() error {
	return nil
}
