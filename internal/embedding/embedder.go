// Package embedding provides text embedding via a remote Gemini backend or a
// local ONNX model, with caching and deterministic mocks for tests.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
)

// ErrUnavailable is returned when no embedding backend is configured or loadable.
// It is fatal for the current call and must be reported to the caller, not retried.
var ErrUnavailable = errors.New("no embedding backend available")

// Embedder produces vector embeddings for text. Implementations return one
// vector per input text, order-preserving, with a fixed dimension per backend.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
	Close() error
}

// NewFromConfig constructs the embedding backend selected by cfg. Selection
// mirrors the service contract: remote when use_remote is set and a credential
// is present, otherwise the local ONNX model, otherwise an unavailable
// embedder whose calls fail with ErrUnavailable. The service still starts in
// the unavailable case; the condition surfaces per call.
func NewFromConfig(ctx context.Context, cfg *config.EmbeddingConfig, apiKey string, logger *zap.Logger) Embedder {
	if cfg.UseRemote && apiKey != "" {
		emb, err := NewGeminiEmbedder(ctx, apiKey, cfg.RemoteModel, cfg.CacheSize)
		if err != nil {
			logger.Warn("remote embedding backend failed to initialize, trying local model",
				zap.String("model", cfg.RemoteModel), zap.Error(err))
		} else {
			logger.Info("using remote embedding backend", zap.String("model", cfg.RemoteModel))
			return emb
		}
	} else if cfg.UseRemote {
		logger.Warn("remote embedding requested but no Gemini API key is set, trying local model")
	}

	emb, err := NewONNXEmbedder(cfg.LocalModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	if err != nil {
		logger.Warn("local embedding backend failed to initialize",
			zap.String("model_path", cfg.LocalModelPath), zap.Error(err))
		return NewUnavailable("neither remote nor local embedding backend could be initialized")
	}
	logger.Info("using local embedding backend",
		zap.String("model_path", cfg.LocalModelPath), zap.Int("dimensions", cfg.Dimensions))
	return emb
}

// NewUnavailable returns an Embedder whose every call fails with ErrUnavailable.
func NewUnavailable(reason string) Embedder {
	return &unavailableEmbedder{reason: reason}
}

type unavailableEmbedder struct {
	reason string
}

func (u *unavailableEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, u.reason)
}

func (u *unavailableEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnavailable, u.reason)
}

func (u *unavailableEmbedder) Dimensions() int { return 0 }

func (u *unavailableEmbedder) Name() string { return "unavailable" }

func (u *unavailableEmbedder) Close() error { return nil }
