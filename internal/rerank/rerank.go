// Package rerank scores query/passage pairs with a cross-encoder model so
// retrieval candidates can be reordered by relevance rather than raw vector
// distance.
package rerank

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
)

// Reranker scores candidate texts against a query. Higher scores mean more
// relevant.
type Reranker interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
	Name() string
	Close() error
}

// NewFromConfig loads the cross-encoder named in the configuration. It
// returns nil when re-ranking is disabled or the model cannot be loaded;
// callers treat a nil Reranker as "keep distance order".
func NewFromConfig(cfg *config.RerankConfig, logger *zap.Logger) Reranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.EnabledOrDefault() {
		logger.Info("re-ranking disabled by configuration")
		return nil
	}
	if cfg.ModelPath == "" {
		logger.Info("no re-ranking model configured")
		return nil
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		logger.Warn("re-ranking model not found, queries fall back to distance order",
			zap.String("model_path", cfg.ModelPath))
		return nil
	}
	ce, err := NewCrossEncoder(cfg.ModelPath, cfg.MaxTokens)
	if err != nil {
		logger.Warn("re-ranking model failed to load, queries fall back to distance order",
			zap.String("model_path", cfg.ModelPath),
			zap.Error(err))
		return nil
	}
	logger.Info("re-ranking model loaded", zap.String("model_path", cfg.ModelPath))
	return ce
}
