// Package retrieval turns a question into ranked context chunks: it embeds
// the question, searches the vector index, and optionally re-ranks the
// candidates with a cross-encoder.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/rerank"
)

// Retriever answers similarity searches against the index store. The
// reranker may be nil, in which case results keep their distance order.
type Retriever struct {
	store    *index.Store
	embedder embedding.Embedder
	reranker rerank.Reranker
	logger   *zap.Logger
}

// New creates a retriever over the given store and embedder.
func New(store *index.Store, embedder embedding.Embedder, reranker rerank.Reranker, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		store:    store,
		embedder: embedder,
		reranker: reranker,
		logger:   logger,
	}
}

// Search returns up to topK chunks for the question, most relevant first.
// When useReranking is set, three times topK candidates are fetched so the
// re-ranker has a real pool to choose from; without the over-fetch it could
// only reorder an already-narrow set. Index absence propagates as
// index.ErrIndexNotFound.
func (r *Retriever) Search(ctx context.Context, question string, topK int, useReranking bool) ([]models.ScoredChunk, error) {
	if topK <= 0 {
		topK = models.DefaultTopK
	}

	state, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	queryVec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	initialK := topK
	if useReranking {
		initialK = topK * 3
	}

	hits, err := state.Index.Search(queryVec, initialK)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		// Slots beyond the metadata range mean the pair skewed on disk;
		// skip the hit rather than crash.
		if hit.Slot < 0 || hit.Slot >= state.Meta.Len() {
			r.logger.Warn("search hit outside metadata range",
				zap.Int("slot", hit.Slot),
				zap.Int("metadata_len", state.Meta.Len()))
			continue
		}
		entry := state.Meta.Docs[hit.Slot]
		candidates = append(candidates, models.ScoredChunk{
			ID:       entry.ID,
			Text:     entry.Text,
			Distance: hit.Distance,
		})
	}

	if useReranking && r.reranker != nil && len(candidates) > 0 {
		reranked, err := r.rerankCandidates(ctx, question, candidates)
		if err != nil {
			r.logger.Warn("re-ranking failed, keeping distance order", zap.Error(err))
		} else {
			candidates = reranked
		}
	}

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

func (r *Retriever) rerankCandidates(ctx context.Context, question string, candidates []models.ScoredChunk) ([]models.ScoredChunk, error) {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	scores, err := r.reranker.Score(ctx, question, texts)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("reranker returned %d scores for %d candidates", len(scores), len(candidates))
	}

	out := make([]models.ScoredChunk, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score = scores[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
