package retrieval

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/rerank"
)

// newTestRetriever indexes the given texts as one document and returns a
// retriever over them.
func newTestRetriever(t *testing.T, reranker rerank.Reranker, texts ...string) *Retriever {
	t.Helper()
	dir := t.TempDir()
	emb := embedding.NewMockEmbedder(8)
	store := index.NewStore(
		filepath.Join(dir, "vectors.bin"),
		filepath.Join(dir, "metadata.msgpack"),
		emb,
		zap.NewNop(),
	)
	if len(texts) > 0 {
		chunks := make([]models.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = models.Chunk{DocID: "doc.txt", ChunkIndex: i, Text: text}
		}
		if _, err := store.Append(context.Background(), chunks); err != nil {
			t.Fatal(err)
		}
	}
	return New(store, emb, reranker, zap.NewNop())
}

func numberedTexts(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("passage number %d about topic %d", i, i)
	}
	return texts
}

func TestSearch_EmptyIndex(t *testing.T) {
	r := newTestRetriever(t, nil)
	_, err := r.Search(context.Background(), "anything", 4, false)
	if !errors.Is(err, index.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_DistanceOrder(t *testing.T) {
	r := newTestRetriever(t, nil, "alpha", "beta", "gamma", "delta")
	results, err := r.Search(context.Background(), "gamma", 4, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	// The query text matches one chunk exactly, so it must come first with
	// distance zero.
	if results[0].Text != "gamma" {
		t.Errorf("top result = %q, want gamma", results[0].Text)
	}
	if results[0].Distance != 0 {
		t.Errorf("top distance = %f, want 0", results[0].Distance)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("result %d out of order: %f < %f", i, results[i].Distance, results[i-1].Distance)
		}
	}
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	r := newTestRetriever(t, nil, "one", "two", "three")
	results, err := r.Search(context.Background(), "one", 10, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want all 3", len(results))
	}
}

func TestSearch_ExactTopK(t *testing.T) {
	r := newTestRetriever(t, nil, numberedTexts(9)...)
	results, err := r.Search(context.Background(), "passage number 4", 4, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want exactly 4", len(results))
	}
}

func TestSearch_RerankOverfetchesTriple(t *testing.T) {
	var poolSize int
	reranker := &rerank.MockReranker{
		ScoreFunc: func(query string, texts []string) []float64 {
			poolSize = len(texts)
			scores := make([]float64, len(texts))
			for i := range scores {
				scores[i] = float64(i)
			}
			return scores
		},
	}
	r := newTestRetriever(t, reranker, numberedTexts(13)...)

	results, err := r.Search(context.Background(), "passage number 1", 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if poolSize != 12 {
		t.Errorf("re-ranker saw %d candidates, want 3*top_k = 12", poolSize)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
}

func TestSearch_TenChunksTopFour(t *testing.T) {
	var poolSize int
	reranker := &rerank.MockReranker{
		ScoreFunc: func(query string, texts []string) []float64 {
			poolSize = len(texts)
			scores := make([]float64, len(texts))
			for i := range scores {
				scores[i] = float64(len(texts) - i)
			}
			return scores
		},
	}
	r := newTestRetriever(t, reranker, numberedTexts(10)...)

	results, err := r.Search(context.Background(), "passage number 2", 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if poolSize != 10 {
		t.Errorf("re-ranker saw %d candidates, want all 10", poolSize)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want exactly 4", len(results))
	}
}

func TestSearch_RerankReordersWithinPool(t *testing.T) {
	// Score candidates by reversed pool position so re-ranking inverts the
	// distance order.
	reranker := &rerank.MockReranker{
		ScoreFunc: func(query string, texts []string) []float64 {
			scores := make([]float64, len(texts))
			for i := range scores {
				scores[i] = float64(i)
			}
			return scores
		},
	}
	texts := numberedTexts(6)
	r := newTestRetriever(t, reranker, texts...)

	plain, err := r.Search(context.Background(), "passage number 0", 6, false)
	if err != nil {
		t.Fatal(err)
	}
	pool := make(map[string]bool, len(plain))
	for _, c := range plain {
		pool[c.ID] = true
	}

	reranked, err := r.Search(context.Background(), "passage number 0", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(reranked) != 2 {
		t.Fatalf("got %d results", len(reranked))
	}
	for _, c := range reranked {
		if !pool[c.ID] {
			t.Errorf("re-ranked result %q not in candidate pool", c.ID)
		}
	}
	if reranked[0].Score < reranked[1].Score {
		t.Error("re-ranked results not in descending score order")
	}
}

func TestSearch_RerankFailureKeepsDistanceOrder(t *testing.T) {
	reranker := &rerank.MockReranker{Err: errors.New("inference failed")}
	r := newTestRetriever(t, reranker, "alpha", "beta", "gamma")

	results, err := r.Search(context.Background(), "beta", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Text != "beta" {
		t.Errorf("top result = %q, want distance order preserved", results[0].Text)
	}
}

func TestSearch_RerankFlagWithoutModel(t *testing.T) {
	r := newTestRetriever(t, nil, numberedTexts(10)...)
	results, err := r.Search(context.Background(), "passage number 3", 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Error("results should keep distance order when no model is loaded")
		}
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	r := newTestRetriever(t, nil, numberedTexts(8)...)
	results, err := r.Search(context.Background(), "passage number 5", 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != models.DefaultTopK {
		t.Errorf("got %d results, want default %d", len(results), models.DefaultTopK)
	}
}
