package rerank

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func TestNewFromConfig_disabled(t *testing.T) {
	cfg := &config.RerankConfig{
		Enabled:   boolPtr(false),
		ModelPath: "/some/model.onnx",
		MaxTokens: 256,
	}
	if r := NewFromConfig(cfg, zap.NewNop()); r != nil {
		t.Errorf("disabled config should yield nil reranker, got %v", r.Name())
	}
}

func TestNewFromConfig_noModelPath(t *testing.T) {
	cfg := &config.RerankConfig{MaxTokens: 256}
	if r := NewFromConfig(cfg, zap.NewNop()); r != nil {
		t.Errorf("empty model path should yield nil reranker, got %v", r.Name())
	}
}

func TestNewFromConfig_missingModelFile(t *testing.T) {
	cfg := &config.RerankConfig{
		ModelPath: "/nonexistent/ms-marco.onnx",
		MaxTokens: 256,
	}
	if r := NewFromConfig(cfg, zap.NewNop()); r != nil {
		t.Errorf("missing model file should yield nil reranker, got %v", r.Name())
	}
}

func TestMockReranker_wordOverlap(t *testing.T) {
	m := &MockReranker{}
	scores, err := m.Score(context.Background(), "go concurrency", []string{
		"channels are the core of go concurrency",
		"python threading notes",
		"go modules explained",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores", len(scores))
	}
	if scores[0] != 2 {
		t.Errorf("scores[0] = %f, want 2", scores[0])
	}
	if scores[1] != 0 {
		t.Errorf("scores[1] = %f, want 0", scores[1])
	}
	if scores[2] != 1 {
		t.Errorf("scores[2] = %f, want 1", scores[2])
	}
}

func TestMockReranker_scoreFunc(t *testing.T) {
	m := &MockReranker{
		ScoreFunc: func(query string, texts []string) []float64 {
			out := make([]float64, len(texts))
			for i := range texts {
				out[i] = float64(len(texts) - i)
			}
			return out
		},
	}
	scores, err := m.Score(context.Background(), "q", []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if scores[0] != 3 || scores[2] != 1 {
		t.Errorf("unexpected scores: %v", scores)
	}
}

func TestMockReranker_err(t *testing.T) {
	wantErr := errors.New("model exploded")
	m := &MockReranker{Err: wantErr}
	if _, err := m.Score(context.Background(), "q", []string{"a"}); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
}
