package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
)

func TestMockEmbedder_deterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	defer e.Close()
	ctx := context.Background()

	a, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d", i)
		}
	}

	other, _ := e.Embed(ctx, "different text")
	same := true
	for i := range a {
		if a[i] != other[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should embed differently")
	}
}

func TestMockEmbedder_unitNorm(t *testing.T) {
	e := NewMockEmbedder(16)
	v, err := e.Embed(context.Background(), "normalize me")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("norm² = %f, want 1", sum)
	}
}

func TestMockEmbedder_batchOrder(t *testing.T) {
	e := NewMockEmbedder(4)
	ctx := context.Background()
	texts := []string{"first", "second", "third"}

	batch, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 3 {
		t.Fatalf("batch size = %d, want 3", len(batch))
	}
	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch[%d] does not match single embedding of %q", i, text)
			}
		}
	}
}

func TestUnavailableEmbedder(t *testing.T) {
	e := NewUnavailable("nothing configured")
	_, err := e.Embed(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Embed error = %v, want ErrUnavailable", err)
	}
	_, err = e.EmbedBatch(context.Background(), []string{"x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("EmbedBatch error = %v, want ErrUnavailable", err)
	}
	if e.Dimensions() != 0 {
		t.Error("unavailable embedder has no dimension")
	}
}

func TestNewFromConfig_unavailableWhenNothingWorks(t *testing.T) {
	cfg := &config.EmbeddingConfig{
		UseRemote:      false,
		LocalModelPath: "/nonexistent/model.onnx",
		Dimensions:     384,
		MaxTokens:      32,
		CacheSize:      10,
	}
	e := NewFromConfig(context.Background(), cfg, "", zap.NewNop())
	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable with no usable backend, got %v", err)
	}
}

func TestNewFromConfig_remoteWithoutKeyFallsThrough(t *testing.T) {
	cfg := &config.EmbeddingConfig{
		UseRemote:      true,
		LocalModelPath: "/nonexistent/model.onnx",
		Dimensions:     384,
		MaxTokens:      32,
		CacheSize:      10,
	}
	e := NewFromConfig(context.Background(), cfg, "", zap.NewNop())
	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("remote without credential and no local model must be unavailable, got %v", err)
	}
}
