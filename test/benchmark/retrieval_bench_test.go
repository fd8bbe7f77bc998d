package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/keyword"
)

func BenchmarkFlatIndexSearch(b *testing.B) {
	idx, err := index.NewFlatIndex(384)
	if err != nil {
		b.Fatal(err)
	}
	vecs := make([][]float32, 1000)
	for i := range vecs {
		vecs[i] = make([]float32, 384)
		vecs[i][0] = float32(i) / 1000
	}
	if err := idx.Add(vecs); err != nil {
		b.Fatal(err)
	}
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(query, 10)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}

func BenchmarkChunker_LongDocument(b *testing.B) {
	c := ingest.NewChunker(800, 100)
	text := ""
	for i := 0; i < 5000; i++ {
		text += fmt.Sprintf("word%d ", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Chunk("bench-doc", text)
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = keyword.LevenshteinDistance("orchestration", "orcestration")
	}
}
