package keyword

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "keyword.bleve"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func testChunks() []models.Chunk {
	return []models.Chunk{
		{DocID: "ml.txt", ChunkIndex: 0, Text: "machine learning models require training data"},
		{DocID: "ml.txt", ChunkIndex: 1, Text: "gradient descent optimizes the loss function"},
		{DocID: "cooking.txt", ChunkIndex: 0, Text: "slow cooking brings out flavor in vegetables"},
	}
}

func TestIndex_SearchFindsMatchingChunk(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	if err := ix.IndexChunks(ctx, testChunks()); err != nil {
		t.Fatalf("IndexChunks: %v", err)
	}

	hits, err := ix.Search(ctx, "gradient descent", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("no hits for indexed term")
	}
	if hits[0].ChunkID != "ml.txt_chunk_1" {
		t.Errorf("top hit %q, want ml.txt_chunk_1", hits[0].ChunkID)
	}
	if hits[0].DocID != "ml.txt" {
		t.Errorf("doc_id %q, want ml.txt", hits[0].DocID)
	}
	if hits[0].Text == "" {
		t.Error("stored chunk text missing from hit")
	}
}

func TestIndex_SearchLimit(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	chunks := make([]models.Chunk, 5)
	for i := range chunks {
		chunks[i] = models.Chunk{DocID: "d.txt", ChunkIndex: i, Text: "repeated term everywhere"}
	}
	if err := ix.IndexChunks(ctx, chunks); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search(ctx, "repeated", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("len=%d, want 2", len(hits))
	}
}

func TestIndex_Count(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	n, err := ix.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("empty count=%d", n)
	}

	if err := ix.IndexChunks(ctx, testChunks()); err != nil {
		t.Fatal(err)
	}
	n, err = ix.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count=%d, want 3", n)
	}
}

func TestIndex_EmptyBatchNoop(t *testing.T) {
	ix := openTestIndex(t)
	if err := ix.IndexChunks(context.Background(), nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestIndex_TermsAndFrequency(t *testing.T) {
	ix := openTestIndex(t)
	ctx := context.Background()

	if err := ix.IndexChunks(ctx, testChunks()); err != nil {
		t.Fatal(err)
	}

	terms, err := ix.Terms()
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}
	found := false
	for _, term := range terms {
		if term == "gradient" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("dictionary missing indexed term: %v", terms)
	}

	freq, err := ix.TermFrequency("cooking")
	if err != nil {
		t.Fatal(err)
	}
	if freq != 1 {
		t.Errorf("freq=%d, want 1", freq)
	}
}

func TestIndex_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyword.bleve")
	ctx := context.Background()

	ix, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ix.IndexChunks(ctx, testChunks()); err != nil {
		t.Fatal(err)
	}
	if err := ix.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	n, err := reopened.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count after reopen=%d, want 3", n)
	}
}
