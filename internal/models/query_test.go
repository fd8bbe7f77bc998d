package models

import "testing"

func TestQueryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     QueryRequest
		wantErr bool
		wantK   int
	}{
		{"empty question", QueryRequest{}, true, 0},
		{"defaults applied", QueryRequest{Question: "what is kotae?"}, false, 4},
		{"explicit top_k kept", QueryRequest{Question: "q", TopK: 9}, false, 9},
		{"negative top_k rejected", QueryRequest{Question: "q", TopK: -1}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.req.TopK != tt.wantK {
				t.Errorf("TopK = %d, want %d", tt.req.TopK, tt.wantK)
			}
		})
	}
}

func TestQueryRequestRerank(t *testing.T) {
	var req QueryRequest
	if !req.Rerank() {
		t.Error("unset use_reranking must default to true")
	}
	f := false
	req.UseReranking = &f
	if req.Rerank() {
		t.Error("explicit false must disable re-ranking")
	}
}

func TestChunkID(t *testing.T) {
	c := Chunk{DocID: "notes.txt", ChunkIndex: 2, Text: "..."}
	if got := c.ID(); got != "notes.txt_chunk_2" {
		t.Errorf("ID() = %q", got)
	}
}
