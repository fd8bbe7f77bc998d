// Package models defines core data structures for chunks, documents, and queries.
package models

import "fmt"

// Chunk is a bounded window of a document's text, the unit of indexing and retrieval.
// Chunks are immutable once created.
type Chunk struct {
	DocID      string `json:"doc_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// ID returns the stable chunk identifier "{doc_id}_chunk_{index}".
// It is informational (used for source traceability), not an index key.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_chunk_%d", c.DocID, c.ChunkIndex)
}

// ScoredChunk is a retrieved chunk with its ranking signals.
// Distance is the embedding-space distance to the query (lower is better);
// Score is the re-ranker relevance score (higher is better), zero when re-ranking was not applied.
type ScoredChunk struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
	Score    float64 `json:"score,omitempty"`
}
