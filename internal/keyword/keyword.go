// Package keyword provides a lexical (BM25) chunk index as a supplement to
// vector retrieval, with spell suggestions for queries that miss.
package keyword

// Hit is a single keyword search result.
type Hit struct {
	ChunkID string  `json:"chunk_id"`
	DocID   string  `json:"doc_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// TermDictionary exposes the indexed vocabulary for spell checking.
type TermDictionary interface {
	// Terms returns all unique terms in the index.
	Terms() ([]string, error)
	// TermFrequency returns the number of chunks containing the term.
	TermFrequency(term string) (int, error)
}
