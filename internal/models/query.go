package models

import "errors"

// DefaultTopK is the number of chunks returned when a query does not set top_k.
const DefaultTopK = 4

// QueryRequest is a question against the knowledge base.
// UseReranking is a pointer so an absent field defaults to true rather than false.
type QueryRequest struct {
	Question     string `json:"question"`
	TopK         int    `json:"top_k,omitempty"`
	UseReranking *bool  `json:"use_reranking,omitempty"`
}

// Validate checks the request and fills defaults (top_k=4, use_reranking=true).
func (q *QueryRequest) Validate() error {
	if q.Question == "" {
		return errors.New("question cannot be empty")
	}
	if q.TopK < 0 {
		return errors.New("top_k cannot be negative")
	}
	if q.TopK == 0 {
		q.TopK = DefaultTopK
	}
	return nil
}

// Rerank reports whether re-ranking was requested; unset means true.
func (q *QueryRequest) Rerank() bool {
	return q.UseReranking == nil || *q.UseReranking
}

// QueryResponse is the answer produced for a question together with the
// context passages it was grounded on, most relevant first.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
