package models

import "time"

// Document records an ingested source file. The ID is the uploaded filename,
// which is also the doc_id prefix of every chunk produced from it.
type Document struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	Extension  string    `json:"extension" db:"extension"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	ChunkCount int       `json:"chunk_count" db:"chunk_count"`
	IndexedAt  time.Time `json:"indexed_at" db:"indexed_at"`
}

// IngestResult describes the outcome of ingesting a single document.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message"`
}

// IngestFailure records a document that could not be ingested during a batch run.
type IngestFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// IngestReport summarizes a batch ingestion run over a directory.
// Failures do not abort the batch; they are collected per document.
type IngestReport struct {
	RunID    string          `json:"run_id"`
	Results  []*IngestResult `json:"results"`
	Failures []IngestFailure `json:"failures,omitempty"`
}

// TotalChunks returns the number of chunks indexed across the run.
func (r *IngestReport) TotalChunks() int {
	var n int
	for _, res := range r.Results {
		n += res.ChunkCount
	}
	return n
}
