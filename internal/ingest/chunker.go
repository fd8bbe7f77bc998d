package ingest

import (
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// Chunker splits cleaned text into fixed-size overlapping word windows.
// Chunking is deterministic: the same text and parameters always produce the
// same chunk sequence, and every word is covered by at least one chunk.
type Chunker struct {
	window  int
	overlap int
}

// NewChunker creates a chunker with the given window and overlap, in words.
// Overlap must be strictly less than window for forward progress; a violating
// overlap is clamped so the step is at least one word.
func NewChunker(window, overlap int) *Chunker {
	if window <= 0 {
		window = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{window: window, overlap: overlap}
}

// Chunk splits text into chunks for docID, with ChunkIndex counting from 0.
func (c *Chunker) Chunk(docID, text string) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.window - c.overlap
	if step < 1 {
		step = 1
	}

	chunks := make([]models.Chunk, 0, (len(words)+step-1)/step)
	for start := 0; start < len(words); start += step {
		end := start + c.window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, models.Chunk{
			DocID:      docID,
			ChunkIndex: len(chunks),
			Text:       strings.Join(words[start:end], " "),
		})
		if end >= len(words) {
			break
		}
	}
	return chunks
}
