package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/kotae/internal/models"
)

// chunkDoc is the shape indexed per chunk.
type chunkDoc struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

// Index is a bleve full-text index keyed by chunk ID.
type Index struct {
	index bleve.Index
}

// Open creates or opens a bleve index at path. An existing index is reused so
// chunks indexed by earlier runs stay searchable. The standard analyzer
// (lowercase + tokenize, no stemming) keeps query terms matching the exact
// indexed words.
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		ix, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open keyword index: %w", openErr)
		}
		return &Index{index: ix}, nil
	}

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	chunkMapping := bleve.NewDocumentMapping()
	chunkMapping.AddFieldMappingsAt("text", textField)
	chunkMapping.AddFieldMappingsAt("doc_id", bleve.NewKeywordFieldMapping())

	im := bleve.NewIndexMapping()
	im.DefaultMapping = chunkMapping

	ix, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}
	return &Index{index: ix}, nil
}

// IndexChunks adds chunks as one batch, keyed by their chunk IDs.
func (b *Index) IndexChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	batch := b.index.NewBatch()
	for _, c := range chunks {
		if err := batch.Index(c.ID(), chunkDoc{DocID: c.DocID, Text: c.Text}); err != nil {
			return fmt.Errorf("batch chunk %s: %w", c.ID(), err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("index %d chunks: %w", len(chunks), err)
	}
	return nil
}

// Search runs a match query over chunk text and returns up to limit hits,
// highest score first, with stored fields resolved.
func (b *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	q.SetField("text")
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"doc_id", "text"}

	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		h := Hit{ChunkID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["doc_id"].(string); ok {
			h.DocID = v
		}
		if v, ok := hit.Fields["text"].(string); ok {
			h.Text = v
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Count returns the number of indexed chunks.
func (b *Index) Count() (uint64, error) {
	return b.index.DocCount()
}

// Terms returns all unique terms in the text field dictionary.
func (b *Index) Terms() ([]string, error) {
	dict, err := b.index.FieldDict("text")
	if err != nil {
		return nil, fmt.Errorf("field dictionary: %w", err)
	}
	defer dict.Close()

	terms := make([]string, 0)
	for {
		entry, err := dict.Next()
		if err != nil || entry == nil {
			break
		}
		terms = append(terms, entry.Term)
	}
	return terms, nil
}

// TermFrequency returns the number of chunks containing the term.
func (b *Index) TermFrequency(term string) (int, error) {
	q := bleve.NewTermQuery(term)
	q.SetField("text")
	req := bleve.NewSearchRequest(q)
	req.Size = 0
	results, err := b.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("term frequency: %w", err)
	}
	return int(results.Total), nil
}

// Close closes the underlying index.
func (b *Index) Close() error {
	return b.index.Close()
}
