// Package ingest runs the document ingestion pipeline: extract text, clean
// it, chunk it, and feed the chunks to the vector index, document registry,
// and keyword index.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/index"
	"github.com/hyperjump/kotae/internal/keyword"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/registry"
)

// Messages returned to callers about ingestion outcomes.
const (
	MsgNoReadableText = "File processed but contained no readable text."
	msgIndexedFmt     = "Successfully indexed %d chunks from %s."
)

// Service runs the ingestion pipeline. Registry and keyword index are
// optional; when nil the corresponding step is skipped.
type Service struct {
	extractor *extract.Extractor
	chunker   *Chunker
	store     *index.Store
	registry  *registry.Registry
	keyword   *keyword.Index
	logger    *zap.Logger
}

// NewService wires the pipeline over the given components.
func NewService(extractor *extract.Extractor, chunker *Chunker, store *index.Store, reg *registry.Registry, kw *keyword.Index, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		chunker:   chunker,
		store:     store,
		registry:  reg,
		keyword:   kw,
		logger:    logger,
	}
}

// IngestDocument extracts, cleans, chunks, and indexes one document. The
// document ID is its name; re-ingesting the same name appends new chunks
// (slots are never reclaimed) and updates the registry row. A document whose
// text cleans down to nothing is a zero-chunk success, not an error.
func (s *Service) IngestDocument(ctx context.Context, name string, content []byte, ext string) (*models.IngestResult, error) {
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return &models.IngestResult{DocumentID: name, ChunkCount: 0, Message: MsgNoReadableText}, nil
	}

	chunks := s.chunker.Chunk(name, cleaned)
	added, err := s.store.Append(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", name, err)
	}

	if s.keyword != nil {
		if err := s.keyword.IndexChunks(ctx, chunks); err != nil {
			// The vector index already holds the chunks; losing the lexical
			// copy degrades keyword search but not question answering.
			s.logger.Warn("keyword indexing failed", zap.String("document", name), zap.Error(err))
		}
	}

	if s.registry != nil {
		doc := &models.Document{
			ID:         name,
			Filename:   name,
			Extension:  ext,
			SizeBytes:  int64(len(content)),
			ChunkCount: added,
			IndexedAt:  time.Now(),
		}
		if err := s.registry.Save(ctx, doc); err != nil {
			s.logger.Warn("registry update failed", zap.String("document", name), zap.Error(err))
		}
	}

	s.logger.Info("document ingested",
		zap.String("document", name),
		zap.Int("chunks", added))
	return &models.IngestResult{
		DocumentID: name,
		ChunkCount: added,
		Message:    fmt.Sprintf(msgIndexedFmt, added, name),
	}, nil
}

// IngestFile ingests a single file from disk, using its base name as the
// document ID.
func (s *Service) IngestFile(ctx context.Context, path string) (*models.IngestResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.IngestDocument(ctx, filepath.Base(path), content, filepath.Ext(path))
}

// IngestDirectory walks dir and ingests every supported file. Per-file
// failures are collected in the report and do not abort the rest of the
// batch. The report is tagged with a run ID for traceability.
func (s *Service) IngestDirectory(ctx context.Context, dir string) (*models.IngestReport, error) {
	report := &models.IngestReport{RunID: uuid.New().String()}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !s.extractor.Supported(filepath.Ext(path)) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, ingestErr := s.IngestFile(ctx, path)
		if ingestErr != nil {
			s.logger.Warn("file ingestion failed",
				zap.String("run_id", report.RunID),
				zap.String("path", path),
				zap.Error(ingestErr))
			report.Failures = append(report.Failures, models.IngestFailure{
				Path:  path,
				Error: ingestErr.Error(),
			})
			return nil
		}
		report.Results = append(report.Results, res)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("walk %s: %w", dir, err)
	}

	s.logger.Info("directory ingested",
		zap.String("run_id", report.RunID),
		zap.String("dir", dir),
		zap.Int("documents", len(report.Results)),
		zap.Int("failures", len(report.Failures)),
		zap.Int("chunks", report.TotalChunks()))
	return report, nil
}
