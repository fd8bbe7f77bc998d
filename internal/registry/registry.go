// Package registry keeps a SQLite record of every ingested document so the
// service can report what the knowledge base contains. The vector index
// itself stores only chunks; this table is the document-level view.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotae/internal/models"
)

// Registry stores document records in SQLite.
type Registry struct {
	db *sql.DB
}

// Open opens or creates the registry database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func Open(dbPath string) (*Registry, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		extension TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		chunk_count INTEGER NOT NULL,
		indexed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_indexed_at ON documents(indexed_at);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Save inserts or replaces the record for a document. Re-ingesting a file
// updates its row; the chunk count reflects the latest ingestion run.
func (r *Registry) Save(ctx context.Context, doc *models.Document) error {
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, extension, size_bytes, chunk_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   filename = excluded.filename,
		   extension = excluded.extension,
		   size_bytes = excluded.size_bytes,
		   chunk_count = excluded.chunk_count,
		   indexed_at = excluded.indexed_at`,
		doc.ID, doc.Filename, doc.Extension, doc.SizeBytes, doc.ChunkCount, doc.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// Get returns a document record by ID, or nil when no record exists.
func (r *Registry) Get(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, extension, size_bytes, chunk_count, indexed_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.Extension, &doc.SizeBytes, &doc.ChunkCount, &doc.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &doc, nil
}

// List returns document records ordered by most recently indexed first.
func (r *Registry) List(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, extension, size_bytes, chunk_count, indexed_at
		 FROM documents ORDER BY indexed_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Extension, &doc.SizeBytes, &doc.ChunkCount, &doc.IndexedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// Count returns the number of registered documents.
func (r *Registry) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// ChunkTotal returns the sum of chunk counts across all documents.
func (r *Registry) ChunkTotal(ctx context.Context) (int64, error) {
	var n sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(chunk_count) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sum chunk counts: %w", err)
	}
	return n.Int64, nil
}

// Close closes the database.
func (r *Registry) Close() error {
	return r.db.Close()
}
