package index

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

var (
	// ErrIndexNotFound means no index has been persisted yet. Callers treat
	// this as the empty knowledge base, not as a failure.
	ErrIndexNotFound = errors.New("index not found")

	// ErrMetadataCorrupt means the persisted state failed to decode or the
	// metadata length disagrees with the vector count.
	ErrMetadataCorrupt = errors.New("corrupt index metadata")
)

// State is the full persisted index: the vector index and its slot-aligned
// metadata table. Every operation works on a fresh copy loaded from disk.
type State struct {
	Index *FlatIndex
	Meta  *Metadata
}

// Store owns the two index files and serializes writes to them. Reads load a
// private copy of the state, so concurrent readers never share mutable data.
type Store struct {
	vectorPath   string
	metadataPath string
	embedder     embedding.Embedder
	logger       *zap.Logger

	mu sync.RWMutex
}

// NewStore creates a store over the given file pair.
func NewStore(vectorPath, metadataPath string, embedder embedding.Embedder, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		vectorPath:   vectorPath,
		metadataPath: metadataPath,
		embedder:     embedder,
		logger:       logger,
	}
}

// Load reads the persisted state. It returns ErrIndexNotFound when either
// file is absent and ErrMetadataCorrupt when the pair cannot be decoded or
// disagrees in length.
func (s *Store) Load() (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readState()
}

// Append embeds the chunks as one batch and adds them to the persisted
// index, creating it if this is the first ingestion. Corrupt existing state
// is discarded with a warning and the index is rebuilt from this batch
// alone. Returns the number of chunks added.
func (s *Store) Append(ctx context.Context, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.readState()
	switch {
	case err == nil:
	case errors.Is(err, ErrIndexNotFound):
		if fileExists(s.vectorPath) || fileExists(s.metadataPath) {
			s.logger.Warn("incomplete index state on disk, rebuilding from current batch",
				zap.String("vector_path", s.vectorPath),
				zap.String("metadata_path", s.metadataPath))
		}
		state, err = newState(len(vectors[0]))
		if err != nil {
			return 0, err
		}
	case errors.Is(err, ErrMetadataCorrupt):
		s.logger.Warn("discarding corrupt index state, rebuilding from current batch",
			zap.Error(err))
		state, err = newState(len(vectors[0]))
		if err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	if err := state.Index.Add(vectors); err != nil {
		return 0, err
	}
	for _, c := range chunks {
		state.Meta.Append(c.ID(), c.Text)
	}

	if err := s.writeState(state); err != nil {
		return 0, err
	}
	s.logger.Debug("appended to index",
		zap.Int("chunks", len(chunks)),
		zap.Int("total", state.Index.Count()))
	return len(chunks), nil
}

// Count returns the number of indexed chunks, or 0 when no index exists yet.
func (s *Store) Count() (int, error) {
	state, err := s.Load()
	if errors.Is(err, ErrIndexNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.Index.Count(), nil
}

// VectorPath returns the vector index file location.
func (s *Store) VectorPath() string {
	return s.vectorPath
}

// MetadataPath returns the metadata file location.
func (s *Store) MetadataPath() string {
	return s.metadataPath
}

// DiskUsageBytes returns the combined on-disk size of both index files.
func (s *Store) DiskUsageBytes() int64 {
	n, err := utils.DiskUsageBytes(s.vectorPath, s.metadataPath)
	if err != nil {
		return 0
	}
	return n
}

func newState(dims int) (*State, error) {
	ix, err := NewFlatIndex(dims)
	if err != nil {
		return nil, err
	}
	return &State{Index: ix, Meta: NewMetadata()}, nil
}

// readState loads and cross-checks both files. Callers hold at least the
// read lock.
func (s *Store) readState() (*State, error) {
	vf, err := os.Open(s.vectorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("open vector index: %w", err)
	}
	defer vf.Close()

	mf, err := os.Open(s.metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer mf.Close()

	ix, err := ReadFlatIndex(bufio.NewReader(vf))
	if err != nil {
		return nil, fmt.Errorf("%w: vector index: %v", ErrMetadataCorrupt, err)
	}
	meta, err := ReadMetadata(bufio.NewReader(mf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataCorrupt, err)
	}
	if meta.Len() != ix.Count() {
		return nil, fmt.Errorf("%w: metadata has %d entries, index has %d vectors",
			ErrMetadataCorrupt, meta.Len(), ix.Count())
	}
	return &State{Index: ix, Meta: meta}, nil
}

// writeState persists the vector index first and the metadata second, each
// through a temp file rename, so a crash never leaves metadata entries
// without their vectors.
func (s *Store) writeState(state *State) error {
	if err := writeAtomic(s.vectorPath, state.Index.Encode); err != nil {
		return fmt.Errorf("persist vector index: %w", err)
	}
	if err := writeAtomic(s.metadataPath, state.Meta.Encode); err != nil {
		return fmt.Errorf("persist metadata: %w", err)
	}
	return nil
}

func writeAtomic(path string, encode func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	bw := bufio.NewWriter(tmp)
	if err := encode(bw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
