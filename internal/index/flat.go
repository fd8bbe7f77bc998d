// Package index stores chunk embeddings in a flat vector index with a
// slot-aligned metadata table, persisted as a pair of files.
package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hyperjump/kotae/pkg/utils"
)

// FlatIndex is an exact nearest-neighbor index over fixed-dimension vectors
// using brute-force squared L2 distance. Slots are assigned in insertion
// order and never reused. It is not safe for concurrent mutation; the Store
// serializes access.
type FlatIndex struct {
	dims    int
	vectors [][]float32
}

// Result is a single search hit: the slot of the matching vector and its
// squared L2 distance from the query.
type Result struct {
	Slot     int
	Distance float64
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dims int) (*FlatIndex, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dims)
	}
	return &FlatIndex{
		dims:    dims,
		vectors: make([][]float32, 0),
	}, nil
}

// Dimensions returns the vector dimension the index was created with.
func (ix *FlatIndex) Dimensions() int {
	return ix.dims
}

// Count returns the number of vectors in the index.
func (ix *FlatIndex) Count() int {
	return len(ix.vectors)
}

// Add appends vectors in order. Slot numbers continue from the current count.
func (ix *FlatIndex) Add(vectors [][]float32) error {
	for i, vec := range vectors {
		if len(vec) != ix.dims {
			return fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(vec), ix.dims)
		}
	}
	for _, vec := range vectors {
		cp := make([]float32, ix.dims)
		copy(cp, vec)
		ix.vectors = append(ix.vectors, cp)
	}
	return nil
}

// Search returns up to k slots ordered by ascending squared L2 distance from
// the query. Ties are broken by lower slot so results are deterministic.
func (ix *FlatIndex) Search(query []float32, k int) ([]Result, error) {
	if len(query) != ix.dims {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), ix.dims)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return nil, nil
	}
	results := make([]Result, len(ix.vectors))
	for slot, vec := range ix.vectors {
		results[slot] = Result{Slot: slot, Distance: utils.SquaredL2(query, vec)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Slot < results[j].Slot
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Encode writes the index in its binary form: dimension (uint32), count
// (uint32), then count vectors of dimension float32 values, all little
// endian. Slot order is implicit in the vector order.
func (ix *FlatIndex) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(ix.dims)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ix.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, vec := range ix.vectors {
		if _, err := w.Write(float32sToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// ReadFlatIndex decodes an index previously written by Encode.
func ReadFlatIndex(r io.Reader) (*FlatIndex, error) {
	var dims, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if dims == 0 {
		return nil, fmt.Errorf("invalid dimension 0")
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	ix := &FlatIndex{
		dims:    int(dims),
		vectors: make([][]float32, 0, count),
	}
	buf := make([]byte, int(dims)*4)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		ix.vectors = append(ix.vectors, bytesToFloat32s(buf))
	}
	return ix, nil
}

func float32sToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32s(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
