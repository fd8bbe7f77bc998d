package index

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry pairs a chunk identifier with its text. Entries sit at the same
// position in the metadata table as their vector sits in the flat index.
type Entry struct {
	ID   string `msgpack:"id"`
	Text string `msgpack:"text"`
}

// Metadata is the slot-aligned companion to the flat index: IDs holds the
// numeric slot of each vector, Docs the chunk behind it. Both grow together
// and must always have the same length.
type Metadata struct {
	IDs  []int64 `msgpack:"ids"`
	Docs []Entry `msgpack:"docs"`
}

// NewMetadata returns an empty metadata table.
func NewMetadata() *Metadata {
	return &Metadata{
		IDs:  make([]int64, 0),
		Docs: make([]Entry, 0),
	}
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	return len(m.Docs)
}

// Append adds an entry for the next slot.
func (m *Metadata) Append(chunkID, text string) {
	m.IDs = append(m.IDs, int64(len(m.IDs)))
	m.Docs = append(m.Docs, Entry{ID: chunkID, Text: text})
}

// Encode writes the table in msgpack form.
func (m *Metadata) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(m)
}

// ReadMetadata decodes a table previously written by Encode and checks that
// the ids and docs sequences agree in length.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	var m Metadata
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if len(m.IDs) != len(m.Docs) {
		return nil, fmt.Errorf("metadata ids/docs length mismatch: %d vs %d", len(m.IDs), len(m.Docs))
	}
	return &m, nil
}
