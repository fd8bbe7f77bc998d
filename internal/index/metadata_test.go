package index

import (
	"bytes"
	"testing"
)

func TestMetadata_Append(t *testing.T) {
	m := NewMetadata()
	m.Append("notes.txt_chunk_0", "first chunk")
	m.Append("notes.txt_chunk_1", "second chunk")

	if m.Len() != 2 {
		t.Fatalf("Len=%d", m.Len())
	}
	for i, id := range m.IDs {
		if id != int64(i) {
			t.Errorf("IDs[%d] = %d, want %d", i, id, i)
		}
	}
	if m.Docs[1].ID != "notes.txt_chunk_1" || m.Docs[1].Text != "second chunk" {
		t.Errorf("unexpected entry: %+v", m.Docs[1])
	}
}

func TestMetadata_EncodeDecode(t *testing.T) {
	m := NewMetadata()
	m.Append("a_chunk_0", "alpha")
	m.Append("b_chunk_0", "beta")

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadMetadata(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded Len=%d", loaded.Len())
	}
	if loaded.Docs[0].ID != "a_chunk_0" || loaded.Docs[0].Text != "alpha" {
		t.Errorf("unexpected first entry: %+v", loaded.Docs[0])
	}
	if loaded.IDs[1] != 1 {
		t.Errorf("IDs[1] = %d", loaded.IDs[1])
	}
}

func TestReadMetadata_lengthMismatch(t *testing.T) {
	skewed := &Metadata{
		IDs:  []int64{0, 1},
		Docs: []Entry{{ID: "x_chunk_0", Text: "only one"}},
	}
	var buf bytes.Buffer
	if err := skewed.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadMetadata(&buf); err == nil {
		t.Error("length mismatch should fail to decode")
	}
}

func TestReadMetadata_garbage(t *testing.T) {
	if _, err := ReadMetadata(bytes.NewReader([]byte("not msgpack at all"))); err == nil {
		t.Error("garbage input should fail to decode")
	}
}
