package index

import (
	"bytes"
	"testing"
)

func TestFlatIndex_AddSearch(t *testing.T) {
	ix, err := NewFlatIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	vecs := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	if err := ix.Add(vecs); err != nil {
		t.Fatal(err)
	}
	if ix.Count() != 3 {
		t.Errorf("Count=%d", ix.Count())
	}

	results, err := ix.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Slot != 0 {
		t.Errorf("closest slot should be 0, got %d", results[0].Slot)
	}
	if results[1].Slot != 2 {
		t.Errorf("second slot should be 2, got %d", results[1].Slot)
	}
	if results[0].Distance > results[1].Distance {
		t.Error("results not in ascending distance order")
	}
}

func TestFlatIndex_SearchAscendingOrder(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	_ = ix.Add([][]float32{{5, 0}, {1, 0}, {3, 0}, {2, 0}})

	results, err := ix.Search([]float32{0, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("result %d out of order: %v", i, results)
		}
	}
	if results[0].Slot != 1 {
		t.Errorf("nearest slot should be 1, got %d", results[0].Slot)
	}
}

func TestFlatIndex_KLargerThanCount(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	_ = ix.Add([][]float32{{1, 0}, {0, 1}})

	results, err := ix.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected all 2 results, got %d", len(results))
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	ix, _ := NewFlatIndex(3)
	if err := ix.Add([][]float32{{1, 0}}); err == nil {
		t.Error("Add with wrong dimension should fail")
	}
	if _, err := ix.Search([]float32{1, 0}, 1); err == nil {
		t.Error("Search with wrong dimension should fail")
	}
}

func TestFlatIndex_SearchEmpty(t *testing.T) {
	ix, _ := NewFlatIndex(2)
	results, err := ix.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("empty index should return no results, got %d", len(results))
	}
}

func TestFlatIndex_EncodeDecode(t *testing.T) {
	ix, _ := NewFlatIndex(4)
	vecs := [][]float32{
		{0.1, 0.2, 0.3, 0.4},
		{-1, 0, 1, 2},
	}
	_ = ix.Add(vecs)

	var buf bytes.Buffer
	if err := ix.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadFlatIndex(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Dimensions() != 4 || loaded.Count() != 2 {
		t.Fatalf("loaded dims=%d count=%d", loaded.Dimensions(), loaded.Count())
	}
	for i, vec := range vecs {
		for j, v := range vec {
			if loaded.vectors[i][j] != v {
				t.Errorf("vector %d[%d] = %f, want %f", i, j, loaded.vectors[i][j], v)
			}
		}
	}
}

func TestReadFlatIndex_truncated(t *testing.T) {
	ix, _ := NewFlatIndex(3)
	_ = ix.Add([][]float32{{1, 2, 3}})

	var buf bytes.Buffer
	_ = ix.Encode(&buf)
	truncated := buf.Bytes()[:buf.Len()-4]

	if _, err := ReadFlatIndex(bytes.NewReader(truncated)); err == nil {
		t.Error("truncated index should fail to decode")
	}
}

func TestNewFlatIndex_invalidDims(t *testing.T) {
	if _, err := NewFlatIndex(0); err == nil {
		t.Error("zero dimension should be rejected")
	}
	if _, err := NewFlatIndex(-1); err == nil {
		t.Error("negative dimension should be rejected")
	}
}
