package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/kotae/internal/models"
)

func TestWriteAnswer_Text(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.QueryResponse{
		Answer:  "The sky is blue.",
		Sources: []string{"chunk one text", "chunk two text"},
	}
	if err := WriteAnswer(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "The sky is blue.") {
		t.Errorf("answer missing: %q", out)
	}
	if !strings.Contains(out, "Sources (2):") {
		t.Errorf("sources header missing: %q", out)
	}
	if !strings.Contains(out, "[1] chunk one text") {
		t.Errorf("source listing missing: %q", out)
	}
}

func TestWriteAnswer_TextTruncatesLongSources(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.QueryResponse{
		Answer:  "ok",
		Sources: []string{strings.Repeat("x", 1000)},
	}
	if err := WriteAnswer(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "...") {
		t.Error("long source not truncated")
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.QueryResponse{Answer: "a", Sources: []string{"s"}}
	if err := WriteAnswer(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.QueryResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Answer != "a" || len(decoded.Sources) != 1 {
		t.Errorf("round trip %+v", decoded)
	}
}

func TestWriteIngestReport_Text(t *testing.T) {
	var buf bytes.Buffer
	report := &models.IngestReport{
		RunID: "run-1",
		Results: []*models.IngestResult{
			{DocumentID: "a.txt", ChunkCount: 3},
			{DocumentID: "b.txt", ChunkCount: 2},
		},
		Failures: []models.IngestFailure{{Path: "/tmp/c.xyz", Error: "unsupported file type"}},
	}
	if err := WriteIngestReport(&buf, report, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"2 documents", "5 chunks", "1 failures", "a.txt: 3 chunks", "FAILED /tmp/c.xyz"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestWriteIngestResult_Text(t *testing.T) {
	var buf bytes.Buffer
	res := &models.IngestResult{DocumentID: "a.txt", ChunkCount: 3, Message: "Successfully indexed 3 chunks from a.txt."}
	if err := WriteIngestResult(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Successfully indexed 3 chunks") {
		t.Errorf("got %q", buf.String())
	}
}
