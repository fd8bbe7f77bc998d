// Package cli formats command-line output for Kotae.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// sourcePreviewLen caps how much of each source chunk is printed in text mode.
const sourcePreviewLen = 240

// WriteAnswer writes a query response to w in the given format.
func WriteAnswer(w io.Writer, resp *models.QueryResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(w, "\n%s\n", resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Fprintf(w, "\nSources (%d):\n", len(resp.Sources))
		for i, src := range resp.Sources {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, utils.Truncate(src, sourcePreviewLen))
		}
	}
	return nil
}

// WriteIngestReport writes a batch ingestion report to w in the given format.
func WriteIngestReport(w io.Writer, report *models.IngestReport, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "Ingested %d documents (%d chunks), %d failures. Run %s\n",
		len(report.Results), report.TotalChunks(), len(report.Failures), report.RunID)
	for _, res := range report.Results {
		fmt.Fprintf(w, "  %s: %d chunks\n", res.DocumentID, res.ChunkCount)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  FAILED %s: %s\n", f.Path, f.Error)
	}
	return nil
}

// WriteIngestResult writes a single-document ingestion result to w.
func WriteIngestResult(w io.Writer, res *models.IngestResult, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintln(w, res.Message)
	return nil
}
