package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invoscan/invoscan/internal/pipeline"
)

// Summarize renders a human-readable batch report: per-item outcome lines
// followed by totals.
func Summarize(result *pipeline.BatchResult) string {
	var sb strings.Builder
	for _, res := range result.Successes {
		fmt.Fprintf(&sb, "ok    %s  scan=%s  confidence=%.2f  fields=%d\n",
			res.SourcePath, res.ScanID, res.Confidence.Overall, len(res.Fields))
	}
	for _, e := range result.Errors {
		fmt.Fprintf(&sb, "fail  %s  %s\n", e.ImageRef, e.Message)
	}
	fmt.Fprintf(&sb, "processed %d image(s) in %s: %d succeeded, %d failed\n",
		result.TotalProcessed, result.Duration.Round(time.Millisecond), len(result.Successes), len(result.Errors))
	return sb.String()
}

// SummarizeJSON renders the batch result as pretty JSON.
func SummarizeJSON(result *pipeline.BatchResult) (string, error) {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
