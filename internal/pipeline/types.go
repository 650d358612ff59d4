package pipeline

import (
	"fmt"
	"time"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/quality"
	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/textfilter"
)

// Phase names the strictly sequential pipeline states. FAILED is terminal
// and reachable from any state.
type Phase string

const (
	PhaseInitializing  Phase = "INITIALIZING"
	PhasePreprocessing Phase = "IMAGE_PREPROCESSING"
	PhaseRecognition   Phase = "TEXT_RECOGNITION"
	PhaseExtraction    Phase = "FIELD_EXTRACTION"
	PhaseValidation    Phase = "VALIDATION"
	PhasePostProcess   Phase = "POST_PROCESSING"
	PhaseCompleted     Phase = "COMPLETED"
	PhaseFailed        Phase = "FAILED"
)

// ProgressEvent is emitted at each phase boundary. Delivery is best-effort;
// no consumer is required for correctness.
type ProgressEvent struct {
	ScanID             string        `json:"scan_id"`
	Phase              Phase         `json:"phase"`
	Operation          string        `json:"operation"`
	Percentage         int           `json:"percentage"`
	Elapsed            time.Duration `json:"elapsed"`
	EstimatedRemaining time.Duration `json:"estimated_remaining"`
}

// ConfidenceScore aggregates the per-stage confidences into one overall
// score.
type ConfidenceScore struct {
	Recognition  float64 `json:"recognition"`
	Extraction   float64 `json:"extraction"`
	Validation   float64 `json:"validation"`
	ImageQuality float64 `json:"image_quality"`
	Completeness float64 `json:"completeness"`
	Overall      float64 `json:"overall"`
}

// ScanResult is the terminal aggregate of a successful pipeline run.
// Immutable once constructed.
type ScanResult struct {
	ScanID         string                   `json:"scan_id"`
	DocumentType   extract.DocumentType     `json:"document_type"`
	SourcePath     string                   `json:"source_path,omitempty"`
	RawText        string                   `json:"raw_text"`
	FilteredText   string                   `json:"filtered_text"`
	Blocks         []recognize.Block        `json:"blocks,omitempty"`
	Fields         map[string]extract.Field `json:"fields"`
	ProductLines   []extract.ProductLine    `json:"product_lines,omitempty"`
	Filter         textfilter.Result        `json:"filter"`
	Quality        quality.Metrics          `json:"quality"`
	Confidence     ConfidenceScore          `json:"confidence"`
	TemplateID     string                   `json:"template_id,omitempty"`
	ProcessingTime time.Duration            `json:"processing_time"`
	CreatedAt      time.Time                `json:"created_at"`
}

// ScanError is the single terminal error shape: no stage failure escapes
// the orchestrator in any other form, and no partial result accompanies it.
type ScanError struct {
	ScanID         string        `json:"scan_id"`
	Message        string        `json:"message"`
	ProcessingTime time.Duration `json:"processing_time"`
	Err            error         `json:"-"`
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s failed: %s", e.ScanID, e.Message)
}

func (e *ScanError) Unwrap() error { return e.Err }

// BatchItemError records one failed batch item keyed by its source ref.
type BatchItemError struct {
	ImageRef string `json:"image_ref"`
	Err      error  `json:"-"`
	Message  string `json:"message"`
}

// BatchResult accumulates per-item successes and errors. Unless the job
// sets StopOnError, one item's failure never aborts the batch.
type BatchResult struct {
	Successes      []*ScanResult    `json:"successes"`
	Errors         []BatchItemError `json:"errors,omitempty"`
	TotalProcessed int              `json:"total_processed"`
	Duration       time.Duration    `json:"duration"`
}
