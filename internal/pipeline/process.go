package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/preprocess"
	"github.com/invoscan/invoscan/internal/quality"
	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/textfilter"
	"github.com/invoscan/invoscan/internal/utils"
	"github.com/invoscan/invoscan/internal/validate"
)

// run carries the per-scan state. Everything here is created for a single
// pipeline run and, apart from the final ScanResult, has no existence
// beyond it.
type run struct {
	p      *Pipeline
	scanID string
	start  time.Time
}

// ProcessImage runs the full scan pipeline on an image already in memory.
func (p *Pipeline) ProcessImage(ctx context.Context, img image.Image, sourcePath string) (*ScanResult, error) {
	r := &run{p: p, scanID: uuid.NewString(), start: time.Now()}
	return r.process(ctx, img, sourcePath)
}

// ProcessFile loads the image at path and runs the scan pipeline on it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*ScanResult, error) {
	r := &run{p: p, scanID: uuid.NewString(), start: time.Now()}
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return nil, r.fail(err, "could not read the image file; retake the photo or pick a different file")
	}
	return r.process(ctx, img, path)
}

func (r *run) process(ctx context.Context, img image.Image, sourcePath string) (*ScanResult, error) {
	p := r.p
	if img == nil {
		return nil, r.fail(nil, "no image provided; retake the photo")
	}

	r.emit(PhaseInitializing, "starting scan", 0)

	// IMAGE_PREPROCESSING
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err, "scan cancelled")
	}
	r.emit(PhasePreprocessing, "assessing image quality", 10)
	metrics := quality.Assess(img)
	slog.Debug("Image quality assessed", "scan_id", r.scanID,
		"overall", metrics.OverallScore, "sharpness", metrics.Sharpness,
		"brightness", metrics.Brightness, "contrast", metrics.Contrast)
	prepared := preprocess.Apply(img, metrics, p.cfg.Preprocess)
	r.emit(PhasePreprocessing, "image prepared", 25)

	// TEXT_RECOGNITION
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err, "scan cancelled")
	}
	r.emit(PhaseRecognition, "recognizing text", 30)
	recognized, err := p.orch.Recognize(ctx, prepared, img, metrics)
	if err != nil {
		return nil, r.fail(err, recognitionFailureMessage(err))
	}
	filtered := textfilter.Filter(recognized.Text)
	slog.Debug("Text recognized and filtered", "scan_id", r.scanID,
		"blocks", len(recognized.Blocks),
		"kept_lines", filtered.FilteredLineCount,
		"removed_lines", len(filtered.RemovedLines),
		"product_table", filtered.ProductTableDetected)
	r.emit(PhaseRecognition, "text filtered", 55)

	// FIELD_EXTRACTION
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err, "scan cancelled")
	}
	var fields map[string]extract.Field
	var productLines []extract.ProductLine
	if p.cfg.EnableFieldExtraction {
		r.emit(PhaseExtraction, "extracting fields", 60)
		fields = p.extractor.Extract(recognized.Blocks, filtered.FilteredText, p.cfg.DocumentType, p.cfg.FieldExtraction)
		productLines = extract.ProductLines(filtered.FilteredText)
	} else {
		fields = make(map[string]extract.Field)
	}
	r.emit(PhaseExtraction, "fields extracted", 75)

	// VALIDATION
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err, "scan cancelled")
	}
	if p.cfg.EnableValidation {
		r.emit(PhaseValidation, "validating fields", 80)
		validate.All(fields, p.cfg.PostProcessing.EnableSuggestions)
	}
	r.emit(PhaseValidation, "fields validated", 85)

	// POST_PROCESSING
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err, "scan cancelled")
	}
	r.emit(PhasePostProcess, "normalizing fields", 90)
	if p.cfg.PostProcessing.EnableDataNormalization {
		validate.NormalizeAll(fields)
	}
	templateID, _ := p.templates.Match(p.cfg.DocumentType, fields)
	confidence := Score(recognized.Blocks, fields, metrics)
	r.emit(PhasePostProcess, "scoring confidence", 95)

	result := &ScanResult{
		ScanID:         r.scanID,
		DocumentType:   p.cfg.DocumentType,
		SourcePath:     sourcePath,
		RawText:        recognized.Text,
		FilteredText:   filtered.FilteredText,
		Blocks:         recognized.Blocks,
		Fields:         fields,
		ProductLines:   productLines,
		Filter:         filtered,
		Quality:        metrics,
		Confidence:     confidence,
		TemplateID:     templateID,
		ProcessingTime: time.Since(r.start),
		CreatedAt:      time.Now(),
	}
	r.emit(PhaseCompleted, "scan complete", 100)
	return result, nil
}

// fail emits the terminal FAILED event and returns the single error shape
// carrying the partial elapsed time.
func (r *run) fail(err error, message string) error {
	elapsed := time.Since(r.start)
	r.emit(PhaseFailed, message, 100)
	if err != nil {
		slog.Debug("Scan failed", "scan_id", r.scanID, "error", err, "elapsed", elapsed)
	}
	return &ScanError{ScanID: r.scanID, Message: message, ProcessingTime: elapsed, Err: err}
}

// emit broadcasts a progress event to all observers. Observers must not
// block; delivery is best-effort.
func (r *run) emit(phase Phase, operation string, pct int) {
	elapsed := time.Since(r.start)
	ev := ProgressEvent{
		ScanID:     r.scanID,
		Phase:      phase,
		Operation:  operation,
		Percentage: pct,
		Elapsed:    elapsed,
	}
	if pct > 0 && pct < 100 {
		ev.EstimatedRemaining = elapsed * time.Duration(100-pct) / time.Duration(pct)
	}
	for _, o := range r.p.observers {
		o.OnProgress(ev)
	}
}

func recognitionFailureMessage(err error) string {
	if errors.Is(err, recognize.ErrNoText) {
		return recognize.ErrNoText.Error()
	}
	return fmt.Sprintf("text recognition failed (%v); retake the photo with better lighting or enter the details manually", err)
}
