package recognize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/invoscan/invoscan/internal/quality"
)

// ErrNoText is returned when the engine produced no text blocks after the
// full retry ladder.
var ErrNoText = errors.New("text recognition failed: retake the photo or enter the details manually")

// Config holds the retry-ladder tuning constants. The thresholds are
// empirically chosen; they carry no deeper semantics.
type Config struct {
	// SparseTextThreshold triggers a retry on the unprocessed original when
	// the recognized text is shorter than this and the original image
	// quality was good (preprocessing likely hurt more than it helped).
	SparseTextThreshold int `mapstructure:"sparse_text_threshold" yaml:"sparse_text_threshold" json:"sparse_text_threshold"`
	// SparseQualityThreshold is the minimum original quality score for the
	// original-image retry rung.
	SparseQualityThreshold float64 `mapstructure:"sparse_quality_threshold" yaml:"sparse_quality_threshold" json:"sparse_quality_threshold"`
	// MinTextThreshold triggers the final grayscale retry rung.
	MinTextThreshold int `mapstructure:"min_text_threshold" yaml:"min_text_threshold" json:"min_text_threshold"`
	// BlockConfidence is the fixed confidence assigned to normalized
	// blocks; the engine does not report per-block confidence.
	BlockConfidence float64 `mapstructure:"block_confidence" yaml:"block_confidence" json:"block_confidence"`
}

// DefaultConfig returns the default retry-ladder configuration.
func DefaultConfig() Config {
	return Config{
		SparseTextThreshold:    50,
		SparseQualityThreshold: 0.6,
		MinTextThreshold:       10,
		BlockConfidence:        0.8,
	}
}

// Orchestrator drives the recognition engine with the retry ladder. Retries
// are strictly sequential; the engine is never invoked concurrently for the
// same scan.
type Orchestrator struct {
	engine Engine
	cfg    Config
}

// NewOrchestrator wraps the given engine.
func NewOrchestrator(engine Engine, cfg Config) (*Orchestrator, error) {
	if engine == nil {
		return nil, errors.New("recognition engine is nil")
	}
	return &Orchestrator{engine: engine, cfg: cfg}, nil
}

// Recognize runs the engine on the preprocessed image, walking the retry
// ladder when the output is judged insufficient:
//  1. preprocessed image
//  2. original image, when output < SparseTextThreshold chars and the
//     original quality score exceeded SparseQualityThreshold
//  3. grayscale original, when output is still < MinTextThreshold chars
//
// Zero blocks after all rungs is a terminal failure.
func (o *Orchestrator) Recognize(ctx context.Context, preprocessed, original image.Image, m quality.Metrics) (*Result, error) {
	raw, err := o.engine.Recognize(ctx, preprocessed)
	if err != nil {
		return nil, fmt.Errorf("recognition engine: %w", err)
	}

	if utf8.RuneCountInString(raw.Text) < o.cfg.SparseTextThreshold && m.OverallScore > o.cfg.SparseQualityThreshold {
		slog.Debug("Sparse recognition output, retrying on original image",
			"chars", utf8.RuneCountInString(raw.Text), "quality", m.OverallScore)
		retried, err := o.engine.Recognize(ctx, original)
		if err != nil {
			return nil, fmt.Errorf("recognition engine (original retry): %w", err)
		}
		raw = retried
	}

	if utf8.RuneCountInString(raw.Text) < o.cfg.MinTextThreshold {
		slog.Debug("Recognition output still sparse, retrying on grayscale original", "chars", utf8.RuneCountInString(raw.Text))
		retried, err := o.engine.Recognize(ctx, imaging.Grayscale(original))
		if err != nil {
			return nil, fmt.Errorf("recognition engine (grayscale retry): %w", err)
		}
		raw = retried
	}

	if len(raw.Blocks) == 0 {
		return nil, ErrNoText
	}

	return normalize(raw, o.cfg.BlockConfidence), nil
}

// normalize converts raw engine output into the uniform hierarchy. Every
// block receives the fixed placeholder confidence; blocks without a bounding
// box get a synthetic unique identifier derived from their index.
func normalize(raw *EngineResult, confidence float64) *Result {
	out := &Result{Text: raw.Text, Blocks: make([]Block, 0, len(raw.Blocks))}
	for i, eb := range raw.Blocks {
		blk := Block{
			ID:         fmt.Sprintf("block-%04d", i),
			Text:       eb.Text,
			Confidence: confidence,
			Box:        eb.Box,
			Lines:      make([]Line, 0, len(eb.Lines)),
		}
		for _, el := range eb.Lines {
			line := Line{
				Text:       el.Text,
				Confidence: confidence,
				Box:        el.Box,
				Angle:      el.Angle,
				Words:      make([]Word, 0, len(el.Words)),
			}
			for _, ew := range el.Words {
				line.Words = append(line.Words, Word{Text: ew.Text, Confidence: confidence, Box: ew.Box})
			}
			blk.Lines = append(blk.Lines, line)
		}
		out.Blocks = append(out.Blocks, blk)
	}
	return out
}
