package pipeline

import (
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/quality"
	"github.com/invoscan/invoscan/internal/recognize"
)

// Weights of the overall confidence aggregation.
const (
	recognitionWeight  = 0.3
	extractionWeight   = 0.3
	validationWeight   = 0.2
	imageQualityWeight = 0.1
	completenessWeight = 0.1
)

// completeFieldCount is the nominal field count of a fully extracted
// document; completeness saturates at this many fields.
const completeFieldCount = 10

// Score aggregates per-stage confidences. Empty collections contribute zero
// to their term.
func Score(blocks []recognize.Block, fields map[string]extract.Field, m quality.Metrics) ConfidenceScore {
	s := ConfidenceScore{
		Recognition:  meanBlockConfidence(blocks),
		Extraction:   meanFieldConfidence(fields),
		Validation:   meanValidationConfidence(fields),
		ImageQuality: m.OverallScore,
		Completeness: completeness(len(fields)),
	}
	s.Overall = recognitionWeight*s.Recognition +
		extractionWeight*s.Extraction +
		validationWeight*s.Validation +
		imageQualityWeight*s.ImageQuality +
		completenessWeight*s.Completeness
	return s
}

func meanBlockConfidence(blocks []recognize.Block) float64 {
	if len(blocks) == 0 {
		return 0
	}
	var sum float64
	for _, b := range blocks {
		sum += b.Confidence
	}
	return sum / float64(len(blocks))
}

func meanFieldConfidence(fields map[string]extract.Field) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fields {
		sum += f.Confidence
	}
	return sum / float64(len(fields))
}

func meanValidationConfidence(fields map[string]extract.Field) float64 {
	var sum float64
	var n int
	for _, f := range fields {
		if f.Validation != nil {
			sum += f.Validation.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func completeness(fieldCount int) float64 {
	c := float64(fieldCount) / completeFieldCount
	if c > 1 {
		return 1
	}
	return c
}
