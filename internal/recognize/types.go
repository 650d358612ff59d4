// Package recognize wraps an external text-recognition engine behind a
// stable interface, applies a retry ladder when the output is too sparse,
// and normalizes the engine output into a uniform block/line/word hierarchy.
package recognize

import (
	"context"
	"image"

	"github.com/invoscan/invoscan/internal/utils"
)

// EngineWord is a single recognized word as reported by the engine.
type EngineWord struct {
	Text string
	Box  *utils.Box
}

// EngineLine is a recognized line of text with an optional skew angle.
type EngineLine struct {
	Text  string
	Box   *utils.Box
	Angle float64
	Words []EngineWord
}

// EngineBlock is a contiguous recognized text region.
type EngineBlock struct {
	Text  string
	Box   *utils.Box
	Lines []EngineLine
}

// EngineResult is the raw output of a single engine invocation.
type EngineResult struct {
	Text   string
	Blocks []EngineBlock
}

// Engine is the external text-recognition boundary. Implementations must
// treat the call as cancellable and return exactly one of output or error.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (*EngineResult, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image) (*EngineResult, error)

func (f EngineFunc) Recognize(ctx context.Context, img image.Image) (*EngineResult, error) {
	return f(ctx, img)
}

// Word is a normalized recognized word.
type Word struct {
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
	Box        *utils.Box `json:"box,omitempty"`
}

// Line is a normalized recognized text line.
type Line struct {
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
	Box        *utils.Box `json:"box,omitempty"`
	Angle      float64    `json:"angle"`
	Words      []Word     `json:"words,omitempty"`
}

// Block is a normalized recognized text region. Blocks are produced once per
// recognition call and never mutated afterward.
type Block struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"`
	Box        *utils.Box `json:"box,omitempty"`
	Lines      []Line     `json:"lines,omitempty"`
}

// Result is the normalized output of a recognition pass.
type Result struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}
