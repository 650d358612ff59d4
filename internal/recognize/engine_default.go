//go:build !tesseract

package recognize

import (
	"context"
	"errors"
	"image"
)

// ErrNoEngine is returned when no recognition backend is linked into the
// binary. Build with -tags=tesseract or inject an Engine explicitly.
var ErrNoEngine = errors.New("recognize: no engine backend linked; build with -tags=tesseract or provide an engine")

type defaultEngine struct{}

// NewDefaultEngine returns the engine selected at build time.
func NewDefaultEngine() (Engine, error) { return &defaultEngine{}, nil }

func (d *defaultEngine) Recognize(_ context.Context, _ image.Image) (*EngineResult, error) {
	return nil, ErrNoEngine
}
