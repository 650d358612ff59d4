//go:build tesseract

package recognize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"github.com/invoscan/invoscan/internal/utils"
)

// NewDefaultEngine returns the Tesseract-backed engine when the build tag is
// enabled.
func NewDefaultEngine() (Engine, error) { return &tesseractEngine{}, nil }

// tesseractEngine adapts gosseract to the Engine interface. A fresh client
// is created per call: gosseract clients are not safe for concurrent use and
// scans own no shared state by contract.
type tesseractEngine struct{}

func (t *tesseractEngine) Recognize(ctx context.Context, img image.Image) (*EngineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set tesseract image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract text: %w", err)
	}

	blockBoxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("tesseract block boxes: %w", err)
	}
	lineBoxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract line boxes: %w", err)
	}

	result := &EngineResult{Text: text, Blocks: make([]EngineBlock, 0, len(blockBoxes))}
	for _, bb := range blockBoxes {
		box := utils.BoxFromRect(bb.Box)
		blk := EngineBlock{Text: bb.Word, Box: &box}
		for _, lb := range lineBoxes {
			if lb.Box.In(bb.Box) {
				lbox := utils.BoxFromRect(lb.Box)
				blk.Lines = append(blk.Lines, EngineLine{Text: lb.Word, Box: &lbox})
			}
		}
		result.Blocks = append(result.Blocks, blk)
	}
	return result, nil
}
