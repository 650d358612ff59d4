package utils

import "image"

// Box represents an axis-aligned bounding box in pixel coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewBox constructs a Box from two corner coordinates ensuring ordering.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{Left: x1, Top: y1, Right: x2, Bottom: y2}
}

// NewBoxPtr is NewBox returning a pointer, for the optional box fields on
// recognition blocks.
func NewBoxPtr(x1, y1, x2, y2 float64) *Box {
	b := NewBox(x1, y1, x2, y2)
	return &b
}

// BoxFromRect converts an image.Rectangle into a Box.
func BoxFromRect(r image.Rectangle) Box {
	return NewBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

// Width returns the box width.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the box height.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	out := b
	if o.Left < out.Left {
		out.Left = o.Left
	}
	if o.Top < out.Top {
		out.Top = o.Top
	}
	if o.Right > out.Right {
		out.Right = o.Right
	}
	if o.Bottom > out.Bottom {
		out.Bottom = o.Bottom
	}
	return out
}

// UnionBoxes folds a set of boxes into their common bounding box.
// Returns nil when the input is empty.
func UnionBoxes(boxes []Box) *Box {
	if len(boxes) == 0 {
		return nil
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = out.Union(b)
	}
	return &out
}
