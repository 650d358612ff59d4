package utils

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBox_OrdersCorners(t *testing.T) {
	b := NewBox(210, 30, 10, 10)
	assert.Equal(t, 10.0, b.Left)
	assert.Equal(t, 10.0, b.Top)
	assert.Equal(t, 210.0, b.Right)
	assert.Equal(t, 30.0, b.Bottom)
}

func TestBox_Dimensions(t *testing.T) {
	b := NewBox(10, 20, 110, 60)
	assert.Equal(t, 100.0, b.Width())
	assert.Equal(t, 40.0, b.Height())
}

func TestNewBoxPtr(t *testing.T) {
	p := NewBoxPtr(210, 30, 10, 10)
	require.NotNil(t, p)
	assert.Equal(t, NewBox(10, 10, 210, 30), *p)
}

func TestBoxFromRect(t *testing.T) {
	b := BoxFromRect(image.Rect(5, 6, 50, 60))
	assert.Equal(t, Box{Left: 5, Top: 6, Right: 50, Bottom: 60}, b)
}

func TestBox_Union(t *testing.T) {
	a := NewBox(10, 10, 50, 50)
	b := NewBox(40, 5, 100, 30)

	u := a.Union(b)
	assert.Equal(t, Box{Left: 10, Top: 5, Right: 100, Bottom: 50}, u)

	// Union with a contained box is a no-op.
	inner := NewBox(20, 20, 30, 30)
	assert.Equal(t, a, a.Union(inner))
}

func TestUnionBoxes(t *testing.T) {
	assert.Nil(t, UnionBoxes(nil))
	assert.Nil(t, UnionBoxes([]Box{}))

	boxes := []Box{
		NewBox(10, 10, 20, 20),
		NewBox(5, 15, 12, 40),
		NewBox(18, 2, 60, 8),
	}
	u := UnionBoxes(boxes)
	require.NotNil(t, u)
	assert.Equal(t, Box{Left: 5, Top: 2, Right: 60, Bottom: 40}, *u)
}
