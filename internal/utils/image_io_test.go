package utils

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/testutil"
)

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"scan.png", true},
		{"scan.bmp", true},
		{"doc.pdf", false},
		{"notes.txt", false},
		{"noext", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupportedImage(tt.path))
		})
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePNG(t, dir, "sample.png", testutil.UniformImage(120, 80, color.White))

	img, meta, err := LoadImage(path)
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, path, meta.Path)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 120, meta.Width)
	assert.Equal(t, 80, meta.Height)
	assert.InDelta(t, 1.5, meta.AspectRatio, 1e-9)
	assert.Positive(t, meta.SizeBytes)
}

func TestLoadImage_Errors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, _, err := LoadImage("")
		require.Error(t, err)

		var perr *ImageProcessingError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "load", perr.Operation)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := LoadImage("invoice.tiff")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
		require.Error(t, err)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.png")
		require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

		_, _, err := LoadImage(path)
		require.Error(t, err)

		var perr *ImageProcessingError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "decode", perr.Operation)
	})
}
