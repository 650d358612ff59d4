// Package testutil generates synthetic invoice photos and degenerate
// images for tests. Nothing here is imported by production code.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// UniformImage returns a width x height image of a single color. Uniform
// images have zero contrast and zero sharpness.
func UniformImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// GradientImage returns an image whose luminance ramps left to right from
// black to white, giving high contrast without sharp edges.
func GradientImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / max(1, width-1))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// CheckerboardImage returns an image of alternating black and white cells,
// which maximizes the Laplacian response near cell boundaries.
func CheckerboardImage(width, height, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

// NoisyImage returns a grayscale image of uniformly random pixel values
// from a deterministic seed.
func NoisyImage(width, height int, seed int64) image.Image {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(rng.Intn(256))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// InvoiceImage renders the given text lines in black on white, one line
// per row, left-aligned with a small margin. The layout approximates a
// printed invoice well enough for quality and preprocessing tests.
func InvoiceImage(width, height int, lines []string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
	}
	lineHeight := face.Metrics().Height.Ceil() + 4
	for i, line := range lines {
		drawer.Dot = fixed.P(10, 20+i*lineHeight)
		drawer.DrawString(line)
	}
	return img
}

// SampleInvoiceLines is a small GST invoice body used across tests.
func SampleInvoiceLines() []string {
	return []string{
		"TAX INVOICE",
		"Invoice No: INV-2024-001",
		"Date: 12/05/2024",
		"GSTIN: 27AAPFU0939F1ZV",
		"Description  Qty  Rate  Amount",
		"Redmi Note 12 128GB  1 pcs  14999.00  14999.00",
		"Taxable Value: 14999.00",
		"CGST 9% 1349.91",
		"SGST 9% 1349.91",
		"Total Amount: 17698.82",
	}
}

// WritePNG saves an image under dir and returns its path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err, "failed to create %s", path)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, png.Encode(f, img), "failed to encode %s", path)
	return path
}
