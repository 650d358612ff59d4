package preprocess

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// OtsuThreshold selects the binarization threshold maximizing the
// inter-class variance wB*wF*(mB-mF)^2 over the 256-bin histogram.
func OtsuThreshold(hist [256]int) int {
	var total int
	var sum float64
	for i, c := range hist {
		total += c
		sum += float64(i) * float64(c)
	}
	if total == 0 {
		return 127
	}

	var sumB, wB float64
	bestThreshold := 0
	bestVariance := -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = t
		}
	}
	return bestThreshold
}

// LuminanceHistogram builds the 256-bin luminance histogram of an image.
func LuminanceHistogram(img image.Image) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			idx := int(lum)
			if idx > 255 {
				idx = 255
			}
			hist[idx]++
		}
	}
	return hist
}

// Binarize converts the image to pure black and white using Otsu's method:
// pixels above the threshold become white, all others black.
func Binarize(img image.Image) image.Image {
	threshold := uint8(OtsuThreshold(LuminanceHistogram(img)))
	return imaging.AdjustFunc(imaging.Grayscale(img), func(c color.NRGBA) color.NRGBA {
		if c.R > threshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	})
}
