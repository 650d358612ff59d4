package preprocess

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// sharpenKernel is the standard 3x3 sharpening convolution applied per RGB
// channel inside the enhancement chain.
var sharpenKernel = [3][3]float64{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// AdjustContrast scales each channel around the midpoint by the given
// multiplicative factor with zero brightness offset, clamped to [0,255].
func AdjustContrast(img image.Image, factor float64) image.Image {
	if factor <= 0 {
		return img
	}
	return imaging.AdjustFunc(imaging.Clone(img), func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleChannel(c.R, factor),
			G: scaleChannel(c.G, factor),
			B: scaleChannel(c.B, factor),
			A: c.A,
		}
	})
}

func scaleChannel(v uint8, factor float64) uint8 {
	scaled := (float64(v)-128)*factor + 128
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled + 0.5)
}

// Sharpen applies the 3x3 sharpening kernel per RGB channel. Border pixels
// are copied through unchanged.
func Sharpen(img image.Image) image.Image {
	src := imaging.Clone(img)
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(dst.Pix, src.Pix)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sumR, sumG, sumB float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					k := sharpenKernel[ky+1][kx+1]
					if k == 0 {
						continue
					}
					idx := ((y+ky)*w + (x + kx)) * 4
					sumR += k * float64(src.Pix[idx])
					sumG += k * float64(src.Pix[idx+1])
					sumB += k * float64(src.Pix[idx+2])
				}
			}
			idx := (y*w + x) * 4
			dst.Pix[idx] = clampByte(sumR)
			dst.Pix[idx+1] = clampByte(sumG)
			dst.Pix[idx+2] = clampByte(sumB)
			dst.Pix[idx+3] = src.Pix[idx+3]
		}
	}
	return dst
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Denoise applies a mild Gaussian blur to suppress sensor noise before the
// contrast and sharpening stages.
func Denoise(img image.Image) image.Image {
	return imaging.Blur(img, 0.8)
}

// Deskew estimates the dominant text skew by searching small rotations for
// the angle maximizing row-projection variance on the luminance plane, then
// rotates the image to compensate.
func Deskew(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	best := 0.0
	bestScore := projectionVariance(gray)
	for angle := -5.0; angle <= 5.0; angle += 0.5 {
		if angle == 0 {
			continue
		}
		rotated := imaging.Rotate(gray, angle, color.White)
		if score := projectionVariance(rotated); score > bestScore {
			bestScore = score
			best = angle
		}
	}
	if best == 0 {
		return img
	}
	return imaging.Rotate(img, best, color.White)
}

// projectionVariance measures how strongly dark pixels concentrate into
// horizontal bands; straight text lines maximize it.
func projectionVariance(img *image.NRGBA) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	rows := make([]float64, h)
	var total float64
	for y := 0; y < h; y++ {
		var dark float64
		for x := 0; x < w; x++ {
			if img.Pix[(y*w+x)*4] < 128 {
				dark++
			}
		}
		rows[y] = dark
		total += dark
	}
	mean := total / float64(h)
	var variance float64
	for _, v := range rows {
		d := v - mean
		variance += d * d
	}
	return variance / float64(h)
}
