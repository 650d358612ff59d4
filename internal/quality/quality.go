// Package quality scores raster images for their suitability as OCR input.
// Degraded images are never rejected; they just score low and collect
// advisory recommendations for the user.
package quality

import (
	"image"
	"math"
)

// Advisory thresholds for recommendations. These gate messages only, never
// the pipeline itself.
const (
	BlurrySharpnessThreshold  = 0.15
	DarkBrightnessThreshold   = 0.20
	BrightBrightnessThreshold = 0.95
	PoorContrastThreshold     = 0.15
)

// Weights of the sub-scores in the overall quality score.
const (
	sharpnessWeight  = 0.4
	brightnessWeight = 0.3
	contrastWeight   = 0.3
)

// sharpnessSampleTarget controls the sampling stride for the Laplacian pass:
// the stride is chosen so roughly this many samples span the shorter image
// dimension, bounding cost on large images.
const sharpnessSampleTarget = 500

// Metrics holds the per-image quality assessment.
type Metrics struct {
	Sharpness       float64  `json:"sharpness"`
	Brightness      float64  `json:"brightness"`
	Contrast        float64  `json:"contrast"`
	OverallScore    float64  `json:"overall_score"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// OverallScore combines the three sub-scores with fixed weights, clamped to
// [0,1]. It is a pure function of its inputs.
func OverallScore(sharpness, brightness, contrast float64) float64 {
	s := sharpnessWeight*sharpness + brightnessWeight*brightness + contrastWeight*contrast
	return clamp01(s)
}

// Assess computes quality metrics for an image. It always returns a result;
// a nil image scores zero across the board.
func Assess(img image.Image) Metrics {
	if img == nil {
		return Metrics{Recommendations: []string{"image is empty; retake the photo"}}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return Metrics{Width: w, Height: h}
	}

	lum := luminancePlane(img)

	brightness := meanBrightness(img)
	contrast := contrastScore(lum, w, h, brightness)
	sharpness := sharpnessScore(lum, w, h)

	m := Metrics{
		Sharpness:    sharpness,
		Brightness:   brightness,
		Contrast:     contrast,
		OverallScore: OverallScore(sharpness, brightness, contrast),
		Width:        w,
		Height:       h,
	}
	m.Recommendations = recommendations(m)
	return m
}

// luminancePlane converts the image to a row-major luminance buffer using
// the ITU-R BT.601 coefficients.
func luminancePlane(img image.Image) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rf := float64(r >> 8)
			gf := float64(g >> 8)
			bf := float64(b >> 8)
			lum[y*w+x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}
	return lum
}

// meanBrightness averages the per-pixel channel mean over all pixels.
func meanBrightness(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			sum += (float64(r>>8) + float64(g>>8) + float64(b>>8)) / 3.0
		}
	}
	return sum / float64(w*h) / 255.0
}

// contrastScore measures luminance spread around the brightness-derived mean.
func contrastScore(lum []float64, w, h int, brightness float64) float64 {
	mean := brightness * 255.0
	var variance float64
	for _, v := range lum {
		d := v - mean
		variance += d * d
	}
	variance /= float64(w * h)
	return clamp01(math.Sqrt(variance) / 128.0)
}

// sharpnessScore applies a 3x3 Laplacian to the luminance plane on a stride
// and normalizes the response variance.
func sharpnessScore(lum []float64, w, h int) float64 {
	if w < 3 || h < 3 {
		return 0
	}
	short := w
	if h < short {
		short = h
	}
	stride := short / sharpnessSampleTarget
	if stride < 1 {
		stride = 1
	}

	var responses []float64
	for y := 1; y < h-1; y += stride {
		for x := 1; x < w-1; x += stride {
			center := lum[y*w+x]
			lap := -4*center + lum[(y-1)*w+x] + lum[(y+1)*w+x] + lum[y*w+x-1] + lum[y*w+x+1]
			responses = append(responses, lap)
		}
	}
	if len(responses) == 0 {
		return 0
	}

	var mean float64
	for _, v := range responses {
		mean += v
	}
	mean /= float64(len(responses))

	var variance float64
	for _, v := range responses {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(responses))

	return clamp01(math.Sqrt(variance) / 200.0)
}

func recommendations(m Metrics) []string {
	var recs []string
	if m.Sharpness < BlurrySharpnessThreshold {
		recs = append(recs, "image appears blurry; hold the camera steady and refocus")
	}
	if m.Brightness < DarkBrightnessThreshold {
		recs = append(recs, "image is too dark; retake with better lighting")
	}
	if m.Brightness > BrightBrightnessThreshold {
		recs = append(recs, "image is too bright; reduce glare or direct light")
	}
	if m.Contrast < PoorContrastThreshold {
		recs = append(recs, "poor contrast; avoid shadows across the document")
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
