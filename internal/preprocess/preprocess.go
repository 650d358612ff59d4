// Package preprocess selects and applies an image preparation strategy based
// on the measured input quality. Enhancement is deliberately tiered: sharp
// modern-camera photos are passed through untouched because aggressive
// filtering tends to degrade them.
package preprocess

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/invoscan/invoscan/internal/quality"
)

// Quality tier boundaries on the overall score.
const (
	passThroughScore = 0.7
	resizeOnlyScore  = 0.5
	grayscaleScore   = 0.4
)

// Config holds tuning knobs for the preprocessing chain.
type Config struct {
	// MaxDimension caps the longest side at the resize-only tier.
	MaxDimension int `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
	// HardCapDimension is the absolute per-side cap inside the enhancement
	// chain. Images only slightly over the cap are left alone; see
	// HardCapSkipFactor.
	HardCapDimension int `mapstructure:"hard_cap_dimension" yaml:"hard_cap_dimension" json:"hard_cap_dimension"`
	// HardCapSkipFactor skips the hard-cap resize when the required scale
	// factor is at or above this value, avoiding quality loss for minor
	// overshoots.
	HardCapSkipFactor float64 `mapstructure:"hard_cap_skip_factor" yaml:"hard_cap_skip_factor" json:"hard_cap_skip_factor"`
	// ContrastFactor multiplies each channel around the midpoint in the
	// enhancement chain.
	ContrastFactor float64 `mapstructure:"contrast_factor" yaml:"contrast_factor" json:"contrast_factor"`

	// Optional enhancement-chain stages, all off by default.
	EnableDenoise  bool `mapstructure:"enable_denoise" yaml:"enable_denoise" json:"enable_denoise"`
	EnableBinarize bool `mapstructure:"enable_binarize" yaml:"enable_binarize" json:"enable_binarize"`
	EnableDeskew   bool `mapstructure:"enable_deskew" yaml:"enable_deskew" json:"enable_deskew"`
}

// DefaultConfig returns the default preprocessing configuration.
func DefaultConfig() Config {
	return Config{
		MaxDimension:      3000,
		HardCapDimension:  4096,
		HardCapSkipFactor: 0.75,
		ContrastFactor:    1.1,
	}
}

// Apply returns the image to feed into recognition. The input is never
// mutated; every transforming stage produces a new image.
func Apply(img image.Image, m quality.Metrics, cfg Config) image.Image {
	if img == nil {
		return nil
	}

	switch score := m.OverallScore; {
	case score > passThroughScore:
		return img
	case score > resizeOnlyScore:
		return capLongestSide(img, cfg.MaxDimension)
	case score > grayscaleScore:
		return imaging.Grayscale(img)
	default:
		return enhance(img, cfg)
	}
}

// enhance runs the low-quality chain: hard size cap, optional denoise,
// contrast boost, sharpening, then the optional binarize/deskew stages.
func enhance(img image.Image, cfg Config) image.Image {
	img = applyHardCap(img, cfg)
	if cfg.EnableDenoise {
		img = Denoise(img)
	}
	img = AdjustContrast(img, cfg.ContrastFactor)
	img = Sharpen(img)
	if cfg.EnableBinarize {
		img = Binarize(img)
	}
	if cfg.EnableDeskew {
		img = Deskew(img)
	}
	return img
}

// capLongestSide downscales preserving aspect ratio so the longest side does
// not exceed maxDim. Images already within bounds are returned unchanged.
func capLongestSide(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}

// applyHardCap fits the image into HardCapDimension² but only when the
// required scale factor is below HardCapSkipFactor; minor overshoots are
// left alone.
func applyHardCap(img image.Image, cfg Config) image.Image {
	if cfg.HardCapDimension <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= cfg.HardCapDimension && h <= cfg.HardCapDimension {
		return img
	}
	scaleW := float64(cfg.HardCapDimension) / float64(w)
	scaleH := float64(cfg.HardCapDimension) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	if scale >= cfg.HardCapSkipFactor {
		return img
	}
	return imaging.Fit(img, cfg.HardCapDimension, cfg.HardCapDimension, imaging.Lanczos)
}
