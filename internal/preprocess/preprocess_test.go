package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/quality"
	"github.com/invoscan/invoscan/internal/testutil"
)

func metricsWithScore(score float64) quality.Metrics {
	return quality.Metrics{OverallScore: score}
}

func TestApply_HighQualityPassThrough(t *testing.T) {
	img := testutil.InvoiceImage(5000, 400, testutil.SampleInvoiceLines())

	out := Apply(img, metricsWithScore(0.85), DefaultConfig())

	// Same object back: no resize, not even for oversized images.
	assert.Same(t, img, out)
}

func TestApply_MediumQualityResizeOnly(t *testing.T) {
	img := testutil.UniformImage(4000, 2000, color.White)

	out := Apply(img, metricsWithScore(0.6), DefaultConfig())

	b := out.Bounds()
	assert.Equal(t, 3000, b.Dx())
	assert.Equal(t, 1500, b.Dy())
}

func TestApply_MediumQualitySmallImageUnchanged(t *testing.T) {
	img := testutil.UniformImage(800, 600, color.White)

	out := Apply(img, metricsWithScore(0.6), DefaultConfig())

	assert.Same(t, img, out)
}

func TestApply_LowQualityGrayscale(t *testing.T) {
	img := testutil.UniformImage(100, 100, color.RGBA{200, 50, 50, 255})

	out := Apply(img, metricsWithScore(0.45), DefaultConfig())

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	px := nrgba.NRGBAAt(50, 50)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
}

func TestApply_VeryLowQualityEnhances(t *testing.T) {
	img := testutil.InvoiceImage(400, 240, testutil.SampleInvoiceLines())

	out := Apply(img, metricsWithScore(0.3), DefaultConfig())

	require.NotNil(t, out)
	assert.Equal(t, img.Bounds().Dx(), out.Bounds().Dx())
	assert.Equal(t, img.Bounds().Dy(), out.Bounds().Dy())
	assert.NotSame(t, img, out)
}

func TestApply_NilImage(t *testing.T) {
	assert.Nil(t, Apply(nil, metricsWithScore(0.9), DefaultConfig()))
}

func TestApplyHardCap_SkipsMinorOvershoot(t *testing.T) {
	cfg := DefaultConfig()

	// 5000 wide needs scale 4096/5000 ~ 0.82 >= 0.75, so it is skipped.
	minor := testutil.UniformImage(5000, 1000, color.White)
	assert.Same(t, minor, applyHardCap(minor, cfg))

	// 6000 wide needs scale ~0.68 < 0.75, so it is resized.
	major := testutil.UniformImage(6000, 1000, color.White)
	out := applyHardCap(major, cfg)
	assert.Equal(t, 4096, out.Bounds().Dx())
}

func TestAdjustContrast_SpreadsAroundMidpoint(t *testing.T) {
	bright := testutil.UniformImage(4, 4, color.RGBA{200, 200, 200, 255})
	out := AdjustContrast(bright, 1.1).(*image.NRGBA)
	// (200-128)*1.1+128 = 207.2
	assert.Equal(t, uint8(207), out.NRGBAAt(1, 1).R)

	dark := testutil.UniformImage(4, 4, color.RGBA{50, 50, 50, 255})
	out = AdjustContrast(dark, 1.1).(*image.NRGBA)
	// (50-128)*1.1+128 = 42.2
	assert.Equal(t, uint8(42), out.NRGBAAt(1, 1).G)
}

func TestSharpen_UniformImageUnchanged(t *testing.T) {
	img := testutil.UniformImage(8, 8, color.RGBA{100, 100, 100, 255})

	out := Sharpen(img).(*image.NRGBA)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			px := out.NRGBAAt(x, y)
			assert.Equal(t, uint8(100), px.R)
			assert.Equal(t, uint8(100), px.G)
			assert.Equal(t, uint8(100), px.B)
		}
	}
}

func TestSharpen_AmplifiesEdges(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(50)
			if x >= 4 {
				v = 200
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	out := Sharpen(img).(*image.NRGBA)

	// Bright side of the edge overshoots, dark side undershoots.
	assert.Greater(t, out.NRGBAAt(4, 4).R, uint8(200))
	assert.Less(t, out.NRGBAAt(3, 4).R, uint8(50))
}

func TestOtsuThreshold_BimodalHistogram(t *testing.T) {
	var hist [256]int
	hist[40] = 500
	hist[210] = 500

	threshold := OtsuThreshold(hist)

	assert.GreaterOrEqual(t, threshold, 40)
	assert.Less(t, threshold, 210)
}

func TestOtsuThreshold_EmptyHistogram(t *testing.T) {
	var hist [256]int
	assert.Equal(t, 127, OtsuThreshold(hist))
}

func TestBinarize_ProducesTwoLevels(t *testing.T) {
	img := testutil.InvoiceImage(200, 120, []string{"Invoice No: 42"})

	out := Binarize(img).(*image.NRGBA)

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := out.NRGBAAt(x, y)
			assert.True(t, px.R == 0 || px.R == 255, "pixel %d,%d has level %d", x, y, px.R)
		}
	}
}

func TestDeskew_ReturnsUsableImage(t *testing.T) {
	img := testutil.InvoiceImage(300, 160, testutil.SampleInvoiceLines()[:5])

	out := Deskew(img)

	require.NotNil(t, out)
	assert.GreaterOrEqual(t, out.Bounds().Dx(), img.Bounds().Dx())
	assert.GreaterOrEqual(t, out.Bounds().Dy(), img.Bounds().Dy())
}

func TestProjectionVariance_BandedBeatsUniform(t *testing.T) {
	banded := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	uniform := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			uniform.SetNRGBA(x, y, color.NRGBA{128, 128, 128, 255})
			if y%8 < 2 {
				banded.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				banded.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}

	assert.Greater(t, projectionVariance(banded), projectionVariance(uniform))
}

func TestCapLongestSide_PortraitOrientation(t *testing.T) {
	img := testutil.UniformImage(1000, 4000, color.White)

	out := capLongestSide(img, 3000)

	assert.Equal(t, 3000, out.Bounds().Dy())
	assert.Equal(t, 750, out.Bounds().Dx())
}
