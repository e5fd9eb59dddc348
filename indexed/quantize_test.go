package indexed

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"testing"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	m.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})
	m.SetNRGBA(0, 1, color.NRGBA{255, 0, 0, 255})
	m.SetNRGBA(1, 1, color.NRGBA{0, 255, 0, 255})

	p, err := Quantize(m, 16)
	require.NoError(t, err)

	// Distinct colors sorted ascending by (R, G, B, A).
	assert.Equal(t, color.Palette{
		color.NRGBA{0, 0, 255, 255},
		color.NRGBA{0, 255, 0, 255},
		color.NRGBA{255, 0, 0, 255},
	}, p.Palette)
	assert.Equal(t, []uint8{2, 0, 2, 1}, p.Pix)
}

func TestQuantizeOrderingIdempotent(t *testing.T) {
	t.Parallel()

	// Re-quantizing an image whose pixels are already a sorted palette
	// yields the identity mapping.
	colors := []color.NRGBA{
		{0, 0, 0, 255},
		{0, 0, 1, 255},
		{0, 1, 0, 255},
		{1, 0, 0, 0},
		{1, 0, 0, 255},
		{128, 64, 32, 16},
		{255, 255, 255, 255},
	}

	m := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		m.SetNRGBA(i, 0, c)
	}

	p, err := Quantize(m, len(colors))
	require.NoError(t, err)

	for i, c := range colors {
		assert.Equal(t, uint8(i), p.ColorIndexAt(i, 0))
		assert.Equal(t, c, p.Palette[i])
	}
}

func TestQuantizeTooManyColors(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 17, 1))
	for i := 0; i < 17; i++ {
		m.SetNRGBA(i, 0, color.NRGBA{uint8(i), 0, 0, 255})
	}

	_, err := Quantize(m, 16)
	var tooMany *TooManyColorsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 17, tooMany.Actual)
	assert.Equal(t, 16, tooMany.Limit)

	// Exactly at the limit is fine.
	p, err := Quantize(m, 17)
	require.NoError(t, err)
	assert.Len(t, p.Palette, 17)
}

// hugeImage reports enormous bounds without holding any pixels.
type hugeImage struct {
	w, h int
}

func (m hugeImage) ColorModel() color.Model { return color.NRGBAModel }
func (m hugeImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }
func (m hugeImage) At(x, y int) color.Color { return color.NRGBA{} }

func TestQuantizeTooLarge(t *testing.T) {
	t.Parallel()

	_, err := Quantize(hugeImage{8192, 16384}, 256)
	var tooLarge *TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 1<<27, tooLarge.Pixels)
	assert.Equal(t, MaxPixels, tooLarge.Limit)
}

func TestQuantizeMaxColorsRange(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	_, err := Quantize(m, 257)
	assert.Error(t, err)

	_, err = Quantize(m, 0)
	assert.Error(t, err)
}

func TestQuantizeDeterministic(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	m := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := range m.Pix {
		m.Pix[i] = uint8(r.Intn(4) * 85)
	}

	first, err := Quantize(m, 256)
	require.NoError(t, err)

	second, err := Quantize(m, 256)
	require.NoError(t, err)

	assert.Equal(t, first.Palette, second.Palette)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestQuantizeReducedImage(t *testing.T) {
	t.Parallel()

	// A noisy image reduced to 256 colors by median cut must always
	// pass exact quantization afterwards.
	r := rand.New(rand.NewSource(2))
	m := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := range m.Pix {
		m.Pix[i] = uint8(r.Intn(256))
	}

	q := quantize.MedianCutQuantizer{}
	reduced := image.NewPaletted(m.Bounds(), q.Quantize(make(color.Palette, 0, 256), m))
	draw.Draw(reduced, reduced.Bounds(), m, m.Bounds().Min, draw.Src)

	p, err := Quantize(reduced, 256)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(p.Palette), 256)
}
