/*
Package indexed converts images to indexed color and packs them into the
4bpp and 8bpp layouts understood by the PlayStation 1 GPU, along with the
matching 16-bit CLUT.

Quantization here is exact: an image either fits in the requested palette
with every color preserved bit for bit, or the conversion fails. There is
no dithering and no nearest-color matching.
*/
package indexed

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// MaxPixels bounds the number of pixels accepted by Quantize. Building the
// distinct color set is linear in the pixel count, so absurdly large images
// are rejected up front.
const MaxPixels = 1 << 26

// TooManyColorsError is returned when an image has more distinct colors
// than the requested palette can hold.
type TooManyColorsError struct {
	Actual, Limit int
}

func (e *TooManyColorsError) Error() string {
	return fmt.Sprintf("indexed: image contains %d unique colors (must be %d or less)", e.Actual, e.Limit)
}

// TooLargeError is returned when an image exceeds MaxPixels.
type TooLargeError struct {
	Pixels, Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("indexed: image has %d pixels (must be %d or less)", e.Pixels, e.Limit)
}

// key packs an RGBA8 tuple so that ascending numeric order is ascending
// lexicographic (R, G, B, A) order. The sorted order of the palette is part
// of the contract; identical input always yields identical indices.
func key(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func unkey(k uint32) color.NRGBA {
	return color.NRGBA{uint8(k >> 24), uint8(k >> 16), uint8(k >> 8), uint8(k)}
}

// Quantize converts m to indexed color without losing any information. The
// palette is the set of distinct RGBA8 colors in m, sorted ascending, and
// every pixel's index points at its exact color. If m contains more than
// maxColors distinct colors a *TooManyColorsError is returned. maxColors
// must be 256 or less, the most an indexed image can address.
func Quantize(m image.Image, maxColors int) (*image.Paletted, error) {
	if maxColors < 1 || maxColors > largeCLUT {
		return nil, fmt.Errorf("indexed: maxColors %d out of range (must be 1 to %d)", maxColors, largeCLUT)
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	if w*h > MaxPixels {
		return nil, &TooLargeError{w * h, MaxPixels}
	}

	pixels := make([]uint32, 0, w*h)
	seen := make(map[uint32]struct{})

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			k := key(color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA))
			pixels = append(pixels, k)
			seen[k] = struct{}{}
		}
	}

	if len(seen) > maxColors {
		return nil, &TooManyColorsError{len(seen), maxColors}
	}

	keys := make([]uint32, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	palette := make(color.Palette, len(keys))
	index := make(map[uint32]uint8, len(keys))
	for i, k := range keys {
		palette[i] = unkey(k)
		index[k] = uint8(i)
	}

	p := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for i, k := range pixels {
		p.Pix[i] = index[k]
	}

	return p, nil
}
