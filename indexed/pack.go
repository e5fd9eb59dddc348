package indexed

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/psxtex/gpu"
)

// CLUT slot granularity. The GPU addresses palettes in units of 16 colors,
// so a CLUT is always padded to exactly 16 or 256 entries.
const (
	smallCLUT = 16
	largeCLUT = 256
)

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// Pack converts an indexed image and its palette into raw pixel data plus
// a packed 16-bit CLUT, both little-endian as the GPU expects. bpp selects
// 4bpp (two pixels per byte, even column in the low nibble) or 8bpp (one
// byte per pixel). An odd-width image gains a zero-index column, and a
// 4bpp row whose packed width is odd gains a trailing zero byte, so that
// every row is 16-bit aligned for the GPU's DMA path.
//
// The CLUT is padded with zero entries to 16 colors when the palette has
// 16 or fewer, otherwise to 256.
func Pack(m *image.Paletted, palette []color.NRGBA, bpp int, forceSTP, useSTPBlack bool) (pixels, clut []byte, err error) {
	if bpp != 4 && bpp != 8 {
		return nil, nil, fmt.Errorf("indexed: unsupported depth %dbpp", bpp)
	}

	limit := 1 << bpp
	if len(palette) > limit {
		return nil, nil, &InvalidIndexError{len(palette) - 1, limit}
	}

	size := smallCLUT
	if len(palette) > smallCLUT {
		size = largeCLUT
	}

	clut = make([]byte, 2*size)
	for i, c := range palette {
		binary.LittleEndian.PutUint16(clut[2*i:], uint16(gpu.Encode(c, forceSTP, useSTPBlack)))
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	// Pad odd widths with a zero-index column so nibble pairs always
	// exist and 8bpp rows come out even.
	padded := w + w&1

	row := make([]byte, padded)

	var out []byte
	switch bpp {
	case 8:
		out = make([]byte, 0, padded*h)
	case 4:
		out = make([]byte, 0, (padded>>1+padded>>1&1)*h)
	}

	for y := 0; y < h; y++ {
		row[len(row)-1] = 0
		offset := m.PixOffset(b.Min.X, b.Min.Y+y)
		copy(row, m.Pix[offset:offset+w])

		for _, idx := range row[:w] {
			if int(idx) >= len(palette) {
				return nil, nil, &InvalidIndexError{int(idx), len(palette)}
			}
		}

		if bpp == 8 {
			out = append(out, row...)
			continue
		}

		for x := 0; x < padded; x += 2 {
			out = append(out, lowerNibble(row[x])|lowerNibble(row[x+1])<<4)
		}
		if padded>>1&1 == 1 {
			out = append(out, 0)
		}
	}

	return out, clut, nil
}
