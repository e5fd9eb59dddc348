package psxtex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/psxtex/gpu"
	"github.com/bodgit/psxtex/indexed"
)

// ErrNoPalette is returned when indexed output is requested without
// anywhere to write the palette.
var ErrNoPalette = errors.New("psxtex: indexed output requires a palette destination")

// IndexedImage pairs an already-indexed image with the out-of-band
// transparency table some formats store separately from the RGB palette.
// Decoders that surface such a table should hand one of these to Convert
// so the alpha values survive.
type IndexedImage struct {
	*image.Paletted

	// Transparency holds one alpha byte per palette entry. It may be
	// shorter than the palette, in which case the remaining entries
	// keep the palette's own alpha.
	Transparency []byte
}

// Convert writes m to imageOut in the format selected by opts. For
// indexed depths the packed palette is written to clutOut, which must not
// be nil; at 16bpp clutOut is ignored. Nothing is written until the whole
// conversion has succeeded, so a failed conversion never leaves partial
// output behind.
func Convert(imageOut, clutOut io.Writer, m image.Image, opts Options) error {
	switch opts.BPP {
	case 16:
		_, err := imageOut.Write(convert16(m, opts))
		return err
	case 4, 8:
		if clutOut == nil {
			return ErrNoPalette
		}

		p, palette, err := indexedImage(m, opts.BPP)
		if err != nil {
			return err
		}

		pixels, clut, err := indexed.Pack(p, palette, opts.BPP, opts.ForceSTP, opts.STPBlack)
		if err != nil {
			return err
		}

		if _, err := imageOut.Write(pixels); err != nil {
			return err
		}
		_, err = clutOut.Write(clut)
		return err
	default:
		return fmt.Errorf("psxtex: unsupported depth %dbpp", opts.BPP)
	}
}

// convert16 encodes every pixel directly as a little-endian 16-bit GPU
// color. Rows are two bytes per pixel so they are always 16-bit aligned.
func convert16(m image.Image, opts Options) []byte {
	b := m.Bounds()

	out := make([]byte, 0, b.Dx()*b.Dy()*2)
	var word [2]byte

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := gpu.Encode(color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA), opts.ForceSTP, opts.STPBlack)
			binary.LittleEndian.PutUint16(word[:], uint16(c))
			out = append(out, word[:]...)
		}
	}

	return out
}

// indexedImage obtains a palette and index buffer for m. An image that is
// already indexed keeps its palette and indices as-is, merging any
// out-of-band transparency; anything else goes through exact quantization
// against the depth's palette capacity.
func indexedImage(m image.Image, bpp int) (*image.Paletted, []color.NRGBA, error) {
	maxColors := 1 << bpp

	switch p := m.(type) {
	case *IndexedImage:
		palette := indexed.ExtractPalette(p.Palette, p.Transparency)
		if len(palette) <= maxColors {
			return p.Paletted, palette, nil
		}

		// Too many palette entries for this depth; re-quantize below
		// with the transparency merged in so it is not lost.
		dup := *p.Paletted
		dup.Palette = make(color.Palette, len(palette))
		for i, c := range palette {
			dup.Palette[i] = c
		}
		m = &dup
	case *image.Paletted:
		if len(p.Palette) <= maxColors {
			return p, indexed.ExtractPalette(p.Palette, nil), nil
		}
	}

	p, err := indexed.Quantize(m, maxColors)
	if err != nil {
		return nil, nil, err
	}

	return p, indexed.ExtractPalette(p.Palette, nil), nil
}
