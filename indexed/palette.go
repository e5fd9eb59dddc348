package indexed

import (
	"fmt"
	"image/color"
)

// InvalidIndexError indicates a pixel index outside the addressable range
// for the chosen depth. It is an internal invariant violation, not a user
// input problem.
type InvalidIndexError struct {
	Index, Limit int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("indexed: palette index %d out of range (must be less than %d)", e.Index, e.Limit)
}

// ExtractPalette returns the RGBA palette of an already-indexed image.
// Palettes without an alpha channel default to fully opaque. Some indexed
// formats store per-index transparency out-of-band from the RGB palette;
// when such a table is present each of its bytes overwrites the alpha of
// the corresponding palette entry, and entries beyond the end of the table
// keep their base alpha.
func ExtractPalette(p color.Palette, transparency []byte) []color.NRGBA {
	palette := make([]color.NRGBA, len(p))

	for i, c := range p {
		palette[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		if i < len(transparency) {
			palette[i].A = transparency[i]
		}
	}

	return palette
}
