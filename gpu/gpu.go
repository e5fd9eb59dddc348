/*
Package gpu implements the 16-bit color word used by the PlayStation 1 GPU.

A color is stored as five bits per channel, red in the least significant
bits, plus a semitransparency flag in bit 15. The word 0x0000 is special:
the GPU treats it as "draw nothing", so an opaque black pixel must never
encode to it.
*/
package gpu

import "image/color"

// Alpha thresholds used to classify 8-bit source alpha. Pixels below
// LowerAlphaBound are dropped entirely; pixels between the two bounds get
// the semitransparency flag; pixels at or above UpperAlphaBound are solid.
const (
	LowerAlphaBound = 32
	UpperAlphaBound = 224
)

// Color is a packed 16-bit GPU color, 0RRRRRGGGGGBBBBB with the
// semitransparency flag in bit 15.
type Color uint16

const (
	// Transparent is interpreted by the GPU as fully transparent
	// regardless of draw mode.
	Transparent Color = 0x0000

	// Black is the darkest gray that is not the transparent sentinel.
	Black Color = 0x0421

	// STPBlack is semitransparent black, which renders as solid black
	// when blending is disabled.
	STPBlack Color = 0x8000

	stpFlag Color = 1 << 15
)

// scale5 rescales an 8-bit channel to 5 bits with rounding rather than
// truncation.
func scale5(c uint8) Color {
	return Color((uint32(c)*31 + 127) / 255)
}

// Encode converts a non-premultiplied RGBA color to the GPU's 16-bit
// format. If forceSTP is set the semitransparency flag is set on every
// visible pixel, which is useful when drawing with additive or subtractive
// blending. Opaque black would otherwise encode as the transparent
// sentinel, so it is remapped to Black, or to STPBlack if useSTPBlack is
// set.
func Encode(c color.NRGBA, forceSTP, useSTPBlack bool) Color {
	solid := scale5(c.R) | scale5(c.G)<<5 | scale5(c.B)<<10

	switch {
	case c.A < LowerAlphaBound:
		return Transparent
	case c.A < UpperAlphaBound || forceSTP:
		return solid | stpFlag
	case solid == Transparent:
		if useSTPBlack {
			return STPBlack
		}
		return Black
	default:
		return solid
	}
}

// Model converts any color.Color to the nearest Color, using the default
// encoding flags.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	return Encode(color.NRGBAModel.Convert(c).(color.NRGBA), false, false)
})

// STP reports whether the semitransparency flag is set.
func (c Color) STP() bool {
	return c&stpFlag != 0
}

// RGBA implements the color.Color interface. The transparent sentinel maps
// to fully transparent; every other word is opaque with each 5-bit channel
// expanded to 8 bits.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c == Transparent {
		return
	}

	r = expand5(uint32(c) & 0x1f)
	g = expand5(uint32(c) >> 5 & 0x1f)
	b = expand5(uint32(c) >> 10 & 0x1f)

	return r, g, b, 0xffff
}

func expand5(c uint32) uint32 {
	c = c<<3 | c>>2
	return c<<8 | c
}
