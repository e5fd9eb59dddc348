/*
Package psxtex converts images into the raw pixel formats consumed by the
PlayStation 1 GPU: 16bpp direct color, or 4bpp/8bpp indexed color along
with a separate packed 16-bit palette.
*/
package psxtex

import "log"

// Options control a conversion.
type Options struct {
	// BPP is the target color depth: 4 or 8 for indexed color, 16 for
	// direct color.
	BPP int

	// ForceSTP sets the semitransparency flag on every visible pixel,
	// for use with additive or subtractive blending.
	ForceSTP bool

	// STPBlack encodes opaque black pixels as semitransparent black
	// rather than solid dark gray, for use when blending is disabled.
	STPBlack bool
}

// Converter converts images using a fixed set of options.
type Converter struct {
	opts   Options
	logger *log.Logger
}

// New returns a Converter using the given options
func New(opts Options, logger *log.Logger) *Converter {
	return &Converter{
		opts:   opts,
		logger: logger,
	}
}
