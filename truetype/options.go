// Copyright 2015 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"github.com/goki/hinting/hint"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Options are optional arguments to loading glyphs at a size.
type Options struct {
	// Size is the font size in points, as in "a 10 point font size".
	//
	// A zero value means to use a 12 point font size.
	Size float64

	// DPI is the dots-per-inch resolution.
	//
	// A zero value means to use 72 DPI.
	DPI float64

	// Hinting is how to quantize the glyph nodes. font.HintingFull hints
	// for monochrome rendering, font.HintingVertical for anti-aliased
	// rendering, in which most fonts only get their vertical hints applied.
	//
	// A zero value means to use no hinting.
	Hinting font.Hinting
}

func (o *Options) size() float64 {
	if o != nil && o.Size > 0 {
		return o.Size
	}
	return 12
}

func (o *Options) dpi() float64 {
	if o != nil && o.DPI > 0 {
		return o.DPI
	}
	return 72
}

func (o *Options) hinting() font.Hinting {
	if o != nil {
		switch o.Hinting {
		case font.HintingVertical, font.HintingFull:
			return o.Hinting
		}
	}
	return font.HintingNone
}

// mode returns the hinting mode for the options. It returns false if glyphs
// are not to be hinted.
func (o *Options) mode() (hint.Mode, bool) {
	switch o.hinting() {
	case font.HintingFull:
		return hint.Mode{Target: hint.TargetMono}, true
	case font.HintingVertical:
		return hint.Mode{Target: hint.TargetSmooth}, true
	}
	return hint.Mode{}, false
}

// Scale returns the number of 26.6 fixed point units in 1 em.
func (o *Options) Scale() fixed.Int26_6 {
	return fixed.Int26_6(0.5 + (o.size() * o.dpi() * 64 / 72))
}

// NewHinter returns a Hinter for the options' hinting, or nil if glyphs are
// not to be hinted. The nil Hinter can be passed to GlyphBuf.Load.
func (o *Options) NewHinter() *Hinter {
	m, ok := o.mode()
	if !ok {
		return nil
	}
	return NewHinter(m)
}
