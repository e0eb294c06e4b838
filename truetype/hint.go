// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"github.com/goki/hinting/hint"
	"golang.org/x/image/math/fixed"
)

// A Hinter implements bytecode hinting. A Hinter can be re-used to hint a
// series of glyphs from a Font. It is not safe for concurrent use.
//
// The font and control value programs run again whenever the Font, the scale
// or the Mode changes between two loads.
type Hinter struct {
	// Mode is the rendering mode glyphs are hinted for.
	Mode hint.Mode

	instance hint.Instance
	scratch  *hint.Scratch

	// font, scale and mode are the configuration of instance, and err the
	// result of configuring it.
	font  *Font
	scale fixed.Int26_6
	mode  hint.Mode
	err   error

	// Outline buffers, re-used between glyphs.
	points, original []fixed.Point26_6
	unscaled         []hint.Point
	flags            []hint.PointFlags
	contours         []uint16
}

// NewHinter returns a Hinter for the given mode.
func NewHinter(mode hint.Mode) *Hinter {
	return &Hinter{Mode: mode}
}

// init configures the hinting instance for f at the given scale, the number
// of 26.6 fixed point units in 1 em.
func (h *Hinter) init(f *Font, scale fixed.Int26_6) error {
	if h.font == f && h.scale == scale && h.mode == h.Mode {
		return h.err
	}
	h.font, h.scale, h.mode = f, scale, h.Mode
	ppem := int32(scale.Round())
	h.err = h.instance.Reconfigure(f, hint.ScaleFactor(scale, f.unitsPerEm), ppem, h.Mode, nil)
	if h.err != nil {
		h.scratch = nil
		return h.err
	}
	h.scratch = h.instance.NewScratch()
	return nil
}

// BackwardCompatibility reports whether the last configuration hints in
// backward compatibility mode, where horizontal hints are ignored.
func (h *Hinter) BackwardCompatibility() bool {
	return h.err == nil && h.instance.BackwardCompatibility()
}

// hint runs program over pts, the scaled points of a glyph followed by its
// four phantom points. units are the same points in FUnits. ends are the
// contour end indexes of the glyph, offset by base.
func (h *Hinter) hint(i Index, program []byte, composite bool, pts, units []Point, ends []int, base int) error {
	n := len(pts)
	// Round the phantom points of the advance directions.
	pts[n-4].X = (pts[n-4].X + 32) &^ 63
	pts[n-3].X = (pts[n-3].X + 32) &^ 63
	pts[n-2].Y = (pts[n-2].Y + 32) &^ 63
	pts[n-1].Y = (pts[n-1].Y + 32) &^ 63

	h.points = resizePoints(h.points, n)
	h.original = resizePoints(h.original, n)
	if n > cap(h.unscaled) {
		h.unscaled = make([]hint.Point, n, 2*n)
		h.flags = make([]hint.PointFlags, n, 2*n)
	}
	h.unscaled, h.flags = h.unscaled[:n], h.flags[:n]
	for k, p := range pts {
		q := fixed.Point26_6{X: fixed.Int26_6(p.X), Y: fixed.Int26_6(p.Y)}
		h.points[k], h.original[k] = q, q
		h.unscaled[k] = hint.Point{X: units[k].X, Y: units[k].Y}
		h.flags[k] = 0
		if p.Flags&flagOnCurve != 0 {
			h.flags[k] = hint.FlagOnCurve
		}
	}
	h.contours = h.contours[:0]
	for _, e := range ends {
		h.contours = append(h.contours, uint16(e-base-1))
	}

	o := hint.Outline{
		Glyph:       hint.GlyphID(i),
		Unscaled:    h.unscaled,
		Original:    h.original,
		Points:      h.points,
		Flags:       h.flags,
		Contours:    h.contours,
		Bytecode:    program,
		IsComposite: composite,
	}
	if err := h.instance.Hint(&o, h.scratch); err != nil {
		return err
	}
	for k := range pts[:n-nPhantomPoints] {
		pts[k].X, pts[k].Y = int32(h.points[k].X), int32(h.points[k].Y)
		pts[k].Flags &^= flagOnCurve
		if h.flags[k].IsOnCurve() {
			pts[k].Flags |= flagOnCurve
		}
	}
	for k, p := range o.Phantom {
		pts[n-nPhantomPoints+k] = Point{X: int32(p.X), Y: int32(p.Y)}
	}
	return nil
}

func resizePoints(p []fixed.Point26_6, n int) []fixed.Point26_6 {
	if n <= cap(p) {
		return p[:n]
	}
	return make([]fixed.Point26_6, n, 2*n)
}
