// Copyright 2010 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"github.com/goki/hinting/hint"
	"golang.org/x/image/math/fixed"
)

// A Point is a co-ordinate pair plus whether it is ``on'' a contour or an
// ``off'' control point.
type Point struct {
	X, Y int32
	// The Flags' LSB means whether or not this Point is ``on'' the contour.
	// Other bits are reserved for internal use.
	Flags uint32
}

// A GlyphBuf holds a glyph's contours. A GlyphBuf can be re-used to load a
// series of glyphs from a Font.
type GlyphBuf struct {
	// AdvanceWidth is the glyph's advance width, taken from the hinted
	// phantom points.
	AdvanceWidth fixed.Int26_6
	// B is the glyph's bounding box.
	B Bounds
	// Point contains all Points from all contours of the glyph. Unhinted
	// contains those Points before they were hinted, and InFontUnits
	// contains those Points before they were hinted and scaled.
	Point, Unhinted, InFontUnits []Point
	// End is the point indexes of the end point of each countour. The
	// length of End is the number of contours in the glyph. The i'th
	// contour consists of points Point[End[i-1]:End[i]], where End[-1]
	// is interpreted to mean zero.
	End []int
	// HintErr is the error of the last glyph program that failed during
	// Load. The points that program would have moved keep their unhinted
	// positions.
	HintErr error
}

// Flags for decoding a glyph's contours. These flags are documented at
// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html.
const (
	flagOnCurve = 1 << iota
	flagXShortVector
	flagYShortVector
	flagRepeat
	flagPositiveXShortVector
	flagPositiveYShortVector
)

// The same flag bits (0x10 and 0x20) are overloaded to have two meanings,
// dependent on the value of the flag{X,Y}ShortVector bits.
const (
	flagThisXIsSame = flagPositiveXShortVector
	flagThisYIsSame = flagPositiveYShortVector
)

const nPhantomPoints = 4

// maxCompoundDepth limits the nesting of compound glyphs.
const maxCompoundDepth = 4

// decodeFlags decodes a glyph's run-length encoded flags,
// and returns the offset of the co-ordinates.
func (g *GlyphBuf) decodeFlags(d []byte, offset int, np0, np int) (int, error) {
	for i := np0; i < np; {
		if offset >= len(d) {
			return 0, FormatError("glyph flags too short")
		}
		c := uint32(d[offset])
		offset++
		g.Point[i].Flags = c
		i++
		if c&flagRepeat != 0 {
			if offset >= len(d) {
				return 0, FormatError("glyph flags too short")
			}
			count := int(d[offset])
			offset++
			if i+count > np {
				return 0, FormatError("glyph flag repeat count too large")
			}
			for ; count > 0; count-- {
				g.Point[i].Flags = c
				i++
			}
		}
	}
	return offset, nil
}

// decodeCoords decodes a glyph's delta encoded co-ordinates.
func (g *GlyphBuf) decodeCoords(d []byte, offset int, np0, np int) error {
	short := FormatError("glyph co-ordinates too short")
	var x int16
	for i := np0; i < np; i++ {
		f := g.Point[i].Flags
		if f&flagXShortVector != 0 {
			if offset+1 > len(d) {
				return short
			}
			dx := int16(d[offset])
			offset++
			if f&flagPositiveXShortVector == 0 {
				x -= dx
			} else {
				x += dx
			}
		} else if f&flagThisXIsSame == 0 {
			if offset+2 > len(d) {
				return short
			}
			x += int16(u16(d, offset))
			offset += 2
		}
		g.Point[i].X = int32(x)
	}
	var y int16
	for i := np0; i < np; i++ {
		f := g.Point[i].Flags
		if f&flagYShortVector != 0 {
			if offset+1 > len(d) {
				return short
			}
			dy := int16(d[offset])
			offset++
			if f&flagPositiveYShortVector == 0 {
				y -= dy
			} else {
				y += dy
			}
		} else if f&flagThisYIsSame == 0 {
			if offset+2 > len(d) {
				return short
			}
			y += int16(u16(d, offset))
			offset += 2
		}
		g.Point[i].Y = int32(y)
	}
	return nil
}

// scaleFUnit returns x, in FUnits, scaled by the 16.16 factor s and rounded
// to the nearest 26.6 unit.
func scaleFUnit(x, s int32) int32 {
	v := int64(x) * int64(s)
	if v < 0 {
		return -int32((-v + 0x8000) >> 16)
	}
	return int32((v + 0x8000) >> 16)
}

// Load loads a glyph's contours from a Font, overwriting any previously
// loaded contours for this GlyphBuf. scale is the number of 26.6 fixed point
// units in 1 em. The Hinter is optional; if non-nil, then the resulting glyph
// will be hinted by the Font's bytecode instructions.
//
// A glyph program that fails does not make Load fail. The glyph keeps its
// unhinted outline and the error is recorded in HintErr.
func (g *GlyphBuf) Load(f *Font, scale fixed.Int26_6, i Index, h *Hinter) error {
	// Reset the GlyphBuf.
	g.AdvanceWidth = 0
	g.B = Bounds{}
	g.Point = g.Point[:0]
	g.Unhinted = g.Unhinted[:0]
	g.InFontUnits = g.InFontUnits[:0]
	g.End = g.End[:0]
	g.HintErr = nil
	if h != nil {
		if err := h.init(f, scale); err != nil {
			tracer().Infof("truetype: loading glyph %d unhinted: %v", i, err)
			h = nil
		} else if !h.instance.IsEnabled() {
			h = nil
		}
	}
	s := hint.ScaleFactor(scale, f.unitsPerEm)
	if _, err := g.load(f, s, i, h, 0, 0, false, 0); err != nil {
		return err
	}
	g.B.XMin = scaleFUnit(g.B.XMin, s)
	g.B.YMin = scaleFUnit(g.B.YMin, s)
	g.B.XMax = scaleFUnit(g.B.XMax, s)
	g.B.YMax = scaleFUnit(g.B.YMax, s)
	return nil
}

// loadCompound loads the components of a compound glyph, each already scaled
// and hinted, and returns the glyph program of the compound glyph itself.
//
// metricsOverride is whether the sub-glyph overrides the super-glyph's
// metrics. pp1x is the x co-ordinate of the 1st phantom point.
func (g *GlyphBuf) loadCompound(f *Font, s int32, h *Hinter, glyf []byte, offset int,
	dx, dy int32, recursion int) (metricsOverride bool, pp1x int32, program []byte, err error) {

	// Flags for decoding a compound glyph. These flags are documented at
	// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html.
	const (
		flagArg1And2AreWords = 1 << iota
		flagArgsAreXYValues
		flagRoundXYToGrid
		flagWeHaveAScale
		flagUnused
		flagMoreComponents
		flagWeHaveAnXAndYScale
		flagWeHaveATwoByTwo
		flagWeHaveInstructions
		flagUseMyMetrics
		flagOverlapCompound
	)
	var flags uint16
	for {
		if offset+6 > len(glyf) {
			return false, 0, nil, FormatError("compound glyph too short")
		}
		flags = u16(glyf, offset)
		component := Index(u16(glyf, offset+2))
		dx1, dy1 := dx, dy
		if flags&flagArg1And2AreWords != 0 {
			if offset+8 > len(glyf) {
				return false, 0, nil, FormatError("compound glyph too short")
			}
			dx1 += int32(int16(u16(glyf, offset+4)))
			dy1 += int32(int16(u16(glyf, offset+6)))
			offset += 8
		} else {
			dx1 += int32(int16(int8(glyf[offset+4])))
			dy1 += int32(int16(int8(glyf[offset+5])))
			offset += 6
		}
		if flags&flagArgsAreXYValues == 0 {
			return false, 0, nil, UnsupportedError("compound glyph transform vector")
		}
		if flags&(flagWeHaveAScale|flagWeHaveAnXAndYScale|flagWeHaveATwoByTwo) != 0 {
			return false, 0, nil, UnsupportedError("compound glyph scale/transform")
		}
		subPP1x, err := g.load(f, s, component, h,
			dx1, dy1, flags&flagRoundXYToGrid != 0, recursion+1)
		if err != nil {
			return false, 0, nil, err
		}
		if flags&flagUseMyMetrics != 0 {
			metricsOverride, pp1x = true, subPP1x
		}
		if flags&flagMoreComponents == 0 {
			break
		}
	}
	if flags&flagWeHaveInstructions != 0 {
		if offset+2 > len(glyf) {
			return false, 0, nil, FormatError("compound glyph too short")
		}
		instrLen := int(u16(glyf, offset))
		offset += 2
		if offset+instrLen > len(glyf) {
			return false, 0, nil, FormatError("compound glyph instructions too long")
		}
		program = glyf[offset : offset+instrLen]
	}
	return metricsOverride, pp1x, program, nil
}

// load appends a glyph's contours to this GlyphBuf.
//
// Simple glyphs are hinted with their own program once they are scaled. A
// compound glyph's program runs after all of its components have been
// loaded, over the points of every component.
//
// pp1x is the x co-ordinate of the 1st phantom point.
func (g *GlyphBuf) load(f *Font, s int32, i Index, h *Hinter,
	dx, dy int32, roundDxDy bool, recursion int) (pp1x int32, err error) {

	if recursion >= maxCompoundDepth {
		return 0, UnsupportedError("excessive compound glyph recursion")
	}
	glyf, err := f.glyphData(i)
	if err != nil {
		return 0, err
	}
	var (
		b               Bounds
		ne0, np0        = len(g.End), len(g.Point)
		ne, np          = ne0, np0
		compound        bool
		metricsOverride bool
		program         []byte
		offset          = 10
	)
	if len(glyf) != 0 {
		if len(glyf) < 10 {
			return 0, FormatError("glyph too short")
		}
		// Decode the contour end indices.
		ne = int(int16(u16(glyf, 0)))
		b = Bounds{
			XMin: int32(int16(u16(glyf, 2))),
			YMin: int32(int16(u16(glyf, 4))),
			XMax: int32(int16(u16(glyf, 6))),
			YMax: int32(int16(u16(glyf, 8))),
		}
		if ne < 0 {
			if ne != -1 {
				// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html says that
				// "the values -2, -3, and so forth, are reserved for future use."
				return 0, UnsupportedError("negative number of contours")
			}
			compound = true
			var subPP1x int32
			metricsOverride, subPP1x, program, err =
				g.loadCompound(f, s, h, glyf, offset, dx, dy, recursion)
			if err != nil {
				return 0, err
			}
			if metricsOverride {
				pp1x = subPP1x
			}
			ne = len(g.End)
			np = len(g.Point)
		} else {
			if offset+2*ne+2 > len(glyf) {
				return 0, FormatError("glyph too short")
			}
			ne += ne0
			for k := ne0; k < ne; k++ {
				end := np0 + 1 + int(u16(glyf, offset))
				if k > ne0 && end <= g.End[k-1] {
					return 0, FormatError("glyph contour end points out of order")
				}
				g.End = append(g.End, end)
				offset += 2
			}
			if ne > ne0 {
				np = g.End[ne-1]
			}

			// Note the TrueType hinting instructions.
			instrLen := int(u16(glyf, offset))
			offset += 2
			if offset+instrLen > len(glyf) {
				return 0, FormatError("glyph instructions too long")
			}
			program = glyf[offset : offset+instrLen]
			offset += instrLen
		}
	}

	// Decode the points, including room for the phantom points.
	g.Point = resize(g.Point, np+nPhantomPoints)
	first := np
	if !compound {
		first = np0
		if offset, err = g.decodeFlags(glyf, offset, np0, np); err != nil {
			return 0, err
		}
		if err = g.decodeCoords(glyf, offset, np0, np); err != nil {
			return 0, err
		}
	}

	// Set the four phantom points: the horizontal origin and advance, and
	// the vertical origin and advance, which are left at zero.
	if recursion == 0 {
		g.B = b
	}
	uhm := f.HMetric(i)
	g.Point[np+0] = Point{X: b.XMin - int32(uhm.LeftSideBearing)}
	g.Point[np+1] = Point{X: b.XMin - int32(uhm.LeftSideBearing) + int32(uhm.AdvanceWidth)}
	g.Point[np+2] = Point{}
	g.Point[np+3] = Point{}

	// Delta-adjust and scale. The points of a compound glyph's components
	// have been adjusted and scaled already.
	g.InFontUnits = append(g.InFontUnits, g.Point[first:np+nPhantomPoints]...)
	for k := first; k < np+nPhantomPoints; k++ {
		g.InFontUnits[k].X += dx
		g.InFontUnits[k].Y += dy
	}
	scaledDx := int32(0)
	if roundDxDy {
		dx = (scaleFUnit(dx, s) + 32) &^ 63
		dy = (scaleFUnit(dy, s) + 32) &^ 63
		for k := first; k < np+nPhantomPoints; k++ {
			g.Point[k].X = dx + scaleFUnit(g.Point[k].X, s)
			g.Point[k].Y = dy + scaleFUnit(g.Point[k].Y, s)
		}
		scaledDx = dx
	} else {
		for k := first; k < np+nPhantomPoints; k++ {
			g.Point[k].X = scaleFUnit(g.Point[k].X+dx, s)
			g.Point[k].Y = scaleFUnit(g.Point[k].Y+dy, s)
		}
		scaledDx = scaleFUnit(dx, s)
	}
	g.Unhinted = append(g.Unhinted, g.Point[first:np+nPhantomPoints]...)

	// Hint.
	if h != nil && len(program) != 0 {
		err := h.hint(i, program, compound,
			g.Point[np0:np+nPhantomPoints], g.InFontUnits[np0:np+nPhantomPoints], g.End[ne0:ne], np0)
		if err != nil {
			tracer().Infof("truetype: glyph %d left unhinted: %v", i, err)
			copy(g.Point[np0:np+nPhantomPoints], g.Unhinted[np0:np+nPhantomPoints])
			g.HintErr = err
		}
	}

	if recursion == 0 {
		g.AdvanceWidth = fixed.Int26_6(g.Point[np+1].X - g.Point[np].X)
	}
	if !metricsOverride {
		pp1x = g.Point[np].X - scaledDx
	}
	g.Point = g.Point[:np]
	g.Unhinted = g.Unhinted[:np]
	g.InFontUnits = g.InFontUnits[:np]
	if recursion == 0 && pp1x != 0 {
		for k := range g.Point {
			g.Point[k].X -= pp1x
			g.Unhinted[k].X -= pp1x
		}
	}
	return pp1x, nil
}

// resize returns a slice of length n that keeps the elements of p.
func resize(p []Point, n int) []Point {
	if n <= cap(p) {
		return p[:n]
	}
	q := make([]Point, n, 2*n)
	copy(q, p)
	return q
}

// NewGlyphBuf returns a newly allocated GlyphBuf.
func NewGlyphBuf() *GlyphBuf {
	g := new(GlyphBuf)
	g.Point = make([]Point, 0, 256)
	g.End = make([]int, 0, 32)
	return g
}
