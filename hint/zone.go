// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// PointFlags holds the per-point outline classification and the markers that
// the interpreter sets while hinting.
type PointFlags uint8

const (
	// FlagOnCurve marks a point on the curve. A point without FlagOnCurve is
	// a quadratic control point, unless FlagOffCurveCubic is set.
	FlagOnCurve PointFlags = 1 << iota
	FlagOffCurveCubic
	FlagTouchedX
	FlagTouchedY
	FlagHasDelta
	FlagWeakInterpolation
	FlagNear

	FlagCurveMask   = FlagOnCurve | FlagOffCurveCubic
	FlagTouched     = FlagTouchedX | FlagTouchedY
	flagHintingMask = FlagTouched | FlagHasDelta | FlagWeakInterpolation | FlagNear
)

func (f PointFlags) IsOnCurve() bool { return f&FlagOnCurve != 0 }

func (f PointFlags) IsOffCurveQuad() bool { return f&FlagCurveMask == 0 }

func (f PointFlags) IsOffCurveCubic() bool { return f&FlagOffCurveCubic != 0 }

func (f *PointFlags) flipOnCurve() {
	*f ^= FlagOnCurve
}

func (f *PointFlags) setOnCurve(on bool) {
	*f &^= FlagCurveMask
	if on {
		*f |= FlagOnCurve
	}
}

// A Point is an unscaled point in font units.
type Point struct {
	X, Y int32
}

// ZonePointer selects the twilight or the glyph zone.
type ZonePointer uint8

const (
	TwilightZone ZonePointer = iota
	GlyphZone
)

// A Zone is a set of points in three representations: in font units, scaled
// but not hinted (original) and hinted (points). The twilight zone has no
// unscaled points and no contours.
type Zone struct {
	Unscaled []Point
	Original []fixed.Point26_6
	Points   []fixed.Point26_6
	Flags    []PointFlags
	// Contours holds the index of the last point of each contour.
	Contours []uint16
}

func (z *Zone) len() int {
	return len(z.Points)
}

func (z *Zone) checkPoint(i int) error {
	if i < 0 || i >= len(z.Points) {
		return ErrInvalidPointIndex
	}
	return nil
}

func (z *Zone) point(i int) (fixed.Point26_6, error) {
	if i < 0 || i >= len(z.Points) {
		return fixed.Point26_6{}, ErrInvalidPointIndex
	}
	return z.Points[i], nil
}

func (z *Zone) original(i int) (fixed.Point26_6, error) {
	if i < 0 || i >= len(z.Original) {
		return fixed.Point26_6{}, ErrInvalidPointIndex
	}
	return z.Original[i], nil
}

// unscaled returns point i in font units, widened to 26.6 storage so that it
// can be projected like the other representations.
func (z *Zone) unscaled(i int) (fixed.Point26_6, error) {
	if i < 0 || i >= len(z.Unscaled) {
		return fixed.Point26_6{}, ErrInvalidPointIndex
	}
	p := z.Unscaled[i]
	return fixed.Point26_6{X: fixed.Int26_6(p.X), Y: fixed.Int26_6(p.Y)}, nil
}

// contour returns the inclusive point range of contour c.
func (z *Zone) contour(c int) (first, last int, err error) {
	if c < 0 || c >= len(z.Contours) {
		return 0, 0, ErrInvalidContourIndex
	}
	if c > 0 {
		first = int(z.Contours[c-1]) + 1
	}
	last = int(z.Contours[c])
	if first > last || last >= len(z.Points) {
		return 0, 0, ErrInvalidContourIndex
	}
	return first, last, nil
}

func (z *Zone) touch(i int, flags PointFlags) {
	z.Flags[i] |= flags
}

func (z *Zone) clearHintingFlags() {
	for i := range z.Flags {
		z.Flags[i] &^= flagHintingMask
	}
}
