// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Fixed point helpers. All of them operate on 64-bit intermediates and wrap
// their result back into 32 bits, the way the legacy rasterizers do.

func floor(x fixed.Int26_6) fixed.Int26_6 { return x &^ 63 }

func ceil(x fixed.Int26_6) fixed.Int26_6 { return (x + 63) &^ 63 }

func round(x fixed.Int26_6) fixed.Int26_6 { return (x + 32) &^ 63 }

// roundPad rounds x to the nearest multiple of n, which must be a power of 2.
func roundPad(x, n fixed.Int26_6) fixed.Int26_6 { return (x + n/2) &^ (n - 1) }

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// mulDiv returns a*b/c, rounded to nearest.
func mulDiv(a, b, c int32) int32 {
	if c == 0 {
		return math.MaxInt32
	}
	s := int64(1)
	x, y, z := int64(a), int64(b), int64(c)
	if x < 0 {
		x, s = -x, -s
	}
	if y < 0 {
		y, s = -y, -s
	}
	if z < 0 {
		z, s = -z, -s
	}
	return int32(s * ((x*y + z/2) / z))
}

// mulDivNoRound returns a*b/c, truncated towards zero.
func mulDivNoRound(a, b, c int32) int32 {
	if c == 0 {
		return math.MaxInt32
	}
	return int32(int64(a) * int64(b) / int64(c))
}

// mulFix multiplies a by the 16.16 fixed point number b.
func mulFix(a, b int32) int32 {
	s := int64(1)
	x, y := int64(a), int64(b)
	if x < 0 {
		x, s = -x, -s
	}
	if y < 0 {
		y, s = -y, -s
	}
	return int32(s * ((x*y + 0x8000) >> 16))
}

// divFix divides a by b, returning a 16.16 fixed point number.
func divFix(a, b int32) int32 {
	if b == 0 {
		return math.MaxInt32
	}
	s := int64(1)
	x, y := int64(a), int64(b)
	if x < 0 {
		x, s = -x, -s
	}
	if y < 0 {
		y, s = -y, -s
	}
	return int32(s * (((x << 16) + y/2) / y))
}

// mul14 multiplies a by the 2.14 fixed point number b.
func mul14(a, b int32) int32 {
	s := int64(1)
	x, y := int64(a), int64(b)
	if x < 0 {
		x, s = -x, -s
	}
	if y < 0 {
		y, s = -y, -s
	}
	return int32(s * ((x*y + 0x2000) >> 14))
}

// dot14 returns the dot product of (ax, ay) and the 2.14 vector (bx, by).
func dot14(ax, ay, bx, by int32) int32 {
	l := int64(ax)*int64(bx) + int64(ay)*int64(by)
	l += 0x2000 + (l >> 63)
	return int32(l >> 14)
}

// A vector is a 2.14 fixed point unit vector.
type vector struct {
	x, y int32
}

var (
	xAxis = vector{0x4000, 0}
	yAxis = vector{0, 0x4000}
)

// normalize returns the unit vector in the direction of (x, y). The zero
// vector normalizes to the x axis.
func normalize(x, y int32) vector {
	if x == 0 && y == 0 {
		return xAxis
	}
	fx, fy := float64(x), float64(y)
	l := 0x4000 / math.Hypot(fx, fy)
	fx *= l
	if fx >= 0 {
		fx += 0.5
	} else {
		fx -= 0.5
	}
	fy *= l
	if fy >= 0 {
		fy += 0.5
	} else {
		fy -= 0.5
	}
	return vector{int32(fx), int32(fy)}
}

func (v vector) dot(p fixed.Point26_6) fixed.Int26_6 {
	return fixed.Int26_6(dot14(int32(p.X), int32(p.Y), v.x, v.y))
}

// ScaleFactor returns the 16.16 factor that converts font units into 26.6
// fixed point pixels for a font of the given units per em rendered at ppem
// pixels per em.
func ScaleFactor(ppem fixed.Int26_6, unitsPerEm int) int32 {
	if unitsPerEm <= 0 {
		return 0
	}
	return int32((int64(ppem)<<16 + int64(unitsPerEm)/2) / int64(unitsPerEm))
}
