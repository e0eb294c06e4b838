// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// interpolator moves the untouched points of one contour along one axis.
type interpolator struct {
	zone  *Zone
	xAxis bool
}

func (ip interpolator) coord(p fixed.Point26_6) fixed.Int26_6 {
	if ip.xAxis {
		return p.X
	}
	return p.Y
}

func (ip interpolator) cur(i int) fixed.Int26_6 { return ip.coord(ip.zone.Points[i]) }

func (ip interpolator) org(i int) fixed.Int26_6 { return ip.coord(ip.zone.Original[i]) }

// orus returns the unscaled coordinate of point i, or the original one for
// outlines without unscaled points.
func (ip interpolator) orus(i int) int32 {
	if i < len(ip.zone.Unscaled) {
		if ip.xAxis {
			return ip.zone.Unscaled[i].X
		}
		return ip.zone.Unscaled[i].Y
	}
	return int32(ip.org(i))
}

func (ip interpolator) set(i int, v fixed.Int26_6) {
	if ip.xAxis {
		ip.zone.Points[i].X = v
	} else {
		ip.zone.Points[i].Y = v
	}
}

// shift moves the points first through last, other than p, by as much as p
// has moved.
func (ip interpolator) shift(first, last, p int) {
	delta := ip.cur(p) - ip.org(p)
	if delta == 0 {
		return
	}
	for i := first; i <= last; i++ {
		if i != p {
			ip.set(i, ip.cur(i)+delta)
		}
	}
}

// interpolate places the points p1 through p2 relative to the touched points
// ref1 and ref2. Points outside the original span of the references move
// with the nearer one.
func (ip interpolator) interpolate(p1, p2, ref1, ref2 int) {
	if p1 > p2 {
		return
	}
	n := len(ip.zone.Points)
	if ref1 >= n || ref2 >= n {
		return
	}
	orus1, orus2 := ip.orus(ref1), ip.orus(ref2)
	if orus1 > orus2 {
		orus1, orus2 = orus2, orus1
		ref1, ref2 = ref2, ref1
	}
	org1, org2 := ip.org(ref1), ip.org(ref2)
	cur1, cur2 := ip.cur(ref1), ip.cur(ref2)
	delta1, delta2 := cur1-org1, cur2-org2
	if cur1 == cur2 || orus1 == orus2 {
		for i := p1; i <= p2; i++ {
			v := ip.org(i)
			switch {
			case v <= org1:
				v += delta1
			case v >= org2:
				v += delta2
			default:
				v = cur1
			}
			ip.set(i, v)
		}
		return
	}
	scale := divFix(int32(cur2-cur1), orus2-orus1)
	for i := p1; i <= p2; i++ {
		v := ip.org(i)
		switch {
		case v <= org1:
			v += delta1
		case v >= org2:
			v += delta2
		default:
			v = cur1 + f26(mulFix(ip.orus(i)-orus1, scale))
		}
		ip.set(i, v)
	}
}

// opIUP interpolates the untouched points of the glyph zone along one axis.
// IUP[0] works on the y axis and IUP[1] on the x axis.
func (e *engine) opIUP(opcode uint8) error {
	g := &e.graphics
	if g.inPostIUP() {
		return nil
	}
	xAxis := opcode&1 != 0
	if g.backwardCompatibility {
		if xAxis {
			g.didIUPX = true
		} else {
			g.didIUPY = true
		}
	}
	z := e.zone(GlyphZone)
	mask := FlagTouchedY
	if xAxis {
		mask = FlagTouchedX
	}
	ip := interpolator{zone: z, xAxis: xAxis}
	for c := range z.Contours {
		first, last, err := z.contour(c)
		if err != nil {
			return err
		}
		point := first
		for point <= last && z.Flags[point]&mask == 0 {
			point++
		}
		if point > last {
			continue
		}
		firstTouched, curTouched := point, point
		for point++; point <= last; point++ {
			if z.Flags[point]&mask != 0 {
				ip.interpolate(curTouched+1, point-1, curTouched, point)
				curTouched = point
			}
		}
		if curTouched == firstTouched {
			ip.shift(first, last, curTouched)
			continue
		}
		ip.interpolate(curTouched+1, last, curTouched, firstTouched)
		if firstTouched > first {
			ip.interpolate(first, firstTouched-1, curTouched, firstTouched)
		}
	}
	return nil
}
