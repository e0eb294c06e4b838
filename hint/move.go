// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// movePoint moves point i of zone z along the freedom vector so that its
// projection changes by distance, and marks it touched. In backward
// compatibility mode horizontal movement is dropped, and so is vertical
// movement once both IUP instructions have run.
func (e *engine) movePoint(z ZonePointer, i int, distance fixed.Int26_6) error {
	zone := e.zone(z)
	if err := zone.checkPoint(i); err != nil {
		return err
	}
	g := &e.graphics
	if g.fv.x != 0 {
		if !g.backwardCompatibility {
			zone.Points[i].X += f26(mulDiv(int32(distance), g.fv.x, g.fdotp))
		}
		zone.touch(i, FlagTouchedX)
	}
	if g.fv.y != 0 {
		if !g.inPostIUP() {
			zone.Points[i].Y += f26(mulDiv(int32(distance), g.fv.y, g.fdotp))
		}
		zone.touch(i, FlagTouchedY)
	}
	return nil
}

// moveOriginal moves the original position of point i like movePoint, but
// without marking it.
func (e *engine) moveOriginal(z ZonePointer, i int, distance fixed.Int26_6) error {
	zone := e.zone(z)
	if i < 0 || i >= len(zone.Original) {
		return ErrInvalidPointIndex
	}
	g := &e.graphics
	if g.fv.x != 0 {
		zone.Original[i].X += f26(mulDiv(int32(distance), g.fv.x, g.fdotp))
	}
	if g.fv.y != 0 {
		zone.Original[i].Y += f26(mulDiv(int32(distance), g.fv.y, g.fdotp))
	}
	return nil
}

// shiftPoint translates point i of zone z by (dx, dy) with the same
// backward compatibility rules as movePoint.
func (e *engine) shiftPoint(z ZonePointer, i int, dx, dy fixed.Int26_6, touch bool) error {
	zone := e.zone(z)
	if err := zone.checkPoint(i); err != nil {
		return err
	}
	g := &e.graphics
	if g.fv.x != 0 {
		if !g.backwardCompatibility {
			zone.Points[i].X += dx
		}
		if touch {
			zone.touch(i, FlagTouchedX)
		}
	}
	if g.fv.y != 0 {
		if !g.inPostIUP() {
			zone.Points[i].Y += dy
		}
		if touch {
			zone.touch(i, FlagTouchedY)
		}
	}
	return nil
}

// displacement returns how far the reference point used by SHP, SHC and SHZ
// has moved from its original position, expressed along the freedom vector.
// The low bit of the opcode selects rp1 in zp0 rather than rp2 in zp1.
func (e *engine) displacement(opcode uint8) (z ZonePointer, ref int, dx, dy fixed.Int26_6, err error) {
	g := &e.graphics
	z, ref = g.zp[1], g.rp[2]
	if opcode&1 != 0 {
		z, ref = g.zp[0], g.rp[1]
	}
	zone := e.zone(z)
	c, err := zone.point(ref)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	o, err := zone.original(ref)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	d := int32(g.project(c, o))
	dx = f26(mulDiv(d, g.fv.x, g.fdotp))
	dy = f26(mulDiv(d, g.fv.y, g.fdotp))
	return z, ref, dx, dy, nil
}

// forLoop pops g.loop point indices and calls f for each, then resets the
// loop counter.
func (e *engine) forLoop(f func(p int) error) error {
	g := &e.graphics
	for ; g.loop > 0; g.loop-- {
		p, err := e.stack.popUint()
		if err != nil {
			return err
		}
		if err := f(p); err != nil {
			return err
		}
	}
	g.loop = 1
	return nil
}

// applyMinDistance keeps a rounded distance at least the minimum distance
// away from zero without changing its sign.
func (g *graphicsState) applyMinDistance(original, distance fixed.Int26_6) fixed.Int26_6 {
	if original >= 0 {
		if distance < g.minDistance {
			return g.minDistance
		}
	} else if distance > -g.minDistance {
		return -g.minDistance
	}
	return distance
}

// applySingleWidth snaps distances within the single width cut-in of the
// single width value to that value.
func (g *graphicsState) applySingleWidth(d fixed.Int26_6) fixed.Int26_6 {
	if g.singleWidthCutIn <= 0 {
		return d
	}
	sw := g.singleWidth
	if abs32(int32(d-sw)) < int32(g.singleWidthCutIn) {
		if d >= 0 {
			return sw
		}
		return -sw
	}
	return d
}
