// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

func (e *engine) opMDAP(opcode uint8) error {
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	c, err := e.zone(g.zp[0]).point(p)
	if err != nil {
		return err
	}
	var d fixed.Int26_6
	if opcode&1 != 0 {
		cur := g.pv.dot(c)
		d = g.roundState.Round(cur) - cur
	}
	if err := e.movePoint(g.zp[0], p, d); err != nil {
		return err
	}
	g.rp[0], g.rp[1] = p, p
	return nil
}

func (e *engine) opMIAP(opcode uint8) error {
	n, err := e.stack.popUint()
	if err != nil {
		return err
	}
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	v, ok := e.cvt.get(n)
	if !ok {
		return ErrInvalidCVTIndex
	}
	g := &e.graphics
	z := e.zone(g.zp[0])
	if err := z.checkPoint(p); err != nil {
		return err
	}
	distance := f26(v)
	if g.zp[0] == TwilightZone {
		z.Original[p] = fixed.Point26_6{
			X: f26(mul14(v, g.fv.x)),
			Y: f26(mul14(v, g.fv.y)),
		}
		z.Points[p] = z.Original[p]
	}
	cur := g.pv.dot(z.Points[p])
	if opcode&1 != 0 {
		if abs32(int32(distance-cur)) > int32(g.controlValueCutIn) {
			distance = cur
		}
		distance = g.roundState.Round(distance)
	}
	if err := e.movePoint(g.zp[0], p, distance-cur); err != nil {
		return err
	}
	g.rp[0], g.rp[1] = p, p
	return nil
}

// opMDRP moves a point so that its distance from rp0 matches the original
// distance. The low five bits of the opcode select whether rp0 is updated,
// the minimum distance is kept, the distance is rounded and the distance
// type, which is ignored.
func (e *engine) opMDRP(opcode uint8) error {
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	z0, z1 := g.zp[0], g.zp[1]
	ref, err := e.zone(z0).point(g.rp[0])
	if err != nil {
		return err
	}
	c, err := e.zone(z1).point(p)
	if err != nil {
		return err
	}
	orgDist, err := e.originalDistance(z1, p, z0, g.rp[0])
	if err != nil {
		return err
	}
	orgDist = g.applySingleWidth(orgDist)
	distance := orgDist
	if opcode&flagRound != 0 {
		distance = g.roundState.Round(orgDist)
	}
	if opcode&flagMinDistance != 0 {
		distance = g.applyMinDistance(orgDist, distance)
	}
	if err := e.movePoint(z1, p, distance-g.project(c, ref)); err != nil {
		return err
	}
	g.rp[1], g.rp[2] = g.rp[0], p
	if opcode&flagSetRP0 != 0 {
		g.rp[0] = p
	}
	return nil
}

// opMIRP is like opMDRP but takes the distance from the control value
// table. A control value index of -1 means a distance of zero.
func (e *engine) opMIRP(opcode uint8) error {
	n, err := e.stack.pop()
	if err != nil {
		return err
	}
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	var cvtDist fixed.Int26_6
	if n != -1 {
		v, ok := e.cvt.get(int(n))
		if n < 0 || !ok {
			return ErrInvalidCVTIndex
		}
		cvtDist = f26(v)
	}
	g := &e.graphics
	z0, z1 := g.zp[0], g.zp[1]
	zone0, zone1 := e.zone(z0), e.zone(z1)
	if err := zone0.checkPoint(g.rp[0]); err != nil {
		return err
	}
	if err := zone1.checkPoint(p); err != nil {
		return err
	}
	cvtDist = g.applySingleWidth(cvtDist)
	if z1 == TwilightZone {
		zone1.Original[p] = zone0.Original[g.rp[0]].Add(fixed.Point26_6{
			X: f26(mul14(int32(cvtDist), g.fv.x)),
			Y: f26(mul14(int32(cvtDist), g.fv.y)),
		})
		zone1.Points[p] = zone1.Original[p]
	}
	orgDist := g.dualProject(zone1.Original[p], zone0.Original[g.rp[0]])
	curDist := g.project(zone1.Points[p], zone0.Points[g.rp[0]])
	if g.autoFlip && (orgDist^cvtDist) < 0 {
		cvtDist = -cvtDist
	}
	distance := cvtDist
	if opcode&flagRound != 0 {
		if z0 == z1 && abs32(int32(cvtDist-orgDist)) > int32(g.controlValueCutIn) {
			cvtDist = orgDist
		}
		distance = g.roundState.Round(cvtDist)
	}
	if opcode&flagMinDistance != 0 {
		distance = g.applyMinDistance(orgDist, distance)
	}
	if err := e.movePoint(z1, p, distance-curDist); err != nil {
		return err
	}
	g.rp[1], g.rp[2] = g.rp[0], p
	if opcode&flagSetRP0 != 0 {
		g.rp[0] = p
	}
	return nil
}

func (e *engine) opMSIRP(opcode uint8) error {
	d, err := e.stack.pop()
	if err != nil {
		return err
	}
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	z0, z1 := g.zp[0], g.zp[1]
	zone0, zone1 := e.zone(z0), e.zone(z1)
	ref, err := zone0.point(g.rp[0])
	if err != nil {
		return err
	}
	if err := zone1.checkPoint(p); err != nil {
		return err
	}
	if z1 == TwilightZone {
		zone1.Original[p] = zone0.Original[g.rp[0]]
		if err := e.moveOriginal(z1, p, f26(d)); err != nil {
			return err
		}
		zone1.Points[p] = zone1.Original[p]
	}
	if err := e.movePoint(z1, p, f26(d)-g.project(zone1.Points[p], ref)); err != nil {
		return err
	}
	g.rp[1], g.rp[2] = g.rp[0], p
	if opcode&1 != 0 {
		g.rp[0] = p
	}
	return nil
}

func (e *engine) opALIGNRP() error {
	g := &e.graphics
	ref, err := e.zone(g.zp[0]).point(g.rp[0])
	if err != nil {
		return err
	}
	z := e.zone(g.zp[1])
	return e.forLoop(func(p int) error {
		c, err := z.point(p)
		if err != nil {
			return err
		}
		return e.movePoint(g.zp[1], p, -g.project(c, ref))
	})
}

func (e *engine) opALIGNPTS() error {
	p2, err := e.stack.popUint()
	if err != nil {
		return err
	}
	p1, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	a, err := e.zone(g.zp[0]).point(p2)
	if err != nil {
		return err
	}
	b, err := e.zone(g.zp[1]).point(p1)
	if err != nil {
		return err
	}
	d := g.project(a, b) / 2
	if err := e.movePoint(g.zp[1], p1, d); err != nil {
		return err
	}
	return e.movePoint(g.zp[0], p2, -d)
}

// opISECT moves a point to the intersection of two lines, or to the middle
// of their four end points when the lines are nearly parallel.
func (e *engine) opISECT() error {
	var args [5]int
	for i := range args {
		v, err := e.stack.popUint()
		if err != nil {
			return err
		}
		args[i] = v
	}
	b1, b0, a1, a0, p := args[0], args[1], args[2], args[3], args[4]
	g := &e.graphics
	zb, za, zp := e.zone(g.zp[0]), e.zone(g.zp[1]), e.zone(g.zp[2])
	if err := zp.checkPoint(p); err != nil {
		return err
	}
	pts := [4]fixed.Point26_6{}
	for i, ref := range []struct {
		z *Zone
		i int
	}{{za, a0}, {za, a1}, {zb, b0}, {zb, b1}} {
		c, err := ref.z.point(ref.i)
		if err != nil {
			return err
		}
		pts[i] = c
	}
	pa0, pa1, pb0, pb1 := pts[0], pts[1], pts[2], pts[3]
	dbx, dby := int32(pb1.X-pb0.X), int32(pb1.Y-pb0.Y)
	dax, day := int32(pa1.X-pa0.X), int32(pa1.Y-pa0.Y)
	dx, dy := int32(pb0.X-pa0.X), int32(pb0.Y-pa0.Y)
	discriminant := mulDiv(dax, -dby, 0x40) + mulDiv(day, dbx, 0x40)
	dotProduct := mulDiv(dax, dbx, 0x40) + mulDiv(day, dby, 0x40)
	if 19*abs32(discriminant) > abs32(dotProduct) {
		v := mulDiv(dx, -dby, 0x40) + mulDiv(dy, dbx, 0x40)
		zp.Points[p] = fixed.Point26_6{
			X: pa0.X + f26(mulDiv(v, dax, discriminant)),
			Y: pa0.Y + f26(mulDiv(v, day, discriminant)),
		}
	} else {
		zp.Points[p] = fixed.Point26_6{
			X: (pa0.X + pa1.X + pb0.X + pb1.X) / 4,
			Y: (pa0.Y + pa1.Y + pb0.Y + pb1.Y) / 4,
		}
	}
	zp.touch(p, FlagTouched)
	return nil
}

// opIP interpolates points so that their relation to rp1 and rp2 is the
// same as in the original outline.
func (e *engine) opIP() error {
	g := &e.graphics
	z0, z1, z2 := g.zp[0], g.zp[1], g.zp[2]
	base, err := e.zone(z0).point(g.rp[1])
	if err != nil {
		return err
	}
	var oldRange, curRange fixed.Int26_6
	if c, err := e.zone(z1).point(g.rp[2]); err == nil {
		if oldRange, err = e.originalDistance(z1, g.rp[2], z0, g.rp[1]); err != nil {
			return err
		}
		curRange = g.project(c, base)
	}
	return e.forLoop(func(p int) error {
		c, err := e.zone(z2).point(p)
		if err != nil {
			return err
		}
		orgDist, err := e.originalDistance(z2, p, z0, g.rp[1])
		if err != nil {
			return err
		}
		curDist := g.project(c, base)
		var newDist fixed.Int26_6
		if orgDist != 0 {
			if oldRange != 0 {
				newDist = f26(mulDiv(int32(orgDist), int32(curRange), int32(oldRange)))
			} else {
				newDist = orgDist
			}
		}
		return e.movePoint(z2, p, newDist-curDist)
	})
}

func (e *engine) opSHP(opcode uint8) error {
	_, _, dx, dy, err := e.displacement(opcode)
	if err != nil {
		return err
	}
	z := e.graphics.zp[2]
	return e.forLoop(func(p int) error {
		return e.shiftPoint(z, p, dx, dy, true)
	})
}

func (e *engine) opSHC(opcode uint8) error {
	zref, ref, dx, dy, err := e.displacement(opcode)
	if err != nil {
		return err
	}
	c, err := e.stack.popUint()
	if err != nil {
		return err
	}
	z := e.graphics.zp[2]
	first, last, err := e.zone(z).contour(c)
	if err != nil {
		return err
	}
	for i := first; i <= last; i++ {
		if zref == z && i == ref {
			continue
		}
		if err := e.shiftPoint(z, i, dx, dy, false); err != nil {
			return err
		}
	}
	return nil
}

// opSHZ shifts every point of a zone except the reference point. The phantom
// points of the glyph zone are left alone.
func (e *engine) opSHZ(opcode uint8) error {
	zref, ref, dx, dy, err := e.displacement(opcode)
	if err != nil {
		return err
	}
	v, err := e.stack.pop()
	if err != nil {
		return err
	}
	if v != int32(TwilightZone) && v != int32(GlyphZone) {
		return ErrInvalidZoneIndex
	}
	z := e.graphics.zp[2]
	zone := e.zone(z)
	limit := len(zone.Points)
	if z == GlyphZone {
		limit = 0
		if n := len(zone.Contours); n > 0 {
			limit = int(zone.Contours[n-1]) + 1
		}
		if limit > len(zone.Points) {
			return ErrInvalidContourIndex
		}
	}
	for i := 0; i < limit; i++ {
		if zref == z && i == ref {
			continue
		}
		if err := e.shiftPoint(z, i, dx, dy, false); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) opSHPIX() error {
	amount, err := e.stack.pop()
	if err != nil {
		return err
	}
	g := &e.graphics
	dx := f26(mul14(amount, g.fv.x))
	dy := f26(mul14(amount, g.fv.y))
	z := g.zp[2]
	zone := e.zone(z)
	inTwilight := g.zp[0] == TwilightZone && g.zp[1] == TwilightZone && z == TwilightZone
	return e.forLoop(func(p int) error {
		if err := zone.checkPoint(p); err != nil {
			return err
		}
		if !g.backwardCompatibility {
			return e.shiftPoint(z, p, dx, dy, true)
		}
		if inTwilight || (!g.inPostIUP() &&
			((g.isComposite && g.fv.y != 0) || zone.Flags[p]&FlagTouchedY != 0)) {
			return e.shiftPoint(z, p, 0, dy, true)
		}
		return nil
	})
}

func (e *engine) opUTP() error {
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	z := e.zone(g.zp[0])
	if err := z.checkPoint(p); err != nil {
		return err
	}
	var mask PointFlags
	if g.fv.x != 0 {
		mask |= FlagTouchedX
	}
	if g.fv.y != 0 {
		mask |= FlagTouchedY
	}
	z.Flags[p] &^= mask
	return nil
}

func (e *engine) opFLIPPT() error {
	g := &e.graphics
	z := e.zone(g.zp[0])
	post := g.inPostIUP()
	return e.forLoop(func(p int) error {
		if err := z.checkPoint(p); err != nil {
			return err
		}
		if !post {
			z.Flags[p].flipOnCurve()
		}
		return nil
	})
}

func (e *engine) opFLIPRG(opcode uint8) error {
	hi, err := e.stack.popUint()
	if err != nil {
		return err
	}
	lo, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	if g.inPostIUP() {
		return nil
	}
	z := e.zone(g.zp[0])
	if lo > hi || hi >= len(z.Points) {
		return ErrInvalidPointRange
	}
	for i := lo; i <= hi; i++ {
		z.Flags[i].setOnCurve(opcode == opFLIPRGON)
	}
	return nil
}
