// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// opData reads and writes the storage area and the control value table.
func (e *engine) opData(opcode uint8) error {
	s := &e.stack
	switch opcode {
	case opRS, opRCVT:
		i, err := s.popUint()
		if err != nil {
			return err
		}
		var v int32
		var ok bool
		if opcode == opRS {
			if v, ok = e.storage.get(i); !ok {
				return ErrInvalidStorageIndex
			}
		} else if v, ok = e.cvt.get(i); !ok {
			return ErrInvalidCVTIndex
		}
		return s.push(v)
	}
	v, err := s.pop()
	if err != nil {
		return err
	}
	i, err := s.popUint()
	if err != nil {
		return err
	}
	switch opcode {
	case opWS:
		if !e.storage.set(i, v) {
			return ErrInvalidStorageIndex
		}
		return nil
	case opWCVTF:
		v = mulFix(v, e.graphics.scale)
	}
	if !e.cvt.set(i, v) {
		return ErrInvalidCVTIndex
	}
	return nil
}

// opGC pushes the projection of a point onto the projection vector, or of
// its original position onto the dual projection vector.
func (e *engine) opGC(opcode uint8) error {
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	z := e.zone(g.zp[2])
	var d fixed.Int26_6
	if opcode&1 != 0 {
		o, err := z.original(p)
		if err != nil {
			return err
		}
		d = g.dv.dot(o)
	} else {
		c, err := z.point(p)
		if err != nil {
			return err
		}
		d = g.pv.dot(c)
	}
	return e.stack.push(int32(d))
}

// opSCFS moves a point so that its projection equals the popped value.
func (e *engine) opSCFS() error {
	k, err := e.stack.pop()
	if err != nil {
		return err
	}
	p, err := e.stack.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	z := e.zone(g.zp[2])
	c, err := z.point(p)
	if err != nil {
		return err
	}
	if err := e.movePoint(g.zp[2], p, f26(k)-g.pv.dot(c)); err != nil {
		return err
	}
	if g.zp[2] == TwilightZone {
		z.Original[p] = z.Points[p]
	}
	return nil
}

func (e *engine) opMD(opcode uint8) error {
	s := &e.stack
	k, err := s.popUint()
	if err != nil {
		return err
	}
	l, err := s.popUint()
	if err != nil {
		return err
	}
	g := &e.graphics
	var d fixed.Int26_6
	if opcode&1 != 0 {
		a, err := e.zone(g.zp[0]).point(l)
		if err != nil {
			return err
		}
		b, err := e.zone(g.zp[1]).point(k)
		if err != nil {
			return err
		}
		d = g.project(a, b)
	} else if d, err = e.originalDistance(g.zp[0], l, g.zp[1], k); err != nil {
		return err
	}
	return s.push(int32(d))
}

// originalDistance measures point a against point b in the original outline
// along the dual projection vector. Glyph points are measured in font units
// and then scaled when the unscaled outline is available.
func (e *engine) originalDistance(za ZonePointer, a int, zb ZonePointer, b int) (fixed.Int26_6, error) {
	g := &e.graphics
	zoneA, zoneB := e.zone(za), e.zone(zb)
	if za == TwilightZone || zb == TwilightZone ||
		len(zoneA.Unscaled) == 0 || len(zoneB.Unscaled) == 0 {
		pa, err := zoneA.original(a)
		if err != nil {
			return 0, err
		}
		pb, err := zoneB.original(b)
		if err != nil {
			return 0, err
		}
		return g.dualProject(pa, pb), nil
	}
	ua, err := zoneA.unscaled(a)
	if err != nil {
		return 0, err
	}
	ub, err := zoneB.unscaled(b)
	if err != nil {
		return 0, err
	}
	return f26(mulFix(int32(g.dualProject(ua, ub)), g.scale)), nil
}
