// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

// deltaAmount decodes the packed exception argument of a DELTA instruction.
// It reports whether the exception applies at the current size and the
// distance to move by.
func (g *graphicsState) deltaAmount(arg, base int32) (int32, bool) {
	if (arg&0xf0)>>4+base+g.deltaBase != g.ppem {
		return 0, false
	}
	b := arg&0xf - 8
	if b >= 0 {
		b++
	}
	return b * (1 << uint(6-g.deltaShift)), true
}

func deltaBase(opcode uint8) int32 {
	switch opcode {
	case opDELTAP2, opDELTAC2:
		return 16
	case opDELTAP3, opDELTAC3:
		return 32
	}
	return 0
}

func (e *engine) opDELTAP(opcode uint8) error {
	n, err := e.stack.pop()
	if err != nil {
		return err
	}
	if n < 0 {
		return ErrInvalidStackValue
	}
	g := &e.graphics
	z := e.zone(g.zp[0])
	base := deltaBase(opcode)
	for ; n > 0; n-- {
		p, err := e.stack.popUint()
		if err != nil {
			return err
		}
		arg, err := e.stack.pop()
		if err != nil {
			return err
		}
		if err := z.checkPoint(p); err != nil {
			return err
		}
		d, ok := g.deltaAmount(arg, base)
		if !ok {
			continue
		}
		if g.backwardCompatibility {
			// Only vertical exceptions on points that are already touched
			// vertically, before the final IUP.
			if g.inPostIUP() || !((g.isComposite && g.fv.y != 0) || z.Flags[p]&FlagTouchedY != 0) {
				continue
			}
		}
		if err := e.movePoint(g.zp[0], p, f26(d)); err != nil {
			return err
		}
		z.touch(p, FlagHasDelta)
	}
	return nil
}

func (e *engine) opDELTAC(opcode uint8) error {
	n, err := e.stack.pop()
	if err != nil {
		return err
	}
	if n < 0 {
		return ErrInvalidStackValue
	}
	g := &e.graphics
	base := deltaBase(opcode)
	for ; n > 0; n-- {
		i, err := e.stack.popUint()
		if err != nil {
			return err
		}
		arg, err := e.stack.pop()
		if err != nil {
			return err
		}
		d, ok := g.deltaAmount(arg, base)
		if !ok {
			continue
		}
		v, ok := e.cvt.get(i)
		if !ok {
			return ErrInvalidCVTIndex
		}
		e.cvt.set(i, v+d)
	}
	return nil
}
