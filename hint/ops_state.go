// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// interpreterVersion is reported by GETINFO. Version 40 is the subpixel
// hinting interpreter with backward compatibility.
const interpreterVersion = 40

func (e *engine) opSVTCA(opcode uint8) {
	g := &e.graphics
	v := yAxis
	if opcode&1 != 0 {
		v = xAxis
	}
	switch opcode {
	case opSVTCA0, opSVTCA1:
		g.pv, g.dv, g.fv = v, v, v
	case opSPVTCA0, opSPVTCA1:
		g.pv, g.dv = v, v
	case opSFVTCA0, opSFVTCA1:
		g.fv = v
	}
	g.updateProjection()
}

// lineVector returns the unit vector from a to b, rotated by 90 degrees
// counter-clockwise if perpendicular is set. Coincident points give the
// x axis.
func lineVector(a, b fixed.Point26_6, perpendicular bool) vector {
	dx, dy := int32(b.X-a.X), int32(b.Y-a.Y)
	if dx == 0 && dy == 0 {
		return xAxis
	}
	if perpendicular {
		dx, dy = -dy, dx
	}
	return normalize(dx, dy)
}

func (e *engine) opSxVTL(opcode uint8) error {
	g := &e.graphics
	p1, err := e.stack.popUint()
	if err != nil {
		return err
	}
	p2, err := e.stack.popUint()
	if err != nil {
		return err
	}
	a, err := e.zone(g.zp[2]).point(p1)
	if err != nil {
		return err
	}
	b, err := e.zone(g.zp[1]).point(p2)
	if err != nil {
		return err
	}
	v := lineVector(a, b, opcode&1 != 0)
	if opcode < opSFVTL0 {
		g.pv, g.dv = v, v
	} else {
		g.fv = v
	}
	g.updateProjection()
	return nil
}

// opSDPVTL sets the dual projection vector from the original positions and
// the projection vector from the current positions of two points.
func (e *engine) opSDPVTL(opcode uint8) error {
	g := &e.graphics
	p1, err := e.stack.popUint()
	if err != nil {
		return err
	}
	p2, err := e.stack.popUint()
	if err != nil {
		return err
	}
	za, zb := e.zone(g.zp[2]), e.zone(g.zp[1])
	oa, err := za.original(p1)
	if err != nil {
		return err
	}
	ob, err := zb.original(p2)
	if err != nil {
		return err
	}
	ca, _ := za.point(p1)
	cb, _ := zb.point(p2)
	perpendicular := opcode&1 != 0
	if oa == ob {
		// Coincident originals disable the rotation of both vectors.
		perpendicular = false
	}
	g.dv = lineVector(oa, ob, perpendicular)
	if ca == cb {
		perpendicular = false
	}
	g.pv = lineVector(ca, cb, perpendicular)
	g.updateProjection()
	return nil
}

func (e *engine) opSxVFS(opcode uint8) error {
	y, err := e.stack.pop()
	if err != nil {
		return err
	}
	x, err := e.stack.pop()
	if err != nil {
		return err
	}
	v := normalize(int32(int16(x)), int32(int16(y)))
	g := &e.graphics
	if opcode == opSPVFS {
		g.pv, g.dv = v, v
	} else {
		g.fv = v
	}
	g.updateProjection()
	return nil
}

func (e *engine) opSZP(opcode uint8) error {
	v, err := e.stack.pop()
	if err != nil {
		return err
	}
	if v != int32(TwilightZone) && v != int32(GlyphZone) {
		return ErrInvalidZoneIndex
	}
	z := ZonePointer(v)
	g := &e.graphics
	if opcode == opSZPS {
		g.zp = [3]ZonePointer{z, z, z}
		return nil
	}
	g.zp[opcode-opSZP0] = z
	return nil
}

func (e *engine) opSLOOP() error {
	n, err := e.stack.pop()
	if err != nil {
		return err
	}
	if n < 0 {
		return ErrNegativeLoopCounter
	}
	if n > 0xffff {
		n = 0xffff
	}
	e.graphics.loop = n
	return nil
}

// opSetState pops one value into a scalar of the graphics state.
func (e *engine) opSetState(opcode uint8) error {
	v, err := e.stack.pop()
	if err != nil {
		return err
	}
	g := &e.graphics
	switch opcode {
	case opSMD:
		g.minDistance = f26(v)
	case opSCVTCI:
		g.controlValueCutIn = f26(v)
	case opSSWCI:
		g.singleWidthCutIn = f26(v)
	case opSSW:
		g.singleWidth = f26(mulFix(v, g.scale))
	case opSDB:
		g.deltaBase = v
	case opSDS:
		if v < 0 || v > 6 {
			return ErrInvalidStackValue
		}
		g.deltaShift = v
	}
	return nil
}

func (e *engine) opGETINFO() error {
	selector, err := e.stack.pop()
	if err != nil {
		return err
	}
	g := &e.graphics
	smooth := g.mode.isSmooth()
	var result int32
	if selector&(1<<0) != 0 {
		result = interpreterVersion
	}
	if selector&(1<<1) != 0 && g.isRotated {
		result |= 1 << 8
	}
	if selector&(1<<2) != 0 && g.isStretched {
		result |= 1 << 9
	}
	if selector&(1<<3) != 0 && e.axisCount > 0 {
		result |= 1 << 10
	}
	if smooth {
		// ClearType hinting is supported.
		if selector&(1<<6) != 0 {
			result |= 1 << 13
		}
		if selector&(1<<8) != 0 && g.mode.LCD == LCDVertical {
			result |= 1 << 15
		}
		// Subpixel positioned text.
		if selector&(1<<10) != 0 {
			result |= 1 << 17
		}
		if selector&(1<<11) != 0 && g.mode.SymmetricRendering {
			result |= 1 << 18
		}
		// Grayscale ClearType.
		if selector&(1<<12) != 0 && g.mode.LCD == LCDNone {
			result |= 1 << 19
		}
	}
	return e.stack.push(result)
}

// opINSTCTRL sets or clears one of the instruct control flags. The flags
// may only be changed by the control value program.
func (e *engine) opINSTCTRL() error {
	selector, err := e.stack.pop()
	if err != nil {
		return err
	}
	value, err := e.stack.pop()
	if err != nil {
		return err
	}
	if selector < 1 || selector > 3 {
		return nil
	}
	flag := int32(1) << (selector - 1)
	if e.program.initial != ControlValueProgram || (value != 0 && value != flag) {
		return nil
	}
	g := &e.graphics
	if selector == 3 && g.mode.PreserveLinearMetrics {
		return nil
	}
	g.instructControl = g.instructControl&^uint8(flag) | uint8(value)
	if selector == 3 {
		g.backwardCompatibility = g.mode.isSmooth() &&
			g.instructControl&instructControlNativeClearType == 0
	}
	return nil
}

// opGETVAR pushes one normalized coordinate per variation axis.
func (e *engine) opGETVAR() error {
	if e.axisCount == 0 {
		return e.opUnknown(opGETVAR)
	}
	for i := 0; i < e.axisCount; i++ {
		var c int16
		if i < len(e.coords) {
			c = e.coords[i]
		}
		if err := e.stack.push(int32(c)); err != nil {
			return err
		}
	}
	return nil
}
