// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// A Target is the kind of rendering the hints are applied for.
type Target uint8

const (
	// TargetMono hints for aliased, black and white rendering. The glyph
	// programs may move points freely in both directions.
	TargetMono Target = iota
	// TargetSmooth hints for anti-aliased rendering. Unless the control
	// value program opts out, horizontal movement is suppressed.
	TargetSmooth
)

// An LCD describes the subpixel layout of the display, if any.
type LCD uint8

const (
	LCDNone LCD = iota
	LCDHorizontal
	LCDVertical
)

// Mode is the hinting mode of an Instance.
type Mode struct {
	Target Target
	// LCD is the subpixel layout for smooth targets.
	LCD LCD
	// PreserveLinearMetrics keeps advance widths unhinted by refusing to
	// leave backward compatibility mode.
	PreserveLinearMetrics bool
	// SymmetricRendering is reported to the font through GETINFO.
	SymmetricRendering bool
}

func (m Mode) isSmooth() bool {
	return m.Target == TargetSmooth
}

// Bits of the instruct control value, set by INSTCTRL.
const (
	instructControlDisable         = 1 << 0
	instructControlDefaultGraphics = 1 << 1
	instructControlNativeClearType = 1 << 2
)

// retainedGraphicsState is the part of the graphics state that the control
// value program establishes for all glyph programs.
type retainedGraphicsState struct {
	autoFlip          bool
	controlValueCutIn fixed.Int26_6
	deltaBase         int32
	deltaShift        int32
	instructControl   uint8
	minDistance       fixed.Int26_6
	roundState        RoundState
	singleWidthCutIn  fixed.Int26_6
	singleWidth       fixed.Int26_6
	// scale is the 16.16 factor from font units to 26.6 pixels.
	scale       int32
	ppem        int32
	mode        Mode
	isRotated   bool
	isStretched bool
}

func newRetainedGraphicsState(scale, ppem int32, mode Mode) retainedGraphicsState {
	return retainedGraphicsState{
		autoFlip:          true,
		controlValueCutIn: 68, // 17/16 pixels
		deltaBase:         9,
		deltaShift:        3,
		minDistance:       64,
		roundState:        defaultRoundState,
		scale:             scale,
		ppem:              ppem,
		mode:              mode,
	}
}

// graphicsState is the full graphics state of a running program.
type graphicsState struct {
	retainedGraphicsState

	pv, fv, dv vector
	// fdotp is the dot product of the freedom and projection vectors.
	fdotp int32
	loop  int32
	rp    [3]int
	zp    [3]ZonePointer

	backwardCompatibility bool
	didIUPX, didIUPY      bool
	isComposite           bool
}

// reset restores the per-program defaults, keeping the retained part.
func (g *graphicsState) reset() {
	g.pv, g.fv, g.dv = xAxis, xAxis, xAxis
	g.fdotp = 0x4000
	g.loop = 1
	g.rp = [3]int{}
	g.zp = [3]ZonePointer{GlyphZone, GlyphZone, GlyphZone}
	g.backwardCompatibility = g.mode.isSmooth() &&
		g.instructControl&instructControlNativeClearType == 0
	g.didIUPX, g.didIUPY = false, false
}

// updateProjection recomputes fdotp after a vector change. Nearly
// perpendicular vectors are treated as parallel, as other rasterizers do.
func (g *graphicsState) updateProjection() {
	g.fdotp = dot14(g.fv.x, g.fv.y, g.pv.x, g.pv.y)
	if abs32(g.fdotp) < 0x400 {
		g.fdotp = 0x4000
	}
}

// inPostIUP reports whether backward compatibility mode has frozen the
// outline after both IUP instructions ran.
func (g *graphicsState) inPostIUP() bool {
	return g.backwardCompatibility && g.didIUPX && g.didIUPY
}

func (g *graphicsState) project(a, b fixed.Point26_6) fixed.Int26_6 {
	return g.pv.dot(a.Sub(b))
}

func (g *graphicsState) dualProject(a, b fixed.Point26_6) fixed.Int26_6 {
	return g.dv.dot(a.Sub(b))
}
