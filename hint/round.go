// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"golang.org/x/image/math/fixed"
)

// A RoundMode selects how distances are rounded.
type RoundMode uint8

const (
	RoundGrid RoundMode = iota
	RoundHalfGrid
	RoundDoubleGrid
	RoundDownToGrid
	RoundUpToGrid
	RoundOff
	RoundSuper
	RoundSuper45
)

func (m RoundMode) String() string {
	switch m {
	case RoundGrid:
		return "grid"
	case RoundHalfGrid:
		return "half grid"
	case RoundDoubleGrid:
		return "double grid"
	case RoundDownToGrid:
		return "down to grid"
	case RoundUpToGrid:
		return "up to grid"
	case RoundOff:
		return "off"
	case RoundSuper:
		return "super"
	case RoundSuper45:
		return "super 45"
	}
	return "unknown"
}

// RoundState is the rounding part of the graphics state. Threshold, Phase
// and Period are only used by the super rounding modes.
type RoundState struct {
	Mode      RoundMode
	Threshold fixed.Int26_6
	Phase     fixed.Int26_6
	Period    fixed.Int26_6
}

var defaultRoundState = RoundState{Mode: RoundGrid, Period: 64}

// Round rounds the distance d. The result never has the opposite sign of d.
func (r RoundState) Round(d fixed.Int26_6) fixed.Int26_6 {
	switch r.Mode {
	case RoundHalfGrid:
		if d >= 0 {
			return max26(floor(d)+32, 0)
		}
		return min26(-(floor(-d) + 32), 0)
	case RoundGrid:
		if d >= 0 {
			return max26(round(d), 0)
		}
		return min26(-round(-d), 0)
	case RoundDoubleGrid:
		if d >= 0 {
			return max26(roundPad(d, 32), 0)
		}
		return min26(-roundPad(-d, 32), 0)
	case RoundDownToGrid:
		if d >= 0 {
			return max26(floor(d), 0)
		}
		return min26(-floor(-d), 0)
	case RoundUpToGrid:
		if d >= 0 {
			return max26(ceil(d), 0)
		}
		return min26(-ceil(-d), 0)
	case RoundSuper:
		if d >= 0 {
			v := ((d + r.Threshold - r.Phase) &^ (r.Period - 1)) + r.Phase
			if v < 0 {
				return r.Phase
			}
			return v
		}
		v := -(((r.Threshold - r.Phase - d) &^ (r.Period - 1)) + r.Phase)
		if v > 0 {
			return -r.Phase
		}
		return v
	case RoundSuper45:
		if r.Period == 0 {
			return d
		}
		if d >= 0 {
			v := ((d+r.Threshold-r.Phase)/r.Period)*r.Period + r.Phase
			if v < 0 {
				return r.Phase
			}
			return v
		}
		v := -(((r.Threshold-r.Phase-d)/r.Period)*r.Period + r.Phase)
		if v > 0 {
			return -r.Phase
		}
		return v
	}
	return d
}

// super configures super rounding from an SROUND or S45ROUND selector. The
// grid period is 1 pixel for SROUND and √2/2 pixels for S45ROUND, both in
// 18.14 fixed point.
func (r *RoundState) super(gridPeriod int32, selector int32, mode RoundMode) {
	var period int32
	switch selector & 0xc0 {
	case 0x00:
		period = gridPeriod / 2
	case 0x40:
		period = gridPeriod
	case 0x80:
		period = gridPeriod * 2
	case 0xc0:
		period = gridPeriod
	}
	var phase int32
	switch selector & 0x30 {
	case 0x10:
		phase = period / 4
	case 0x20:
		phase = period / 2
	case 0x30:
		phase = period * 3 / 4
	}
	var threshold int32
	if selector&0x0f == 0 {
		threshold = period - 1
	} else {
		threshold = ((selector & 0x0f) - 4) * period / 8
	}
	r.Mode = mode
	r.Period = fixed.Int26_6(period >> 8)
	r.Phase = fixed.Int26_6(phase >> 8)
	r.Threshold = fixed.Int26_6(threshold >> 8)
	if r.Period == 0 {
		r.Period = 1
	}
}

func max26(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}

func min26(a, b fixed.Int26_6) fixed.Int26_6 {
	if a < b {
		return a
	}
	return b
}
