// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

// newPointEngine returns a test engine whose glyph zone is a single contour
// through the given x coordinates, all at y = 0.
func newPointEngine(prog []byte, mode Mode, xs ...fixed.Int26_6) *engine {
	e := newTestEngine(prog)
	e.graphics.mode = mode
	n := len(xs)
	z := Zone{
		Original: make([]fixed.Point26_6, n),
		Points:   make([]fixed.Point26_6, n),
		Flags:    make([]PointFlags, n),
		Contours: []uint16{uint16(n - 1)},
	}
	for i, x := range xs {
		z.Original[i] = fixed.Point26_6{X: x}
		z.Points[i] = z.Original[i]
		z.Flags[i] = FlagOnCurve
	}
	e.zones[GlyphZone] = z
	e.zones[TwilightZone] = Zone{
		Original: make([]fixed.Point26_6, 4),
		Points:   make([]fixed.Point26_6, 4),
		Flags:    make([]PointFlags, 4),
	}
	return e
}

func xs(z Zone) []fixed.Int26_6 {
	out := make([]fixed.Int26_6, len(z.Points))
	for i, p := range z.Points {
		out[i] = p.X
	}
	return out
}

func TestPointMoves(t *testing.T) {
	testCases := []struct {
		desc string
		prog []byte
		xs   []fixed.Int26_6
		cvt  []int32
		want []fixed.Int26_6
	}{
		{
			"mdap rounds",
			[]byte{opPUSHB000, 0, opMDAP1},
			[]fixed.Int26_6{100},
			nil,
			[]fixed.Int26_6{128},
		},
		{
			"mdap without rounding",
			[]byte{opPUSHB000, 0, opMDAP0},
			[]fixed.Int26_6{100},
			nil,
			[]fixed.Int26_6{100},
		},
		{
			"miap",
			[]byte{opPUSHB001, 0, 0, opMIAP0},
			[]fixed.Int26_6{100},
			[]int32{200},
			[]fixed.Int26_6{200},
		},
		{
			"miap beyond cut-in",
			// 200 is more than 17/16 pixels away from 100, so the current
			// position is rounded instead.
			[]byte{opPUSHB001, 0, 0, opMIAP1},
			[]fixed.Int26_6{100},
			[]int32{200},
			[]fixed.Int26_6{128},
		},
		{
			"mdrp with rounding and minimum distance",
			[]byte{
				opPUSHB000, 0, opSRP0,
				opPUSHB000, 1, opMDRP00000 | flagRound | flagMinDistance,
			},
			[]fixed.Int26_6{0, 50},
			nil,
			[]fixed.Int26_6{0, 64},
		},
		{
			"mirp",
			[]byte{
				opPUSHB000, 0, opSRP0,
				opPUSHB001, 1, 0, opMIRP00000,
			},
			[]fixed.Int26_6{0, 50},
			[]int32{128},
			[]fixed.Int26_6{0, 128},
		},
		{
			"msirp",
			[]byte{
				opPUSHB000, 0, opSRP0,
				opPUSHB001, 1, 96, opMSIRP0,
			},
			[]fixed.Int26_6{10, 50},
			nil,
			[]fixed.Int26_6{10, 106},
		},
		{
			"shpix",
			[]byte{opPUSHB001, 1, 64, opSHPIX},
			[]fixed.Int26_6{0, 50},
			nil,
			[]fixed.Int26_6{0, 114},
		},
		{
			"shpix with loop",
			[]byte{opPUSHB000, 2, opSLOOP, opPUSHB010, 0, 1, 64, opSHPIX},
			[]fixed.Int26_6{0, 50},
			nil,
			[]fixed.Int26_6{64, 114},
		},
		{
			"alignrp",
			[]byte{
				opPUSHB000, 0, opSRP0,
				opPUSHB000, 2, opALIGNRP,
			},
			[]fixed.Int26_6{30, 50, 100},
			nil,
			[]fixed.Int26_6{30, 50, 30},
		},
		{
			"alignpts",
			[]byte{opPUSHB001, 0, 1, opALIGNPTS},
			[]fixed.Int26_6{0, 100},
			nil,
			[]fixed.Int26_6{50, 50},
		},
		{
			"scfs",
			[]byte{opPUSHB001, 0, 192, opSCFS},
			[]fixed.Int26_6{7},
			nil,
			[]fixed.Int26_6{192},
		},
		{
			"shp follows rp2",
			[]byte{
				opPUSHB001, 0, 128, opSCFS, // point 0 moves by 128
				opPUSHB000, 0, opSRP2,
				opPUSHB000, 1, opSHP0,
			},
			[]fixed.Int26_6{0, 10, 20},
			nil,
			[]fixed.Int26_6{128, 138, 20},
		},
		{
			"shc shifts the contour but the reference",
			[]byte{
				opPUSHB001, 0, 128, opSCFS,
				opPUSHB000, 0, opSRP2,
				opPUSHB000, 0, opSHC0,
			},
			[]fixed.Int26_6{0, 10, 20},
			nil,
			[]fixed.Int26_6{128, 138, 148},
		},
	}
	for _, tc := range testCases {
		e := newPointEngine(tc.prog, Mode{}, tc.xs...)
		for i, v := range tc.cvt {
			e.cvt.set(i, v)
		}
		if err := e.run(FontProgram); err != nil {
			t.Errorf("%s: got error %q, want none", tc.desc, err)
			continue
		}
		assert.Equal(t, tc.want, xs(e.zones[GlyphZone]), tc.desc)
	}
}

func TestMoveTouches(t *testing.T) {
	e := newPointEngine([]byte{opPUSHB000, 0, opMDAP1}, Mode{}, 100)
	require.NoError(t, e.run(FontProgram))
	z := e.zones[GlyphZone]
	assert.Equal(t, FlagOnCurve|FlagTouchedX, z.Flags[0])

	e = newPointEngine([]byte{opPUSHB000, 0, opUTP}, Mode{}, 100)
	e.zones[GlyphZone].Flags[0] |= FlagTouched
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, FlagOnCurve|FlagTouchedY, e.zones[GlyphZone].Flags[0])
}

func TestInterpolate(t *testing.T) {
	e := newPointEngine([]byte{
		opPUSHB000, 0, opSRP1,
		opPUSHB000, 2, opSRP2,
		opPUSHB000, 1, opIP,
	}, Mode{}, 0, 50, 100)
	e.zones[GlyphZone].Points[2].X = 200
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, fixed.Int26_6(100), e.zones[GlyphZone].Points[1].X)
}

func TestIUP(t *testing.T) {
	// Points 0 and 2 are touched; point 1 is interpolated between them.
	e := newPointEngine([]byte{opIUP1}, Mode{}, 0, 50, 100)
	z := &e.zones[GlyphZone]
	z.Points[0].X, z.Points[2].X = 10, 120
	z.touch(0, FlagTouchedX)
	z.touch(2, FlagTouchedX)
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, []fixed.Int26_6{10, 65, 120}, xs(*z))

	// A single touched point shifts the whole contour.
	e = newPointEngine([]byte{opIUP1}, Mode{}, 0, 50, 100)
	z = &e.zones[GlyphZone]
	z.Points[1].X = 60
	z.touch(1, FlagTouchedX)
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, []fixed.Int26_6{10, 60, 110}, xs(*z))

	// IUP[y] leaves x alone.
	e = newPointEngine([]byte{opIUP0}, Mode{}, 0, 50, 100)
	z = &e.zones[GlyphZone]
	z.Points[1].X = 60
	z.touch(1, FlagTouchedX)
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, []fixed.Int26_6{0, 60, 100}, xs(*z))
}

func TestIntersect(t *testing.T) {
	e := newTestEngine([]byte{opPUSHB100, 4, 0, 1, 2, 3, opISECT})
	n := 5
	e.zones[GlyphZone] = Zone{
		Original: make([]fixed.Point26_6, n),
		Points: []fixed.Point26_6{
			{X: 0, Y: 0}, {X: 128, Y: 128}, // line a
			{X: 0, Y: 128}, {X: 128, Y: 0}, // line b
			{X: 7, Y: 7},
		},
		Flags: make([]PointFlags, n),
	}
	require.NoError(t, e.run(FontProgram))
	z := e.zones[GlyphZone]
	assert.Equal(t, fixed.Point26_6{X: 64, Y: 64}, z.Points[4])
	assert.Equal(t, FlagTouched, z.Flags[4])
}

func TestFlipOnCurve(t *testing.T) {
	e := newPointEngine([]byte{
		opPUSHB000, 0, opFLIPPT,
		opPUSHB001, 1, 2, opFLIPRGOFF,
	}, Mode{}, 0, 10, 20)
	require.NoError(t, e.run(FontProgram))
	z := e.zones[GlyphZone]
	assert.False(t, z.Flags[0].IsOnCurve())
	assert.True(t, z.Flags[1].IsOffCurveQuad())
	assert.True(t, z.Flags[2].IsOffCurveQuad())
}

func TestTwilightMIRP(t *testing.T) {
	// MIRP into the twilight zone creates the point at the control value
	// distance from rp0.
	e := newPointEngine([]byte{
		opPUSHB000, 0, opSZP1,
		opPUSHB000, 0, opSRP0,
		opPUSHB001, 1, 0, opMIRP00000,
	}, Mode{}, 64)
	e.cvt.set(0, 128)
	require.NoError(t, e.run(FontProgram))
	tz := e.zones[TwilightZone]
	assert.Equal(t, fixed.Int26_6(192), tz.Original[1].X)
	assert.Equal(t, fixed.Int26_6(192), tz.Points[1].X)
}

func TestPointErrors(t *testing.T) {
	testCases := []struct {
		desc string
		prog []byte
		want ErrorKind
	}{
		{"point out of range", []byte{opPUSHB000, 9, opMDAP0}, ErrInvalidPointIndex},
		{"range out of order", []byte{opPUSHB001, 1, 0, opFLIPRGON}, ErrInvalidPointRange},
		{"contour out of range", []byte{opPUSHB000, 3, opSHC0}, ErrInvalidContourIndex},
		{"control value out of range", []byte{opPUSHB001, 0, 9, opMIAP0}, ErrInvalidCVTIndex},
	}
	for _, tc := range testCases {
		e := newPointEngine(tc.prog, Mode{}, 0, 10)
		assert.ErrorIs(t, e.run(FontProgram), tc.want, tc.desc)
	}
}

func TestBackwardCompatibility(t *testing.T) {
	smooth := Mode{Target: TargetSmooth}

	// Horizontal moves are dropped, but the point is still touched.
	e := newPointEngine([]byte{opPUSHB000, 0, opMDAP1}, smooth, 100)
	require.NoError(t, e.run(FontProgram))
	z := e.zones[GlyphZone]
	assert.Equal(t, fixed.Int26_6(100), z.Points[0].X)
	assert.Equal(t, FlagOnCurve|FlagTouchedX, z.Flags[0])

	// Vertical moves work until both IUPs have run.
	e = newPointEngine([]byte{
		opSVTCA0,
		opPUSHB001, 0, 64, opSHPIX, // no effect, point 0 is untouched in y
		opPUSHB001, 0, 100, opSCFS,
		opPUSHB001, 0, 64, opSHPIX,
		opIUP0, opIUP1,
		opPUSHB001, 0, 64, opSHPIX, // no effect after IUP
	}, smooth, 0)
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, fixed.Int26_6(164), e.zones[GlyphZone].Points[0].Y)
	assert.True(t, e.graphics.inPostIUP())

	// Native ClearType fonts switch backward compatibility off.
	e = newPointEngine([]byte{opPUSHB000, 0, opMDAP1}, smooth, 100)
	e.graphics.instructControl = instructControlNativeClearType
	require.NoError(t, e.run(FontProgram))
	assert.Equal(t, fixed.Int26_6(128), e.zones[GlyphZone].Points[0].X)
}
