// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"errors"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

type testSource struct {
	maxima     Maxima
	fpgm, prep []byte
	cvt        []int16
	axes       int
}

func (s *testSource) Maxima() Maxima              { return s.maxima }
func (s *testSource) FontProgram() []byte         { return s.fpgm }
func (s *testSource) ControlValueProgram() []byte { return s.prep }
func (s *testSource) ControlValues() []int16      { return s.cvt }
func (s *testSource) AxisCount() int              { return s.axes }

// counterSource defines function 0, which increments storage slot 0, and
// calls it three times from the control value program.
func counterSource() *testSource {
	return &testSource{
		maxima: Maxima{StackElements: 16, FunctionDefs: 4, InstructionDefs: 4, TwilightPoints: 4, Storage: 4},
		fpgm: []byte{
			opPUSHB000, 0,
			opFDEF,
			opPUSHB000, 0, opRS, // [s0]
			opPUSHB000, 1, opADD, // [s0+1]
			opPUSHB000, 0, opSWAP, // [0, s0+1]
			opWS,
			opENDF,
		},
		prep: []byte{
			opPUSHB001, 3, 0,
			opLOOPCALL,
		},
		cvt: []int16{100, -50},
	}
}

// newOutline returns an outline with one on-curve point at (64, 64) followed
// by the four phantom points, the advance being 640 units wide.
func newOutline(glyph GlyphID, bytecode ...byte) *Outline {
	orig := []fixed.Point26_6{{X: 64, Y: 64}, {}, {X: 640}, {}, {}}
	return &Outline{
		Glyph:    glyph,
		Original: orig,
		Points:   append([]fixed.Point26_6(nil), orig...),
		Flags:    []PointFlags{FlagOnCurve, 0, 0, 0, 0},
		Contours: []uint16{0},
		Bytecode: bytecode,
	}
}

func configured(t *testing.T, src Source, mode Mode) *Instance {
	in := &Instance{}
	require.NoError(t, in.Reconfigure(src, 2<<16, 16, mode, nil))
	return in
}

func TestInstanceRetainsStorage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	in := configured(t, counterSource(), Mode{})
	assert.True(t, in.IsEnabled())
	sc := in.NewScratch()
	require.NotNil(t, sc)

	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 0, opRS), sc))
	assert.Equal(t, int32(3), sc.Stack[0])

	// A glyph program writing storage only changes its own copy.
	require.NoError(t, in.Hint(newOutline(2, opPUSHB001, 0, 99, opWS, opPUSHB000, 0, opRS), sc))
	assert.Equal(t, int32(99), sc.Stack[0])
	require.NoError(t, in.Hint(newOutline(3, opPUSHB000, 0, opRS), sc))
	assert.Equal(t, int32(3), sc.Stack[0])
}

func TestInstanceScalesControlValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	in := configured(t, counterSource(), Mode{})
	sc := in.NewScratch()
	require.NoError(t, in.Hint(newOutline(1, opPUSHB001, 0, 1, opRCVT, opSWAP, opRCVT), sc))
	assert.Equal(t, []int32{-100, 200}, sc.Stack[:2])

	require.NoError(t, in.Hint(newOutline(1, opPUSHB001, 0, 7, opWCVTP, opPUSHB000, 0, opRCVT), sc))
	assert.Equal(t, int32(7), sc.Stack[0])
	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 0, opRCVT), sc))
	assert.Equal(t, int32(200), sc.Stack[0])
}

func TestInstanceFailedReconfigure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	src := counterSource()
	in := configured(t, src, Mode{})

	broken := counterSource()
	broken.prep = []byte{opPUSHB001, 64, 0, opDIV}
	err := in.Reconfigure(broken, 2<<16, 16, Mode{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDivideByZero)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, ControlValueProgram, herr.Program)

	// The previous configuration is still in effect.
	sc := in.NewScratch()
	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 0, opRS), sc))
	assert.Equal(t, int32(3), sc.Stack[0])
}

func TestInstanceGlyphErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	var unconfigured Instance
	assert.False(t, unconfigured.IsEnabled())
	assert.Nil(t, unconfigured.NewScratch())
	assert.ErrorIs(t, unconfigured.Hint(newOutline(1), &Scratch{}), ErrNotConfigured)

	in := configured(t, counterSource(), Mode{})
	sc := in.NewScratch()

	err := in.Hint(newOutline(7, opPUSHB001, 64, 0, opDIV), sc)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, GlyphID(7), herr.Glyph)
	assert.Equal(t, GlyphProgram, herr.Program)
	assert.Equal(t, ErrDivideByZero, herr.Kind)
	assert.Contains(t, err.Error(), "glyph 7")

	err = in.Hint(newOutline(8, opPUSHB000, 1, opFDEF, opENDF), sc)
	assert.ErrorIs(t, err, ErrDefinitionInGlyphProgram)

	err = in.Hint(newOutline(9, opPUSHB000, 0), &Scratch{})
	assert.ErrorIs(t, err, ErrInsufficientScratch)

	o := newOutline(10)
	o.Flags = o.Flags[:2]
	assert.ErrorIs(t, in.Hint(o, sc), ErrInvalidPointRange)

	// Storage is still intact after the failures.
	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 0, opRS), sc))
	assert.Equal(t, int32(3), sc.Stack[0])
}

func TestInstancePhantomPoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	// Move the advance phantom point one pixel to the right.
	prog := []byte{opPUSHB001, 2, 64, opSHPIX}

	in := configured(t, counterSource(), Mode{})
	assert.False(t, in.BackwardCompatibility())
	o := newOutline(1, prog...)
	require.NoError(t, in.Hint(o, in.NewScratch()))
	assert.Equal(t, fixed.Int26_6(704), o.Phantom[1].X)

	// In backward compatibility mode the phantom points keep their unhinted
	// positions.
	in = configured(t, counterSource(), Mode{Target: TargetSmooth})
	assert.True(t, in.BackwardCompatibility())
	o = newOutline(1, prog...)
	require.NoError(t, in.Hint(o, in.NewScratch()))
	assert.Equal(t, fixed.Int26_6(640), o.Phantom[1].X)
}

func TestInstanceInstructControl(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	src := counterSource()
	src.prep = []byte{opPUSHB001, 1, 1, opINSTCTRL}
	in := configured(t, src, Mode{})
	assert.False(t, in.IsEnabled())

	// INSTCTRL is ignored outside of the control value program.
	src = counterSource()
	src.fpgm = append(src.fpgm, opPUSHB001, 1, 1, opINSTCTRL)
	in = configured(t, src, Mode{})
	assert.True(t, in.IsEnabled())

	// Selector 3 switches backward compatibility off.
	src = counterSource()
	src.prep = []byte{opPUSHB001, 4, 3, opINSTCTRL}
	in = configured(t, src, Mode{Target: TargetSmooth})
	assert.False(t, in.BackwardCompatibility())
	o := newOutline(1, opPUSHB000, 0, opMDAP1)
	o.Points[0].X, o.Original[0].X = 100, 100
	require.NoError(t, in.Hint(o, in.NewScratch()))
	assert.Equal(t, fixed.Int26_6(128), o.Points[0].X)
}

func TestInstanceDefaultGraphicsState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	// The control value program switches rounding off. Glyph programs see
	// that, unless instruct control bit 1 is set.
	src := counterSource()
	src.prep = []byte{opROFF}
	in := configured(t, src, Mode{})
	sc := in.NewScratch()
	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 40, opROUND00), sc))
	assert.Equal(t, int32(40), sc.Stack[0])

	src.prep = []byte{opROFF, opPUSHB001, 2, 2, opINSTCTRL}
	in = configured(t, src, Mode{})
	require.NoError(t, in.Hint(newOutline(1, opPUSHB000, 40, opROUND00), sc))
	assert.Equal(t, int32(64), sc.Stack[0])
}

func TestInstanceVariations(t *testing.T) {
	src := counterSource()
	in := configured(t, src, Mode{})
	sc := in.NewScratch()
	err := in.Hint(newOutline(1, opGETVAR), sc)
	assert.ErrorIs(t, err, ErrUnhandledOpcode)

	src.axes = 2
	require.NoError(t, in.Reconfigure(src, 1<<16, 16, Mode{}, []int16{0x4000, -0x2000}))
	sc = in.NewScratch()
	require.NoError(t, in.Hint(newOutline(1, opGETVAR, opPUSHB000, 8, opGETINFO), sc))
	assert.Equal(t, []int32{0x4000, -0x2000, 1 << 10}, sc.Stack[:3])
}

func TestInstanceConcurrentHint(t *testing.T) {
	in := configured(t, counterSource(), Mode{})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sc := in.NewScratch()
			for j := 0; j < 100; j++ {
				o := newOutline(GlyphID(i), opPUSHB000, 0, opRS, opPUSHB000, 1, opADD,
					opPUSHB000, 0, opSWAP, opWS, opPUSHB000, 0, opRS)
				if err := in.Hint(o, sc); err != nil {
					errs <- err
					return
				}
				if sc.Stack[0] != 4 {
					errs <- errors.New("storage leaked between glyphs")
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
