// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/image/math/fixed"
)

// GlyphID is a glyph index. It only labels errors.
type GlyphID uint32

// ErrNotConfigured is returned by Hint before the first successful
// Reconfigure.
var ErrNotConfigured = errors.New("hinting: instance not configured")

// twilightPhantoms is the number of twilight points allocated beyond the
// font's declared maximum.
const twilightPhantoms = 4

// stackSlack is added to the font's declared stack depth. Many fonts
// understate it.
const stackSlack = 32

// Maxima are the limits a font declares in its maxp table.
type Maxima struct {
	StackElements   int
	FunctionDefs    int
	InstructionDefs int
	TwilightPoints  int
	Storage         int
}

// A Source supplies the font-level hinting data.
type Source interface {
	Maxima() Maxima
	FontProgram() []byte
	ControlValueProgram() []byte
	// ControlValues returns the control value table in font units.
	ControlValues() []int16
	// AxisCount returns the number of variation axes, or 0.
	AxisCount() int
}

// snapshot is the retained state produced by a successful Reconfigure. It is
// never modified after it has been published.
type snapshot struct {
	bytecode         [2][]byte
	functions        []definition
	instructions     []definition
	cvt              []int32
	storage          []int32
	twilightOriginal []fixed.Point26_6
	twilightPoints   []fixed.Point26_6
	twilightFlags    []PointFlags
	graphics         retainedGraphicsState
	stackSize        int
	axisCount        int
	coords           []int16
}

// An Instance holds the hinting state of a font at one size and mode.
//
// Hint may be called concurrently, with one Scratch per goroutine.
// Reconfigure may run at the same time: glyphs hinted meanwhile use the
// configuration that was current when Hint started.
type Instance struct {
	mu   sync.Mutex // serializes Reconfigure
	snap atomic.Pointer[snapshot]
}

// Reconfigure runs the font program and the control value program of src
// for the given 16.16 scale factor, pixels per em, mode and normalized
// variation coordinates. If either program fails the previous configuration
// stays in effect and the error is returned.
func (in *Instance) Reconfigure(src Source, scale int32, ppem int32, mode Mode, coords []int16) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	m := src.Maxima()
	s := &snapshot{
		bytecode: [2][]byte{
			append([]byte(nil), src.FontProgram()...),
			append([]byte(nil), src.ControlValueProgram()...),
		},
		functions:        make([]definition, m.FunctionDefs),
		instructions:     make([]definition, m.InstructionDefs),
		storage:          make([]int32, m.Storage),
		twilightOriginal: make([]fixed.Point26_6, m.TwilightPoints+twilightPhantoms),
		twilightPoints:   make([]fixed.Point26_6, m.TwilightPoints+twilightPhantoms),
		twilightFlags:    make([]PointFlags, m.TwilightPoints+twilightPhantoms),
		stackSize:        m.StackElements + stackSlack,
		axisCount:        src.AxisCount(),
		coords:           append([]int16(nil), coords...),
	}
	raw := src.ControlValues()
	s.cvt = make([]int32, len(raw))
	for i, v := range raw {
		s.cvt[i] = mulFix(int32(v), scale)
	}
	tracer().Debugf("hinting: reconfigure ppem=%d scale=%#x target=%d cvt=%d storage=%d twilight=%d",
		ppem, scale, mode.Target, len(s.cvt), len(s.storage), len(s.twilightPoints))

	functions := definitionMap{defs: s.functions, mutable: true}
	instructions := definitionMap{defs: s.instructions, mutable: true}
	e := &engine{
		program: programState{
			bytecode: [3][]byte{FontProgram: s.bytecode[0], ControlValueProgram: s.bytecode[1]},
		},
		graphics: graphicsState{retainedGraphicsState: newRetainedGraphicsState(scale, ppem, mode)},
		stack:    newValueStack(make([]int32, s.stackSize)),
		cvt:      newMutableSlice(s.cvt),
		storage:  newMutableSlice(s.storage),
		zones: [2]Zone{
			TwilightZone: {
				Original: s.twilightOriginal,
				Points:   s.twilightPoints,
				Flags:    s.twilightFlags,
			},
		},
		functions:    &functions,
		instructions: &instructions,
		coords:       s.coords,
		axisCount:    s.axisCount,
	}
	if len(s.bytecode[0]) > 0 {
		if err := e.run(FontProgram); err != nil {
			tracer().Errorf("hinting: font program: %v", err)
			return err
		}
	}
	// The control value program always starts from the default state,
	// whatever the font program did to it.
	e.graphics.retainedGraphicsState = newRetainedGraphicsState(scale, ppem, mode)
	e.stack.clear()
	if len(s.bytecode[1]) > 0 {
		if err := e.run(ControlValueProgram); err != nil {
			tracer().Errorf("hinting: control value program: %v", err)
			return err
		}
	}
	s.graphics = e.graphics.retainedGraphicsState
	in.snap.Store(s)
	return nil
}

// IsEnabled reports whether glyphs should be hinted at all. The control
// value program may switch hinting off for the current configuration.
func (in *Instance) IsEnabled() bool {
	s := in.snap.Load()
	return s != nil && s.graphics.instructControl&instructControlDisable == 0
}

// BackwardCompatibility reports whether glyph programs run in backward
// compatibility mode, in which case Hint leaves the phantom points alone.
func (in *Instance) BackwardCompatibility() bool {
	s := in.snap.Load()
	if s == nil {
		return false
	}
	return s.graphics.mode.isSmooth() && s.graphics.instructControl&instructControlNativeClearType == 0
}

// Scratch is the caller-owned working memory of a Hint call. A Scratch must
// not be used by two Hint calls at the same time.
type Scratch struct {
	Stack            []int32
	CVT              []int32
	CVTDirty         []uint64
	Storage          []int32
	StorageDirty     []uint64
	TwilightOriginal []fixed.Point26_6
	TwilightPoints   []fixed.Point26_6
	TwilightFlags    []PointFlags
}

// NewScratch returns a Scratch sized for the current configuration. It
// returns nil if the instance is not configured.
func (in *Instance) NewScratch() *Scratch {
	s := in.snap.Load()
	if s == nil {
		return nil
	}
	n := len(s.twilightPoints)
	return &Scratch{
		Stack:            make([]int32, s.stackSize),
		CVT:              make([]int32, len(s.cvt)),
		CVTDirty:         make([]uint64, dirtyWords(len(s.cvt))),
		Storage:          make([]int32, len(s.storage)),
		StorageDirty:     make([]uint64, dirtyWords(len(s.storage))),
		TwilightOriginal: make([]fixed.Point26_6, n),
		TwilightPoints:   make([]fixed.Point26_6, n),
		TwilightFlags:    make([]PointFlags, n),
	}
}

func (sc *Scratch) fits(s *snapshot) bool {
	n := len(s.twilightPoints)
	return sc != nil &&
		len(sc.Stack) >= s.stackSize &&
		len(sc.CVT) >= len(s.cvt) && len(sc.CVTDirty) >= dirtyWords(len(s.cvt)) &&
		len(sc.Storage) >= len(s.storage) && len(sc.StorageDirty) >= dirtyWords(len(s.storage)) &&
		len(sc.TwilightOriginal) >= n && len(sc.TwilightPoints) >= n && len(sc.TwilightFlags) >= n
}

// An Outline is a scaled glyph outline to be hinted in place.
//
// Points and Original hold the scaled outline followed by the four phantom
// points: horizontal origin, advance, vertical origin and vertical advance.
// Unscaled holds the same points in font units and may be nil.
type Outline struct {
	Glyph       GlyphID
	Unscaled    []Point
	Original    []fixed.Point26_6
	Points      []fixed.Point26_6
	Flags       []PointFlags
	Contours    []uint16
	Bytecode    []byte
	IsComposite bool

	// Phantom receives the hinted phantom points. Outside of backward
	// compatibility mode they are copied from the end of Points, otherwise
	// they keep their unhinted positions.
	Phantom [4]fixed.Point26_6
}

// Hint runs the glyph program of o. The retained state of the instance is
// not changed, whatever the glyph program does.
func (in *Instance) Hint(o *Outline, sc *Scratch) error {
	s := in.snap.Load()
	if s == nil {
		return ErrNotConfigured
	}
	n := len(o.Points)
	if n < len(o.Phantom) || len(o.Original) != n || len(o.Flags) != n ||
		(o.Unscaled != nil && len(o.Unscaled) != n) {
		return &Error{Program: GlyphProgram, Glyph: o.Glyph, Kind: ErrInvalidPointRange}
	}
	if !sc.fits(s) {
		return &Error{Program: GlyphProgram, Glyph: o.Glyph, Kind: ErrInsufficientScratch}
	}
	copy(o.Phantom[:], o.Original[n-len(o.Phantom):])
	if len(o.Bytecode) == 0 {
		return nil
	}

	nt := len(s.twilightPoints)
	twilight := Zone{
		Original: sc.TwilightOriginal[:nt],
		Points:   sc.TwilightPoints[:nt],
		Flags:    sc.TwilightFlags[:nt],
	}
	copy(twilight.Original, s.twilightOriginal)
	copy(twilight.Points, s.twilightPoints)
	copy(twilight.Flags, s.twilightFlags)
	glyph := Zone{
		Unscaled: o.Unscaled,
		Original: o.Original,
		Points:   o.Points,
		Flags:    o.Flags,
		Contours: o.Contours,
	}
	glyph.clearHintingFlags()

	graphics := s.graphics
	if graphics.instructControl&instructControlDefaultGraphics != 0 {
		graphics = newRetainedGraphicsState(graphics.scale, graphics.ppem, graphics.mode)
		graphics.instructControl = s.graphics.instructControl
	}
	functions := definitionMap{defs: s.functions}
	instructions := definitionMap{defs: s.instructions}
	e := &engine{
		program: programState{
			bytecode: [3][]byte{s.bytecode[0], s.bytecode[1], o.Bytecode},
		},
		graphics: graphicsState{
			retainedGraphicsState: graphics,
			isComposite:           o.IsComposite,
		},
		stack:        newValueStack(sc.Stack[:s.stackSize]),
		cvt:          newCowSlice(s.cvt, sc.CVT, sc.CVTDirty),
		storage:      newCowSlice(s.storage, sc.Storage, sc.StorageDirty),
		zones:        [2]Zone{TwilightZone: twilight, GlyphZone: glyph},
		functions:    &functions,
		instructions: &instructions,
		coords:       s.coords,
		axisCount:    s.axisCount,
	}
	if err := e.run(GlyphProgram); err != nil {
		var herr *Error
		if errors.As(err, &herr) {
			herr.Glyph = o.Glyph
		}
		tracer().Errorf("hinting: %v", err)
		return err
	}
	if !e.graphics.backwardCompatibility {
		copy(o.Phantom[:], o.Points[n-len(o.Phantom):])
	}
	return nil
}
