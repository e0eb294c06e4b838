// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"encoding/binary"
	"sort"
	"testing"
	"unicode/utf16"

	"github.com/goki/hinting/hint"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	hintMono   = hint.Mode{Target: hint.TargetMono}
	hintSmooth = hint.Mode{Target: hint.TargetSmooth}
)

// testUnitsPerEm makes one FUnit one 26.6 unit at a 16 pixel em.
const testUnitsPerEm = 1024

// A testComponent places a glyph inside a compound glyph.
type testComponent struct {
	glyph  Index
	dx, dy int16
}

// A testGlyph is either simple, with points and contour ends, or compound.
type testGlyph struct {
	points     []Point
	ends       []uint16
	components []testComponent
	program    []byte
	advance    uint16
	lsb        int16
}

// testFont describes a font assembled by build.
type testFont struct {
	glyphs    []testGlyph
	fpgm      []byte
	prep      []byte
	cvt       []int16
	names     map[NameID]string
	macNames  map[NameID]string
	cmapStart rune // runes cmapStart.. map to glyphs 1..
}

type writer []byte

func (w *writer) u16(v uint16) { *w = binary.BigEndian.AppendUint16(*w, v) }
func (w *writer) u32(v uint32) { *w = binary.BigEndian.AppendUint32(*w, v) }

func (g *testGlyph) encode() []byte {
	var w writer
	if len(g.components) > 0 {
		w.u16(0xffff)
		w.u16(0)
		w.u16(0)
		w.u16(0)
		w.u16(0)
		for k, c := range g.components {
			flags := uint16(0x0001 | 0x0002) // words, xy values
			if k < len(g.components)-1 {
				flags |= 0x0020
			} else if len(g.program) > 0 {
				flags |= 0x0100
			}
			w.u16(flags)
			w.u16(uint16(c.glyph))
			w.u16(uint16(c.dx))
			w.u16(uint16(c.dy))
		}
		if len(g.program) > 0 {
			w.u16(uint16(len(g.program)))
			w = append(w, g.program...)
		}
		return w
	}
	if len(g.points) == 0 {
		return nil
	}
	b := Bounds{XMin: 1 << 20, YMin: 1 << 20, XMax: -1 << 20, YMax: -1 << 20}
	for _, p := range g.points {
		b.XMin, b.XMax = min(b.XMin, p.X), max(b.XMax, p.X)
		b.YMin, b.YMax = min(b.YMin, p.Y), max(b.YMax, p.Y)
	}
	w.u16(uint16(len(g.ends)))
	w.u16(uint16(b.XMin))
	w.u16(uint16(b.YMin))
	w.u16(uint16(b.XMax))
	w.u16(uint16(b.YMax))
	for _, e := range g.ends {
		w.u16(e)
	}
	w.u16(uint16(len(g.program)))
	w = append(w, g.program...)
	for _, p := range g.points {
		w = append(w, byte(p.Flags&flagOnCurve))
	}
	var x, y int32
	for _, p := range g.points {
		w.u16(uint16(p.X - x))
		x = p.X
	}
	for _, p := range g.points {
		w.u16(uint16(p.Y - y))
		y = p.Y
	}
	return w
}

func utf16BE(s string) []byte {
	var w writer
	for _, u := range utf16.Encode([]rune(s)) {
		w.u16(u)
	}
	return w
}

func (tf *testFont) build() []byte {
	tables := map[string][]byte{}
	n := len(tf.glyphs)

	var head writer
	head.u32(0x00010000)
	head = append(head, make([]byte, 14)...)
	head.u16(testUnitsPerEm)
	head = append(head, make([]byte, 16)...)
	head.u16(uint16(0xfff6)) // -10
	head.u16(0)
	head.u16(1000)
	head.u16(1000)
	head = append(head, make([]byte, 6)...)
	head.u16(1) // long loca
	head.u16(0)
	tables["head"] = head

	var maxp writer
	maxp.u32(0x00010000)
	maxp.u16(uint16(n))
	maxp = append(maxp, make([]byte, 10)...)
	maxp.u16(2)  // twilight points
	maxp.u16(4)  // storage
	maxp.u16(4)  // function defs
	maxp.u16(0)  // instruction defs
	maxp.u16(32) // stack elements
	maxp = append(maxp, make([]byte, 6)...)
	tables["maxp"] = maxp

	hhea := make(writer, 34, 36)
	hhea.u16(uint16(n))
	tables["hhea"] = hhea

	var hmtx, loca, glyf writer
	for _, g := range tf.glyphs {
		hmtx.u16(g.advance)
		hmtx.u16(uint16(g.lsb))
		loca.u32(uint32(len(glyf)))
		glyf = append(glyf, g.encode()...)
		if len(glyf)%2 != 0 {
			glyf = append(glyf, 0)
		}
	}
	loca.u32(uint32(len(glyf)))
	tables["hmtx"], tables["loca"], tables["glyf"] = hmtx, loca, glyf

	var cmap writer
	cmap.u16(0)
	cmap.u16(1)
	cmap.u16(3)
	cmap.u16(1)
	cmap.u32(12)
	start, end := uint16(tf.cmapStart), uint16(tf.cmapStart)+uint16(n-2)
	cmap.u16(4)
	cmap.u16(32)
	cmap.u16(0)
	cmap.u16(4) // two segments
	cmap = append(cmap, make([]byte, 6)...)
	cmap.u16(end)
	cmap.u16(0xffff)
	cmap.u16(0)
	cmap.u16(start)
	cmap.u16(0xffff)
	cmap.u16(1 - start)
	cmap.u16(1)
	cmap.u16(0)
	cmap.u16(0)
	tables["cmap"] = cmap

	if len(tf.cvt) > 0 {
		var cvt writer
		for _, v := range tf.cvt {
			cvt.u16(uint16(v))
		}
		tables["cvt "] = cvt
	}
	if len(tf.fpgm) > 0 {
		tables["fpgm"] = tf.fpgm
	}
	if len(tf.prep) > 0 {
		tables["prep"] = tf.prep
	}
	if len(tf.names)+len(tf.macNames) > 0 {
		type record struct {
			platform, encoding, language uint16
			id                           NameID
			s                            []byte
		}
		var records []record
		for id, s := range tf.macNames {
			records = append(records, record{platformMacintosh, 0, 0, id, []byte(s)})
		}
		for id, s := range tf.names {
			records = append(records, record{platformMicrosoft, 1, 0x0409, id, utf16BE(s)})
		}
		var name, storage writer
		name.u16(0)
		name.u16(uint16(len(records)))
		name.u16(uint16(6 + 12*len(records)))
		for _, r := range records {
			name.u16(r.platform)
			name.u16(r.encoding)
			name.u16(r.language)
			name.u16(uint16(r.id))
			name.u16(uint16(len(r.s)))
			name.u16(uint16(len(storage)))
			storage = append(storage, r.s...)
		}
		tables["name"] = append(name, storage...)
	}

	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	var ttf writer
	ttf.u32(0x00010000)
	ttf.u16(uint16(len(tags)))
	ttf = append(ttf, make([]byte, 6)...)
	offset := 12 + 16*len(tags)
	var body writer
	for _, tag := range tags {
		t := tables[tag]
		ttf = append(ttf, tag...)
		ttf.u32(0)
		ttf.u32(uint32(offset + len(body)))
		ttf.u32(uint32(len(t)))
		body = append(body, t...)
		for len(body)%4 != 0 {
			body = append(body, 0)
		}
	}
	return append(ttf, body...)
}

// square is a 490 by 650 unit contour, starting 10 units right of the
// origin.
var square = []Point{
	{X: 10, Y: 0, Flags: flagOnCurve},
	{X: 10, Y: 650, Flags: flagOnCurve},
	{X: 500, Y: 650, Flags: flagOnCurve},
	{X: 500, Y: 0, Flags: flagOnCurve},
}

// newTestFont returns a font whose function 0 rounds the height of point 1.
//
//	'A' (glyph 1) calls function 0 and rounds the x of point 1.
//	'B' (glyph 2) divides by zero.
//	'C' (glyph 3) is 'A' moved right by one pixel.
//	'D' (glyph 4) is 'A' moved right by one pixel, with a program rounding
//	    the x of point 0.
//	'E' (glyph 5) has no contours.
func newTestFont(prep []byte) *testFont {
	return &testFont{
		fpgm: []byte{
			0xb0, 0, // PUSHB[0] 0
			0x2c,    // FDEF
			0x00,    // SVTCA[y]
			0xb0, 1, // PUSHB[0] 1
			0x2f, // MDAP[rnd]
			0x2d, // ENDF
		},
		prep: prep,
		cvt:  []int16{64, 128},
		glyphs: []testGlyph{
			{advance: 500},
			{
				points:  square,
				ends:    []uint16{3},
				advance: 600,
				lsb:     10,
				program: []byte{
					0xb0, 0, // PUSHB[0] 0
					0x2b,    // CALL
					0x01,    // SVTCA[x]
					0xb0, 1, // PUSHB[0] 1
					0x2f, // MDAP[rnd]
				},
			},
			{
				points:  square,
				ends:    []uint16{3},
				advance: 600,
				lsb:     10,
				program: []byte{
					0xb1, 1, 0, // PUSHB[1] 1 0
					0x62, // DIV
				},
			},
			{
				components: []testComponent{{glyph: 1, dx: 64}},
				advance:    600,
			},
			{
				components: []testComponent{{glyph: 1, dx: 64}},
				advance:    600,
				program: []byte{
					0x01,    // SVTCA[x]
					0xb0, 0, // PUSHB[0] 0
					0x2f, // MDAP[rnd]
				},
			},
			{advance: 256},
		},
		names: map[NameID]string{
			NameIDFontFamily: "Hint Test",
		},
		macNames: map[NameID]string{
			NameIDFontFamily:   "Mac Hint Test",
			NameIDFontFullName: "Caf\x8e",
		},
		cmapStart: 'A',
	}
}

func parseTestFont(t *testing.T, prep []byte) *Font {
	f, err := Parse(newTestFont(prep).build())
	require.NoError(t, err)
	return f
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	assert.Equal(t, testUnitsPerEm, f.UnitsPerEm())
	assert.Equal(t, 6, f.NumGlyphs())
	assert.Equal(t, Bounds{XMin: -10, YMin: 0, XMax: 1000, YMax: 1000}, f.Bounds())
	assert.Equal(t, HMetric{AdvanceWidth: 600, LeftSideBearing: 10}, f.HMetric(1))
	assert.Equal(t, HMetric{}, f.HMetric(100))
	assert.Equal(t, []int16{64, 128}, f.ControlValues())
	assert.Equal(t, 0, f.AxisCount())
	assert.Len(t, f.FontProgram(), 8)
	assert.Empty(t, f.ControlValueProgram())
	m := f.Maxima()
	assert.Equal(t, 2, m.TwilightPoints)
	assert.Equal(t, 4, m.Storage)
	assert.Equal(t, 4, m.FunctionDefs)
	assert.Equal(t, 0, m.InstructionDefs)
	assert.Equal(t, 32, m.StackElements)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	ttf := newTestFont(nil).build()
	_, err := Parse(ttf[:8])
	assert.ErrorContains(t, err, "too short")

	bad := append([]byte(nil), ttf...)
	bad[0] = 'O'
	_, err = Parse(bad)
	assert.ErrorContains(t, err, "bad version")

	_, err = Parse(ttf[:len(ttf)-64])
	var ferr FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	for r, want := range map[rune]Index{'A': 1, 'B': 2, 'E': 5, 'F': 0, ' ': 0, 0x1f600: 0} {
		assert.Equal(t, want, f.Index(r), "rune %q", r)
	}
}

func TestName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	name, err := f.Name(NameIDFontFamily)
	require.NoError(t, err)
	assert.Equal(t, "Hint Test", name)
	name, err = f.Name(NameIDFontFullName)
	require.NoError(t, err)
	assert.Equal(t, "Café", name)
	name, err = f.Name(NameIDDesignerName)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestLoadUnhinted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	g := NewGlyphBuf()
	require.NoError(t, g.Load(f, fixed16, 1, nil))
	assert.Equal(t, square, g.Point)
	assert.Equal(t, square, g.InFontUnits)
	assert.Equal(t, []int{4}, g.End)
	assert.EqualValues(t, 600, g.AdvanceWidth)
	assert.Equal(t, Bounds{XMin: 10, YMin: 0, XMax: 500, YMax: 650}, g.B)

	// At an 8 pixel em every 26.6 co-ordinate is half its FUnit value.
	require.NoError(t, g.Load(f, fixed16/2, 1, nil))
	assert.Equal(t, Point{X: 5, Y: 325, Flags: flagOnCurve}, g.Point[1])
	assert.EqualValues(t, 300, g.AdvanceWidth)

	require.NoError(t, g.Load(f, fixed16, 5, nil))
	assert.Empty(t, g.Point)
	assert.Empty(t, g.End)
	assert.EqualValues(t, 256, g.AdvanceWidth)

	assert.Error(t, g.Load(f, fixed16, 6, nil))
}

// fixed16 is a 16 pixel em.
const fixed16 = 16 << 6

func TestLoadHinted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	g := NewGlyphBuf()

	mono := (&Options{Size: 16, Hinting: font.HintingFull}).NewHinter()
	require.NotNil(t, mono)
	require.NoError(t, g.Load(f, fixed16, 1, mono))
	require.NoError(t, g.HintErr)
	assert.Equal(t, Point{X: 0, Y: 640, Flags: flagOnCurve}, g.Point[1])
	assert.Equal(t, square[1], g.Unhinted[1])
	assert.Equal(t, square, g.InFontUnits)
	assert.EqualValues(t, 576, g.AdvanceWidth)
	assert.False(t, mono.BackwardCompatibility())

	smooth := (&Options{Size: 16, Hinting: font.HintingVertical}).NewHinter()
	require.NoError(t, g.Load(f, fixed16, 1, smooth))
	require.NoError(t, g.HintErr)
	assert.Equal(t, Point{X: 10, Y: 640, Flags: flagOnCurve}, g.Point[1])
	assert.EqualValues(t, 576, g.AdvanceWidth)
	assert.True(t, smooth.BackwardCompatibility())
}

func TestLoadFallsBackToUnhinted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	g := NewGlyphBuf()
	h := NewHinter(hintMono)
	require.NoError(t, g.Load(f, fixed16, 2, h))
	assert.ErrorIs(t, g.HintErr, hint.ErrDivideByZero)
	assert.Equal(t, square, g.Point)
	assert.EqualValues(t, 600, g.AdvanceWidth)

	// The next glyph is hinted again.
	require.NoError(t, g.Load(f, fixed16, 1, h))
	assert.NoError(t, g.HintErr)
	assert.EqualValues(t, 0, g.Point[1].X)
}

func TestLoadCompound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, nil)
	g := NewGlyphBuf()
	require.NoError(t, g.Load(f, fixed16, 3, nil))
	require.Len(t, g.Point, 4)
	assert.Equal(t, []int{4}, g.End)
	assert.Equal(t, Point{X: 74, Y: 650, Flags: flagOnCurve}, g.Point[1])
	assert.Equal(t, Point{X: 74, Y: 650, Flags: flagOnCurve}, g.InFontUnits[1])

	h := NewHinter(hintMono)
	require.NoError(t, g.Load(f, fixed16, 3, h))
	assert.Equal(t, Point{X: 64, Y: 640, Flags: flagOnCurve}, g.Point[1])
	assert.Equal(t, Point{X: 74, Y: 0, Flags: flagOnCurve}, g.Point[0])

	// 'D' rounds point 0 in its own program, after its component is hinted.
	require.NoError(t, g.Load(f, fixed16, 4, h))
	assert.NoError(t, g.HintErr)
	assert.Equal(t, Point{X: 64, Y: 0, Flags: flagOnCurve}, g.Point[0])
	assert.Equal(t, Point{X: 64, Y: 640, Flags: flagOnCurve}, g.Point[1])
}

func TestLoadHintingDisabled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, []byte{
		0xb1, 1, 1, // PUSHB[1] 1 1
		0x8e, // INSTCTRL
	})
	g := NewGlyphBuf()
	require.NoError(t, g.Load(f, fixed16, 1, NewHinter(hintMono)))
	assert.NoError(t, g.HintErr)
	assert.Equal(t, square, g.Point)
}

func TestLoadFailedControlProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f := parseTestFont(t, []byte{
		0x21, // POP on an empty stack
	})
	g := NewGlyphBuf()
	h := NewHinter(hintMono)
	require.NoError(t, g.Load(f, fixed16, 1, h))
	assert.Equal(t, square, g.Point)
	assert.False(t, h.BackwardCompatibility())
}

func TestOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	var o *Options
	assert.EqualValues(t, 12*64, o.Scale())
	assert.Nil(t, o.NewHinter())
	o = &Options{Size: 10, DPI: 144}
	assert.EqualValues(t, 20*64, o.Scale())
	assert.Nil(t, o.NewHinter())
	o.Hinting = font.HintingFull
	m, ok := o.mode()
	assert.True(t, ok)
	assert.Equal(t, hintMono, m)
	o.Hinting = font.HintingVertical
	m, _ = o.mode()
	assert.Equal(t, hintSmooth, m)
}

func TestGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goki.hinting")
	defer teardown()
	//
	f, err := Parse(goregular.TTF)
	require.NoError(t, err)
	name, err := f.Name(NameIDFontFamily)
	require.NoError(t, err)
	assert.Contains(t, name, "Go")
	i := f.Index('A')
	require.NotZero(t, i)

	g := NewGlyphBuf()
	require.NoError(t, g.Load(f, fixed16, i, nil))
	unhinted := len(g.Point)
	assert.NotZero(t, unhinted)
	assert.NotZero(t, g.AdvanceWidth)

	o := &Options{Size: 16, Hinting: font.HintingFull}
	require.NoError(t, g.Load(f, o.Scale(), i, o.NewHinter()))
	assert.Len(t, g.Point, unhinted)
}
