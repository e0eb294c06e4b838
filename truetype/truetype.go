// Copyright 2010 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Package truetype provides a parser for the TTF file format and a glyph
// loader that grid-fits outlines with the font's hinting programs. That
// format is documented at
// https://learn.microsoft.com/en-us/typography/opentype/spec/ and
// http://developer.apple.com/fonts/TTRefMan/
//
// Font metrics and the co-ordinates in GlyphBuf.InFontUnits are measured in
// FUnits. GlyphBuf.Point and GlyphBuf.Unhinted are 26.6 fixed point pixels.
// To convert from FUnits to pixels, scale by
// (pointSize * resolution) / (font.UnitsPerEm() * 72dpi)
// For example, 550 FUnits at 18pt, 72dpi and 2048upe is 4.83 pixels.
package truetype

import (
	"fmt"

	"github.com/goki/hinting/hint"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'goki.hinting'
func tracer() tracing.Trace {
	return tracing.Select("goki.hinting")
}

// An Index is a Font's index of a rune.
type Index uint16

// A Bounds holds the co-ordinate range of one or more glyphs.
// The endpoints are inclusive.
type Bounds struct {
	XMin, YMin, XMax, YMax int32
}

// An HMetric holds the horizontal metrics of a single glyph.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// A NameID identifies a name table entry.
//
// See https://learn.microsoft.com/en-us/typography/opentype/spec/name#name-ids
type NameID uint16

const (
	NameIDCopyright          NameID = 0
	NameIDFontFamily         NameID = 1
	NameIDFontSubfamily      NameID = 2
	NameIDUniqueSubfamilyID  NameID = 3
	NameIDFontFullName       NameID = 4
	NameIDNameTableVersion   NameID = 5
	NameIDPostscriptName     NameID = 6
	NameIDTrademarkNotice    NameID = 7
	NameIDManufacturerName   NameID = 8
	NameIDDesignerName       NameID = 9
	NameIDFontDescription    NameID = 10
	NameIDVendorURL          NameID = 11
	NameIDDesignerURL        NameID = 12
	NameIDFontLicense        NameID = 13
	NameIDFontLicenseURL     NameID = 14
	NameIDPreferredFamily    NameID = 16
	NameIDPreferredSubfamily NameID = 17
	NameIDCompatibleName     NameID = 18
	NameIDSampleText         NameID = 19
)

// A FormatError reports that the input is not a valid TrueType font.
type FormatError string

func (e FormatError) Error() string {
	return "freetype: invalid TrueType format: " + string(e)
}

// An UnsupportedError reports that the input uses a valid but unimplemented
// TrueType feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "freetype: unsupported TrueType feature: " + string(e)
}

// u32 returns the big-endian uint32 at b[i:].
func u32(b []byte, i int) uint32 {
	return uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
}

// u16 returns the big-endian uint16 at b[i:].
func u16(b []byte, i int) uint16 {
	return uint16(b[i])<<8 | uint16(b[i+1])
}

// data interprets a byte slice as a stream of integer values.
type data []byte

// u32 returns the next big-endian uint32.
func (d *data) u32() uint32 {
	x := u32(*d, 0)
	*d = (*d)[4:]
	return x
}

// u16 returns the next big-endian uint16.
func (d *data) u16() uint16 {
	x := u16(*d, 0)
	*d = (*d)[2:]
	return x
}

// skip skips the next n bytes.
func (d *data) skip(n int) {
	*d = (*d)[n:]
}

// readTable returns a slice of the TTF data given by a table's directory entry.
func readTable(ttf []byte, offsetLength []byte) ([]byte, error) {
	d := data(offsetLength)
	offset := int(d.u32())
	if offset < 0 {
		return nil, FormatError(fmt.Sprintf("offset too large: %d", uint32(offset)))
	}
	length := int(d.u32())
	if length < 0 {
		return nil, FormatError(fmt.Sprintf("length too large: %d", uint32(length)))
	}
	end := offset + length
	if end < 0 || end > len(ttf) {
		return nil, FormatError(fmt.Sprintf("offset + length too large: %d", uint32(offset)+uint32(length)))
	}
	return ttf[offset:end], nil
}

const (
	locaOffsetFormatUnknown int = iota
	locaOffsetFormatShort
	locaOffsetFormatLong
)

// A cm holds a parsed cmap entry.
type cm struct {
	start, end, delta, offset uint16
}

// A Font represents a Truetype font.
//
// A Font is a hint.Source: it supplies the maxima, the control value table
// and the font and control value programs to a hint.Instance.
type Font struct {
	// Tables sliced from the TTF data. The different tables are documented
	// at http://developer.apple.com/fonts/TTRefMan/RM06/Chap6.html
	cmap, fpgm, glyf, head, hhea, hmtx, kern, loca, maxp, name, prep []byte
	cmapIndexes                                                    []byte

	// Cached values derived from the raw ttf data.
	cm                      []cm
	cvt                     []int16
	maxima                  hint.Maxima
	locaOffsetFormat        int
	nGlyph, nHMetric, nKern int
	unitsPerEm              int
	bounds                  Bounds
}

var _ hint.Source = (*Font)(nil)

func (f *Font) parseCmap() error {
	const (
		cmapFormat4         = 4
		languageIndependent = 0

		// A 32-bit encoding consists of a most-significant 16-bit Platform ID and a
		// least-significant 16-bit Platform Specific ID.
		unicodeEncoding   = 0x00000003 // PID = 0 (Unicode), PSID = 3 (Unicode 2.0)
		microsoftEncoding = 0x00030001 // PID = 3 (Microsoft), PSID = 1 (UCS-2)
	)

	if len(f.cmap) < 4 {
		return FormatError("cmap too short")
	}
	d := data(f.cmap[2:])
	nsubtab := int(d.u16())
	if len(f.cmap) < 8*nsubtab+4 {
		return FormatError("cmap too short")
	}
	offset, found := 0, false
	for i := 0; i < nsubtab; i++ {
		// We read the 16-bit Platform ID and 16-bit Platform Specific ID as a single uint32.
		// All values are big-endian.
		pidPsid, o := d.u32(), d.u32()
		// We prefer the Unicode cmap encoding. Failing to find that, we fall
		// back onto the Microsoft cmap encoding.
		if pidPsid == unicodeEncoding {
			offset, found = int(o), true
			break
		} else if pidPsid == microsoftEncoding {
			offset, found = int(o), true
			// We don't break out of the for loop, so that Unicode can override Microsoft.
		}
	}
	if !found {
		return UnsupportedError("cmap encoding")
	}
	if offset <= 0 || offset+14 > len(f.cmap) {
		return FormatError("bad cmap offset")
	}

	d = data(f.cmap[offset:])
	cmapFormat := d.u16()
	if cmapFormat != cmapFormat4 {
		return UnsupportedError(fmt.Sprintf("cmap format: %d", cmapFormat))
	}
	d.skip(2)
	language := d.u16()
	if language != languageIndependent {
		return UnsupportedError(fmt.Sprintf("language: %d", language))
	}
	segCountX2 := int(d.u16())
	if segCountX2%2 == 1 {
		return FormatError(fmt.Sprintf("bad segCountX2: %d", segCountX2))
	}
	segCount := segCountX2 / 2
	d.skip(6)
	if len(d) < 8*segCount+2 {
		return FormatError("cmap too short")
	}
	f.cm = make([]cm, segCount)
	for i := 0; i < segCount; i++ {
		f.cm[i].end = d.u16()
	}
	d.skip(2)
	for i := 0; i < segCount; i++ {
		f.cm[i].start = d.u16()
	}
	for i := 0; i < segCount; i++ {
		f.cm[i].delta = d.u16()
	}
	for i := 0; i < segCount; i++ {
		f.cm[i].offset = d.u16()
	}
	f.cmapIndexes = []byte(d)
	return nil
}

func (f *Font) parseCvt(cvt []byte) error {
	if len(cvt)%2 != 0 {
		return FormatError(fmt.Sprintf("bad cvt length: %d", len(cvt)))
	}
	f.cvt = make([]int16, len(cvt)/2)
	for i := range f.cvt {
		f.cvt[i] = int16(u16(cvt, 2*i))
	}
	return nil
}

func (f *Font) parseHead() error {
	if len(f.head) != 54 {
		return FormatError(fmt.Sprintf("bad head length: %d", len(f.head)))
	}
	d := data(f.head[18:])
	f.unitsPerEm = int(d.u16())
	if f.unitsPerEm == 0 {
		return FormatError("bad unitsPerEm: 0")
	}
	d.skip(16)
	f.bounds.XMin = int32(int16(d.u16()))
	f.bounds.YMin = int32(int16(d.u16()))
	f.bounds.XMax = int32(int16(d.u16()))
	f.bounds.YMax = int32(int16(d.u16()))
	d.skip(6)
	switch i := d.u16(); i {
	case 0:
		f.locaOffsetFormat = locaOffsetFormatShort
	case 1:
		f.locaOffsetFormat = locaOffsetFormatLong
	default:
		return FormatError(fmt.Sprintf("bad indexToLocFormat: %d", i))
	}
	return nil
}

func (f *Font) parseHhea() error {
	if len(f.hhea) != 36 {
		return FormatError(fmt.Sprintf("bad hhea length: %d", len(f.hhea)))
	}
	d := data(f.hhea[34:])
	f.nHMetric = int(d.u16())
	if f.nHMetric == 0 || f.nHMetric > f.nGlyph {
		return FormatError(fmt.Sprintf("bad number of hmetrics: %d", f.nHMetric))
	}
	if 4*f.nHMetric+2*(f.nGlyph-f.nHMetric) != len(f.hmtx) {
		return FormatError(fmt.Sprintf("bad hmtx length: %d", len(f.hmtx)))
	}
	return nil
}

func (f *Font) parseKern() error {
	// Apple's TrueType documentation (http://developer.apple.com/fonts/TTRefMan/RM06/Chap6kern.html) says:
	// "Previous versions of the 'kern' table defined both the version and nTables fields in the header
	// as UInt16 values and not UInt32 values. Use of the older format on the Mac OS is discouraged
	// (although AAT can sense an old kerning table and still make correct use of it). Microsoft
	// Windows still uses the older format for the 'kern' table and will not recognize the newer one.
	// Fonts targeted for the Mac OS only should use the new format; fonts targeted for both the Mac OS
	// and Windows should use the old format."
	// Since we expect that almost all fonts aim to be Windows-compatible, we only parse the "older" format,
	// just like the C Freetype implementation.
	if len(f.kern) == 0 {
		return nil
	}
	if len(f.kern) < 18 {
		return FormatError("kern data too short")
	}
	d := data(f.kern[0:])
	version := d.u16()
	if version != 0 {
		return UnsupportedError(fmt.Sprintf("kern version: %d", version))
	}
	n := d.u16()
	if n != 1 {
		return UnsupportedError(fmt.Sprintf("kern nTables: %d", n))
	}
	d.skip(2)
	length := int(d.u16())
	coverage := d.u16()
	if coverage != 0x0001 {
		// We only support horizontal kerning.
		return UnsupportedError(fmt.Sprintf("kern coverage: 0x%04x", coverage))
	}
	f.nKern = int(d.u16())
	if 6*f.nKern != length-14 || 18+6*f.nKern > len(f.kern) {
		return FormatError("bad kern table length")
	}
	return nil
}

func (f *Font) parseLoca() error {
	n := f.nGlyph + 1
	switch f.locaOffsetFormat {
	case locaOffsetFormatShort:
		n *= 2
	case locaOffsetFormatLong:
		n *= 4
	}
	if len(f.loca) < n {
		return FormatError(fmt.Sprintf("bad loca length: %d", len(f.loca)))
	}
	return nil
}

// parseMaxp reads the glyph count and, for version 1.0 tables, the limits the
// hinting programs run within.
func (f *Font) parseMaxp() error {
	if len(f.maxp) < 6 {
		return FormatError(fmt.Sprintf("bad maxp length: %d", len(f.maxp)))
	}
	d := data(f.maxp)
	version := d.u32()
	f.nGlyph = int(d.u16())
	switch version {
	case 0x00005000:
		f.maxima = hint.Maxima{}
	case 0x00010000:
		if len(f.maxp) != 32 {
			return FormatError(fmt.Sprintf("bad maxp length: %d", len(f.maxp)))
		}
		f.maxima = hint.Maxima{
			TwilightPoints:  int(u16(f.maxp, 16)),
			Storage:         int(u16(f.maxp, 18)),
			FunctionDefs:    int(u16(f.maxp, 20)),
			InstructionDefs: int(u16(f.maxp, 22)),
			StackElements:   int(u16(f.maxp, 24)),
		}
	default:
		return FormatError(fmt.Sprintf("bad maxp version: 0x%08x", version))
	}
	return nil
}

// Bounds returns the union of a Font's glyphs' bounds.
func (f *Font) Bounds() Bounds {
	return f.bounds
}

// UnitsPerEm returns the number of FUnits in a Font's em-square.
func (f *Font) UnitsPerEm() int {
	return f.unitsPerEm
}

// NumGlyphs returns the number of glyphs in a Font.
func (f *Font) NumGlyphs() int {
	return f.nGlyph
}

// Index returns a Font's index for the given rune.
func (f *Font) Index(x rune) Index {
	if x < 0 || x > 0xffff {
		return 0
	}
	c := uint16(x)
	n := len(f.cm)
	for i := 0; i < n; i++ {
		if f.cm[i].start <= c && c <= f.cm[i].end {
			if f.cm[i].offset == 0 {
				return Index(c + f.cm[i].delta)
			}
			offset := int(f.cm[i].offset) + 2*(i-n+int(c-f.cm[i].start))
			if offset < 0 || offset+2 > len(f.cmapIndexes) {
				return 0
			}
			if g := u16(f.cmapIndexes, offset); g != 0 {
				return Index(g + f.cm[i].delta)
			}
			return 0
		}
	}
	return 0
}

// HMetric returns the horizontal metrics for the glyph with the given index.
func (f *Font) HMetric(i Index) HMetric {
	j := int(i)
	if j >= f.nGlyph {
		return HMetric{}
	}
	if j >= f.nHMetric {
		var hm HMetric
		p := 4 * (f.nHMetric - 1)
		hm.AdvanceWidth = u16(f.hmtx, p)
		p += 2*(j-f.nHMetric) + 4
		hm.LeftSideBearing = int16(u16(f.hmtx, p))
		return hm
	}
	d := data(f.hmtx[4*j:])
	return HMetric{d.u16(), int16(d.u16())}
}

// Kerning returns the kerning for the given glyph pair.
func (f *Font) Kerning(i0, i1 Index) int16 {
	if f.nKern == 0 {
		return 0
	}
	g := uint32(i0)<<16 | uint32(i1)
	lo, hi := 0, f.nKern
	for lo < hi {
		i := (lo + hi) / 2
		d := data(f.kern[18+6*i:])
		ig := d.u32()
		if ig < g {
			lo = i + 1
		} else if ig > g {
			hi = i
		} else {
			return int16(d.u16())
		}
	}
	return 0
}

// Maxima returns the hinting limits of the maxp table. They are all zero for
// fonts without TrueType outlines.
func (f *Font) Maxima() hint.Maxima {
	return f.maxima
}

// FontProgram returns the fpgm table.
func (f *Font) FontProgram() []byte {
	return f.fpgm
}

// ControlValueProgram returns the prep table.
func (f *Font) ControlValueProgram() []byte {
	return f.prep
}

// ControlValues returns the cvt table in FUnits.
func (f *Font) ControlValues() []int16 {
	return f.cvt
}

// AxisCount returns 0. Variable fonts are not parsed.
func (f *Font) AxisCount() int {
	return 0
}

// glyphData returns the glyf slice of the glyph with the given index. It is
// empty for glyphs without contours.
func (f *Font) glyphData(i Index) ([]byte, error) {
	if int(i) >= f.nGlyph {
		return nil, FormatError(fmt.Sprintf("glyph index out of range: %d", i))
	}
	var g0, g1 uint32
	if f.locaOffsetFormat == locaOffsetFormatShort {
		g0 = 2 * uint32(u16(f.loca, 2*int(i)))
		g1 = 2 * uint32(u16(f.loca, 2*int(i)+2))
	} else {
		g0 = u32(f.loca, 4*int(i))
		g1 = u32(f.loca, 4*int(i)+4)
	}
	if g0 > g1 || g1 > uint32(len(f.glyf)) {
		return nil, FormatError(fmt.Sprintf("bad loca entry for glyph %d", i))
	}
	return f.glyf[g0:g1], nil
}

// Parse returns a new Font for the given TTF data.
func Parse(ttf []byte) (font *Font, err error) {
	if len(ttf) < 12 {
		err = FormatError("TTF data is too short")
		return
	}
	d := data(ttf[0:])
	if d.u32() != 0x00010000 {
		err = FormatError("bad version")
		return
	}
	n := int(d.u16())
	if len(ttf) < 16*n+12 {
		err = FormatError("TTF data is too short")
		return
	}
	f := new(Font)
	var cvt []byte
	// Assign the table slices.
	for i := 0; i < n; i++ {
		x := 16*i + 12
		switch string(ttf[x : x+4]) {
		case "cmap":
			f.cmap, err = readTable(ttf, ttf[x+8:x+16])
		case "cvt ":
			cvt, err = readTable(ttf, ttf[x+8:x+16])
		case "fpgm":
			f.fpgm, err = readTable(ttf, ttf[x+8:x+16])
		case "glyf":
			f.glyf, err = readTable(ttf, ttf[x+8:x+16])
		case "head":
			f.head, err = readTable(ttf, ttf[x+8:x+16])
		case "hhea":
			f.hhea, err = readTable(ttf, ttf[x+8:x+16])
		case "hmtx":
			f.hmtx, err = readTable(ttf, ttf[x+8:x+16])
		case "kern":
			f.kern, err = readTable(ttf, ttf[x+8:x+16])
		case "loca":
			f.loca, err = readTable(ttf, ttf[x+8:x+16])
		case "maxp":
			f.maxp, err = readTable(ttf, ttf[x+8:x+16])
		case "name":
			f.name, err = readTable(ttf, ttf[x+8:x+16])
		case "prep":
			f.prep, err = readTable(ttf, ttf[x+8:x+16])
		}
		if err != nil {
			return
		}
	}
	// Parse and sanity-check the TTF data.
	if err = f.parseHead(); err != nil {
		return
	}
	if err = f.parseMaxp(); err != nil {
		return
	}
	if err = f.parseLoca(); err != nil {
		return
	}
	if err = f.parseCmap(); err != nil {
		return
	}
	if err = f.parseKern(); err != nil {
		return
	}
	if err = f.parseHhea(); err != nil {
		return
	}
	if err = f.parseCvt(cvt); err != nil {
		return
	}
	tracer().Debugf("truetype: parsed font with %d glyphs, %d units per em, %d control values",
		f.nGlyph, f.unitsPerEm, len(f.cvt))
	font = f
	return
}
