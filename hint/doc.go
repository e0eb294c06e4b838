// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

/*
Package hint implements a TrueType bytecode interpreter that grid-fits glyph
outlines at a given pixel size.

The instructions are described at
https://learn.microsoft.com/en-us/typography/opentype/spec/tt_instructions
and, in an older form, at https://developer.apple.com/fonts/TTRefMan/RM05/Chap5.html.

Three programs cooperate. The font program (fpgm) runs once and registers
function and instruction definitions. The control value program (prep) runs
once per size and prepares the control value table (CVT), the storage area
and the twilight zone. The glyph program runs for every glyph and moves the
glyph's points.

An Instance holds the state that survives between glyphs. Reconfigure runs the
font and control value programs and stores the result as an immutable
snapshot. Hint runs one glyph program on caller-owned scratch memory that is
seeded from that snapshot, so glyph programs never change the retained state
and different glyphs may be hinted concurrently, each with its own Scratch.

All coordinates and distances are 26.6 fixed point numbers
(golang.org/x/image/math/fixed.Int26_6). Vectors are 2.14 fixed point numbers.
*/
package hint

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'goki.hinting'
func tracer() tracing.Trace {
	return tracing.Select("goki.hinting")
}
