// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Command hintdump prints the hinted outlines of a string's glyphs.
//
//	hintdump -font luxisr.ttf -size 12 -dpi 96 -hinting full -text Hello
//
// Without -font the Go Regular font is used.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goki/hinting/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontfile = flag.String("font", "", "filename of the TrueType font; Go Regular if empty")
	size     = flag.Float64("size", 12, "font size in points")
	dpi      = flag.Float64("dpi", 72, "screen resolution in dots per inch")
	hinting  = flag.String("hinting", "full", "hinting: none, vertical or full")
	text     = flag.String("text", "Hinting", "text to dump")
)

func parseHinting(s string) (font.Hinting, error) {
	switch s {
	case "none":
		return font.HintingNone, nil
	case "vertical":
		return font.HintingVertical, nil
	case "full":
		return font.HintingFull, nil
	}
	return font.HintingNone, fmt.Errorf("unknown hinting %q", s)
}

func main() {
	flag.Parse()

	h, err := parseHinting(*hinting)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// Load the raw data from disk
	fontData := goregular.TTF
	if *fontfile != "" {
		if fontData, err = os.ReadFile(*fontfile); err != nil {
			fmt.Printf("Failed to load font from %s: %+v\n", *fontfile, err)
			os.Exit(1)
		}
	}

	// Parse the font data
	f, err := truetype.Parse(fontData)
	if err != nil {
		fmt.Printf("Failed to parse font from %s: %+v\n", *fontfile, err)
		os.Exit(1)
	}
	if name, err := f.Name(truetype.NameIDFontFullName); err == nil && name != "" {
		fmt.Printf("font: %s\n", name)
	}

	opts := &truetype.Options{Size: *size, DPI: *dpi, Hinting: h}
	scale := opts.Scale()
	hinter := opts.NewHinter()
	fmt.Printf("scale: %v (%d units per em)\n", scale, f.UnitsPerEm())

	g := truetype.NewGlyphBuf()
	prev, hasPrev := truetype.Index(0), false
	for _, r := range *text {
		i := f.Index(r)
		if err := g.Load(f, scale, i, hinter); err != nil {
			fmt.Printf("%q: glyph %d: %v\n", r, i, err)
			continue
		}
		fmt.Printf("%q: glyph %d advance %v", r, i, g.AdvanceWidth)
		if hasPrev {
			if k := f.Kerning(prev, i); k != 0 {
				fmt.Printf(" kerning %d", k)
			}
		}
		prev, hasPrev = i, true
		if g.HintErr != nil {
			fmt.Printf(" unhinted: %v", g.HintErr)
		}
		fmt.Println()
		start := 0
		for c, end := range g.End {
			fmt.Printf("  contour %d:", c)
			for _, p := range g.Point[start:end] {
				on := ' '
				if p.Flags&0x01 != 0 {
					on = '*'
				}
				fmt.Printf(" %c(%d,%d)", on, p.X, p.Y)
			}
			fmt.Println()
			start = end
		}
	}
}
