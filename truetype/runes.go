// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeUTF16 decodes big-endian UTF-16, the encoding of Unicode and
// Windows name records.
func decodeUTF16(b []byte) ([]byte, error) {
	return decode(b, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
}

// decodeMacRoman decodes the Macintosh name records of the Roman script.
func decodeMacRoman(b []byte) ([]byte, error) {
	return decode(b, charmap.Macintosh)
}

func decode(b []byte, enc encoding.Encoding) ([]byte, error) {
	r := transform.NewReader(bytes.NewReader(b), enc.NewDecoder())
	return io.ReadAll(r)
}
