// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"fmt"
)

// Platform IDs of name records.
const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformMicrosoft = 3
)

// nameRecord is an entry of the name table.
type nameRecord struct {
	platform, encoding, language uint16
	offset, length               int
}

// rank orders name records by preference. Records that cannot be decoded
// rank 0.
func (r nameRecord) rank() int {
	switch r.platform {
	case platformMicrosoft:
		switch r.encoding {
		case 1, 10:
			if r.language == 0x0409 { // English, United States.
				return 4
			}
			return 3
		}
	case platformUnicode:
		return 2
	case platformMacintosh:
		if r.encoding == 0 {
			return 1
		}
	}
	return 0
}

// Name returns the best decodable entry of the name table with the given
// ID. Windows records in US English are preferred over other Windows records,
// Unicode records and Macintosh Roman records, in that order.
func (f *Font) Name(id NameID) (string, error) {
	if len(f.name) == 0 {
		return "", nil
	}
	if len(f.name) < 6 {
		return "", FormatError("name too short")
	}
	d := data(f.name)
	d.skip(2)
	count := int(d.u16())
	storage := int(d.u16())
	if len(f.name) < 6+12*count {
		return "", FormatError("name too short")
	}
	best, found := nameRecord{}, false
	for i := 0; i < count; i++ {
		r := nameRecord{
			platform: d.u16(),
			encoding: d.u16(),
			language: d.u16(),
		}
		nid := NameID(d.u16())
		r.length = int(d.u16())
		r.offset = storage + int(d.u16())
		if nid != id || r.rank() == 0 {
			continue
		}
		if !found || r.rank() > best.rank() {
			best, found = r, true
		}
	}
	if !found {
		return "", nil
	}
	if best.offset+best.length > len(f.name) {
		return "", FormatError(fmt.Sprintf("bad name record offset: %d", best.offset))
	}
	src := f.name[best.offset : best.offset+best.length]
	var (
		b   []byte
		err error
	)
	if best.platform == platformMacintosh {
		b, err = decodeMacRoman(src)
	} else {
		b, err = decodeUTF16(src)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
