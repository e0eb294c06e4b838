// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

// cowSlice is a copy-on-write view of an immutable base slice. Reads fall
// through to base until a slot is written; from then on the slot lives in
// local for the rest of the run. A cowSlice without base writes straight to
// local, which is how the retained tables are built.
type cowSlice struct {
	base  []int32
	local []int32
	dirty []uint64
}

// newCowSlice returns a view of base that writes to local. local must be at
// least as long as base, and dirty must have a bit per slot.
func newCowSlice(base, local []int32, dirty []uint64) cowSlice {
	for i := range dirty {
		dirty[i] = 0
	}
	return cowSlice{base: base, local: local[:len(base)], dirty: dirty}
}

// newMutableSlice returns a view that reads and writes data directly.
func newMutableSlice(data []int32) cowSlice {
	return cowSlice{local: data}
}

func (c *cowSlice) len() int {
	return len(c.local)
}

func (c *cowSlice) get(i int) (int32, bool) {
	if i < 0 || i >= len(c.local) {
		return 0, false
	}
	if c.base == nil || c.dirty[i>>6]&(1<<(i&63)) != 0 {
		return c.local[i], true
	}
	return c.base[i], true
}

func (c *cowSlice) set(i int, v int32) bool {
	if i < 0 || i >= len(c.local) {
		return false
	}
	c.local[i] = v
	if c.base != nil {
		c.dirty[i>>6] |= 1 << (i & 63)
	}
	return true
}

// dirtyWords returns the number of bitmap words needed for n slots.
func dirtyWords(n int) int {
	return (n + 63) / 64
}
