// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

// valueStack is the interpreter's operand stack. Its capacity is fixed by the
// font's maxp table; values are 26.6 fixed point numbers or plain integers,
// depending on the instruction that consumes them.
type valueStack struct {
	values []int32
	top    int
}

func newValueStack(buf []int32) valueStack {
	return valueStack{values: buf}
}

func (s *valueStack) len() int {
	return s.top
}

// slice returns the live part of the stack, bottom first.
func (s *valueStack) slice() []int32 {
	return s.values[:s.top]
}

func (s *valueStack) push(v int32) error {
	if s.top >= len(s.values) {
		return ErrValueStackOverflow
	}
	s.values[s.top] = v
	s.top++
	return nil
}

func (s *valueStack) pop() (int32, error) {
	if s.top == 0 {
		return 0, ErrValueStackUnderflow
	}
	s.top--
	return s.values[s.top], nil
}

// popUint pops a value that is used as an index. Negative values are mapped
// to an index that no table can hold, so that the bounds checks of the caller
// reject them.
func (s *valueStack) popUint() (int, error) {
	v, err := s.pop()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return int(^uint32(0) >> 1), nil
	}
	return int(v), nil
}

func (s *valueStack) peek() (int32, error) {
	if s.top == 0 {
		return 0, ErrValueStackUnderflow
	}
	return s.values[s.top-1], nil
}

// pushBytes pushes each byte of data, zero-extended.
func (s *valueStack) pushBytes(data []byte) error {
	if s.top+len(data) > len(s.values) {
		return ErrValueStackOverflow
	}
	for _, b := range data {
		s.values[s.top] = int32(b)
		s.top++
	}
	return nil
}

// pushWords pushes each big-endian pair of bytes of data, sign-extended.
func (s *valueStack) pushWords(data []byte) error {
	n := len(data) / 2
	if s.top+n > len(s.values) {
		return ErrValueStackOverflow
	}
	for i := 0; i < n; i++ {
		s.values[s.top] = int32(int16(uint16(data[2*i])<<8 | uint16(data[2*i+1])))
		s.top++
	}
	return nil
}

func (s *valueStack) dup() error {
	v, err := s.peek()
	if err != nil {
		return err
	}
	return s.push(v)
}

func (s *valueStack) swap() error {
	if s.top < 2 {
		return ErrValueStackUnderflow
	}
	s.values[s.top-1], s.values[s.top-2] = s.values[s.top-2], s.values[s.top-1]
	return nil
}

func (s *valueStack) clear() {
	s.top = 0
}

// depth pushes the number of elements on the stack.
func (s *valueStack) depth() error {
	return s.push(int32(s.top))
}

// copyIndex pops k and pushes a copy of the k'th element counted from the
// top, where 1 is the element just below k.
func (s *valueStack) copyIndex() error {
	k, err := s.pop()
	if err != nil {
		return err
	}
	if k <= 0 || int(k) > s.top {
		return ErrInvalidStackValue
	}
	return s.push(s.values[s.top-int(k)])
}

// moveIndex pops k and moves the k'th element counted from the top to the
// top, shifting the elements above it down.
func (s *valueStack) moveIndex() error {
	k, err := s.pop()
	if err != nil {
		return err
	}
	if k <= 0 || int(k) > s.top {
		return ErrInvalidStackValue
	}
	return s.move(int(k))
}

func (s *valueStack) move(k int) error {
	if k <= 0 || k > s.top {
		return ErrValueStackUnderflow
	}
	i := s.top - k
	v := s.values[i]
	copy(s.values[i:s.top-1], s.values[i+1:s.top])
	s.values[s.top-1] = v
	return nil
}

// roll brings the third element from the top to the top: a b c becomes b c a.
func (s *valueStack) roll() error {
	return s.move(3)
}

// apply1 replaces the top element v with f(v).
func (s *valueStack) apply1(f func(v int32) (int32, error)) error {
	if s.top == 0 {
		return ErrValueStackUnderflow
	}
	v, err := f(s.values[s.top-1])
	if err != nil {
		return err
	}
	s.values[s.top-1] = v
	return nil
}

// apply2 pops b, then a, and pushes f(a, b).
func (s *valueStack) apply2(f func(a, b int32) (int32, error)) error {
	if s.top < 2 {
		return ErrValueStackUnderflow
	}
	v, err := f(s.values[s.top-2], s.values[s.top-1])
	if err != nil {
		return err
	}
	s.values[s.top-2] = v
	s.top--
	return nil
}
