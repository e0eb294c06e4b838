// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

func (e *engine) opIF() error {
	cond, err := e.stack.pop()
	if err != nil {
		return err
	}
	if cond == 0 {
		return e.program.skipBranch(true)
	}
	return nil
}

func (e *engine) opJROx(opcode uint8) error {
	cond, err := e.stack.pop()
	if err != nil {
		return err
	}
	offset, err := e.stack.pop()
	if err != nil {
		return err
	}
	if (cond != 0) == (opcode == opJROT) {
		return e.program.jump(offset)
	}
	return nil
}

// opDEF records the function or instruction definition that starts at the
// current position and skips its body.
func (e *engine) opDEF(m *definitionMap) error {
	key, err := e.stack.pop()
	if err != nil {
		return err
	}
	slot, err := m.allocate(key)
	if err != nil {
		return err
	}
	def, err := e.program.define(key)
	if err != nil {
		return err
	}
	*slot = def
	return nil
}

func (e *engine) opENDF() error {
	if e.program.calls.len() == 0 {
		return ErrCallStackUnderflow
	}
	return e.program.leave()
}

func (e *engine) opCALL() error {
	key, err := e.stack.pop()
	if err != nil {
		return err
	}
	def, ok := e.functions.get(key)
	if !ok {
		return ErrInvalidDefinition
	}
	return e.program.enter(def, 1)
}

func (e *engine) opLOOPCALL() error {
	key, err := e.stack.pop()
	if err != nil {
		return err
	}
	count, err := e.stack.pop()
	if err != nil {
		return err
	}
	def, ok := e.functions.get(key)
	if !ok {
		return ErrInvalidDefinition
	}
	if count <= 0 {
		return nil
	}
	return e.program.enter(def, count)
}

// opUnknown runs the instruction definition for opcode, if the font has
// provided one.
func (e *engine) opUnknown(opcode uint8) error {
	def, ok := e.instructions.get(int32(opcode))
	if !ok {
		return ErrUnhandledOpcode
	}
	return e.program.enter(def, 1)
}
