// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"math"
)

// A Program identifies one of the three bytecode sources of a font.
type Program uint8

const (
	// FontProgram is the font program (the fpgm table). It runs once per
	// configuration and registers function and instruction definitions.
	FontProgram Program = iota
	// ControlValueProgram is the control value program (the prep table). It
	// runs once per configuration, after the font program.
	ControlValueProgram
	// GlyphProgram is the program attached to a single glyph.
	GlyphProgram
)

func (p Program) String() string {
	switch p {
	case FontProgram:
		return "font"
	case ControlValueProgram:
		return "control value"
	case GlyphProgram:
		return "glyph"
	}
	return "unknown"
}

// decoder is a cursor over one bytecode program.
type decoder struct {
	program  Program
	bytecode []byte
	pc       int
}

func (d *decoder) done() bool {
	return d.pc >= len(d.bytecode)
}

// next returns the opcode at the program counter and advances past it.
func (d *decoder) next() (uint8, error) {
	if d.pc >= len(d.bytecode) {
		return 0, ErrUnexpectedEndOfBytecode
	}
	opcode := d.bytecode[d.pc]
	d.pc++
	return opcode, nil
}

// operands returns the inline operands of a push instruction whose opcode
// has just been read, and advances past them. words reports whether the
// operands are 16 bit values.
func (d *decoder) operands(opcode uint8) (data []byte, words bool, err error) {
	var n int
	switch {
	case opcode == opNPUSHB || opcode == opNPUSHW:
		if d.pc >= len(d.bytecode) {
			return nil, false, ErrUnexpectedEndOfBytecode
		}
		n = int(d.bytecode[d.pc])
		d.pc++
		words = opcode == opNPUSHW
	case opcode >= opPUSHB000 && opcode <= opPUSHB111:
		n = int(opcode-opPUSHB000) + 1
	case opcode >= opPUSHW000 && opcode <= opPUSHW111:
		n, words = int(opcode-opPUSHW000)+1, true
	default:
		return nil, false, nil
	}
	if words {
		n *= 2
	}
	if d.pc+n > len(d.bytecode) {
		return nil, false, ErrUnexpectedEndOfBytecode
	}
	data = d.bytecode[d.pc : d.pc+n]
	d.pc += n
	return data, words, nil
}

// skip advances past the next instruction, including any inline operands,
// without executing it.
func (d *decoder) skip() (uint8, error) {
	opcode, err := d.next()
	if err != nil {
		return 0, err
	}
	if isPush(opcode) {
		if _, _, err := d.operands(opcode); err != nil {
			return 0, err
		}
	}
	return opcode, nil
}

// A definition is a function (FDEF) or instruction (IDEF) body: the byte
// range [start, end) of a program, where end lies just past the ENDF.
type definition struct {
	program    Program
	start, end int
	key        int32
	active     bool
}

// definitionMap is a bounded table of definitions. It is mutable only while
// the font and control value programs run.
type definitionMap struct {
	defs    []definition
	mutable bool
}

func (m *definitionMap) reset() {
	for i := range m.defs {
		m.defs[i] = definition{}
	}
}

// allocate returns the slot that a definition with the given key is stored
// in, reusing the slot of an earlier definition with the same key.
func (m *definitionMap) allocate(key int32) (*definition, error) {
	if !m.mutable {
		return nil, ErrDefinitionInGlyphProgram
	}
	for i := range m.defs {
		if m.defs[i].active && m.defs[i].key == key {
			return &m.defs[i], nil
		}
	}
	if key >= 0 && int(key) < len(m.defs) && !m.defs[key].active {
		return &m.defs[key], nil
	}
	for i := range m.defs {
		if !m.defs[i].active {
			return &m.defs[i], nil
		}
	}
	return nil, ErrTooManyDefinitions
}

func (m *definitionMap) get(key int32) (definition, bool) {
	if key >= 0 && int(key) < len(m.defs) {
		if d := m.defs[key]; d.active && d.key == key {
			return d, true
		}
	}
	for _, d := range m.defs {
		if d.active && d.key == key {
			return d, true
		}
	}
	return definition{}, false
}

// maxCallDepth bounds nested CALL and LOOPCALL instructions, which turns
// runaway recursion into an error.
const maxCallDepth = 32

type callRecord struct {
	caller   Program
	returnPC int
	count    int32
	def      definition
}

// callStack is a fixed capacity stack of active calls.
type callStack struct {
	records [maxCallDepth]callRecord
	n       int
}

func (c *callStack) len() int {
	return c.n
}

func (c *callStack) push(r callRecord) error {
	if c.n >= len(c.records) {
		return ErrCallStackOverflow
	}
	c.records[c.n] = r
	c.n++
	return nil
}

func (c *callStack) pop() (callRecord, error) {
	if c.n == 0 {
		return callRecord{}, ErrCallStackUnderflow
	}
	c.n--
	return c.records[c.n], nil
}

func (c *callStack) top() (*callRecord, bool) {
	if c.n == 0 {
		return nil, false
	}
	return &c.records[c.n-1], true
}

func (c *callStack) clear() {
	c.n = 0
}

// programState tracks which program is executing, where, and on behalf of
// which calls.
type programState struct {
	bytecode [3][]byte
	initial  Program
	decoder  decoder
	calls    callStack
}

// reset clears the call stack and positions the decoder at the start of
// program.
func (p *programState) reset(program Program) {
	p.calls.clear()
	p.initial = program
	p.decoder = decoder{program: program, bytecode: p.bytecode[program]}
}

// enter calls def count times.
func (p *programState) enter(def definition, count int32) error {
	err := p.calls.push(callRecord{
		caller:   p.decoder.program,
		returnPC: p.decoder.pc,
		count:    count,
		def:      def,
	})
	if err != nil {
		return err
	}
	p.decoder = decoder{program: def.program, bytecode: p.bytecode[def.program], pc: def.start}
	return nil
}

// leave finishes one iteration of the innermost call. Loop calls restart at
// the definition's start until their count is used up; then the caller
// resumes just after its call instruction.
func (p *programState) leave() error {
	r, err := p.calls.pop()
	if err != nil {
		return err
	}
	if r.count > 1 {
		r.count--
		p.calls.push(r)
		p.decoder.pc = r.def.start
		return nil
	}
	p.decoder = decoder{program: r.caller, bytecode: p.bytecode[r.caller], pc: r.returnPC}
	return nil
}

// jump moves the program counter by offset bytes, relative to the jump
// instruction that the decoder has just consumed. Inside a call the target
// must stay within the called definition.
func (p *programState) jump(offset int32) error {
	delta := int64(offset) - 1
	if delta == -1 {
		return ErrInvalidJump
	}
	pc := int64(p.decoder.pc) + delta
	if r, ok := p.calls.top(); ok {
		if pc < int64(r.def.start) || pc >= int64(r.def.end) {
			return ErrInvalidJump
		}
	} else if pc < 0 || pc > int64(len(p.decoder.bytecode)) {
		return ErrInvalidJump
	}
	p.decoder.pc = int(pc)
	return nil
}

// skipBranch scans forward, without executing, to the ELSE or EIF that
// matches the IF or ELSE just executed, and leaves the decoder just past it.
// ELSE terminates the scan only if stopAtElse is set.
func (p *programState) skipBranch(stopAtElse bool) error {
	depth := 1
	for {
		opcode, err := p.decoder.skip()
		if err != nil {
			return err
		}
		switch opcode {
		case opIF:
			depth++
		case opELSE:
			if stopAtElse && depth == 1 {
				return nil
			}
		case opEIF:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// define scans the body of an FDEF or IDEF that starts at the program
// counter and returns its extent, leaving the decoder just past the ENDF.
func (p *programState) define(key int32) (definition, error) {
	start := p.decoder.pc
	for {
		opcode, err := p.decoder.skip()
		if err != nil {
			return definition{}, err
		}
		switch opcode {
		case opFDEF, opIDEF:
			return definition{}, ErrNestedDefinition
		case opENDF:
			end := p.decoder.pc
			if end-start > math.MaxUint16 {
				return definition{}, ErrDefinitionTooLarge
			}
			return definition{
				program: p.decoder.program,
				start:   start,
				end:     end,
				key:     key,
				active:  true,
			}, nil
		}
	}
}
