// Copyright 2026 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

import (
	"fmt"
)

// An ErrorKind classifies a failure of the interpreter. ErrorKind values are
// errors themselves, so that callers can test for them with errors.Is.
type ErrorKind int

const (
	ErrUnexpectedEndOfBytecode ErrorKind = iota + 1
	ErrUnhandledOpcode
	ErrDefinitionInGlyphProgram
	ErrNestedDefinition
	ErrDefinitionTooLarge
	ErrTooManyDefinitions
	ErrInvalidDefinition
	ErrValueStackOverflow
	ErrValueStackUnderflow
	ErrCallStackOverflow
	ErrCallStackUnderflow
	ErrInvalidStackValue
	ErrInvalidPointIndex
	ErrInvalidPointRange
	ErrInvalidContourIndex
	ErrInvalidCVTIndex
	ErrInvalidStorageIndex
	ErrDivideByZero
	ErrInvalidZoneIndex
	ErrNegativeLoopCounter
	ErrInvalidJump
	ErrExceededExecutionBudget
	ErrInsufficientScratch
)

var errorText = [...]string{
	ErrUnexpectedEndOfBytecode:  "unexpected end of bytecode",
	ErrUnhandledOpcode:          "unhandled opcode",
	ErrDefinitionInGlyphProgram: "definition in glyph program",
	ErrNestedDefinition:         "nested definition",
	ErrDefinitionTooLarge:       "definition too large",
	ErrTooManyDefinitions:       "too many definitions",
	ErrInvalidDefinition:        "invalid definition",
	ErrValueStackOverflow:       "stack overflow",
	ErrValueStackUnderflow:      "stack underflow",
	ErrCallStackOverflow:        "call stack overflow",
	ErrCallStackUnderflow:       "call stack underflow",
	ErrInvalidStackValue:        "invalid stack value",
	ErrInvalidPointIndex:        "invalid point index",
	ErrInvalidPointRange:        "invalid point range",
	ErrInvalidContourIndex:      "invalid contour index",
	ErrInvalidCVTIndex:          "invalid CVT index",
	ErrInvalidStorageIndex:      "invalid storage index",
	ErrDivideByZero:             "division by zero",
	ErrInvalidZoneIndex:         "invalid zone index",
	ErrNegativeLoopCounter:      "negative loop counter",
	ErrInvalidJump:              "invalid jump",
	ErrExceededExecutionBudget:  "too many instructions",
	ErrInsufficientScratch:      "insufficient scratch memory",
}

func (k ErrorKind) Error() string {
	if k > 0 && int(k) < len(errorText) {
		return "hinting: " + errorText[k]
	}
	return fmt.Sprintf("hinting: error %d", int(k))
}

// An Error reports where the interpreter failed: which program, which glyph
// (for glyph programs), the program counter and the opcode being executed.
type Error struct {
	Program Program
	Glyph   GlyphID
	PC      int
	Opcode  uint8
	Kind    ErrorKind
}

func (e *Error) Error() string {
	if e.Program == GlyphProgram {
		return fmt.Sprintf("%v (glyph %d, %v program, pc %d, opcode 0x%02x)",
			e.Kind, e.Glyph, e.Program, e.PC, e.Opcode)
	}
	return fmt.Sprintf("%v (%v program, pc %d, opcode 0x%02x)", e.Kind, e.Program, e.PC, e.Opcode)
}

// Unwrap returns the ErrorKind of e.
func (e *Error) Unwrap() error {
	return e.Kind
}
