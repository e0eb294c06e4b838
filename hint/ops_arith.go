// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

// opBinary pops b then a and pushes the result of the comparison, logical
// or arithmetic operation a op b.
func (e *engine) opBinary(opcode uint8) error {
	return e.stack.apply2(func(a, b int32) (int32, error) {
		switch opcode {
		case opLT:
			return bool2int32(a < b), nil
		case opLTEQ:
			return bool2int32(a <= b), nil
		case opGT:
			return bool2int32(a > b), nil
		case opGTEQ:
			return bool2int32(a >= b), nil
		case opEQ:
			return bool2int32(a == b), nil
		case opNEQ:
			return bool2int32(a != b), nil
		case opAND:
			return bool2int32(a != 0 && b != 0), nil
		case opOR:
			return bool2int32(a|b != 0), nil
		case opADD:
			return a + b, nil
		case opSUB:
			return a - b, nil
		case opDIV:
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return mulDivNoRound(a, 64, b), nil
		case opMUL:
			return mulDiv(a, b, 64), nil
		case opMAX:
			if a < b {
				return b, nil
			}
			return a, nil
		case opMIN:
			if a > b {
				return b, nil
			}
			return a, nil
		}
		return 0, ErrUnhandledOpcode
	})
}

func (e *engine) opUnary(opcode uint8) error {
	rs := e.graphics.roundState
	return e.stack.apply1(func(v int32) (int32, error) {
		switch opcode {
		case opODD:
			return bool2int32(int32(rs.Round(f26(v)))&127 == 64), nil
		case opEVEN:
			return bool2int32(int32(rs.Round(f26(v)))&127 == 0), nil
		case opNOT:
			return bool2int32(v == 0), nil
		case opABS:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case opNEG:
			return -v, nil
		case opFLOOR:
			return int32(floor(f26(v))), nil
		case opCEILING:
			return int32(ceil(f26(v))), nil
		case opROUND00, opROUND01, opROUND10, opROUND11:
			// The engine compensation selected by the low bits is always zero.
			return int32(rs.Round(f26(v))), nil
		case opNROUND00, opNROUND01, opNROUND10, opNROUND11:
			return v, nil
		}
		return 0, ErrUnhandledOpcode
	})
}
