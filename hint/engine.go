// Copyright 2012 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package hint

// This file implements the interpreter loop and the opcode dispatch. The
// opcodes are described at https://developer.apple.com/fonts/TTRefMan/RM05/Chap5.html

import (
	"golang.org/x/image/math/fixed"
)

// maxInstructions bounds the number of instructions a single program run may
// execute. Backward jumps can otherwise loop forever.
const maxInstructions = 1000000

// engine executes one program against the zones, tables and definitions it
// is given. It is created for a single Reconfigure or Hint call.
type engine struct {
	program      programState
	graphics     graphicsState
	stack        valueStack
	cvt          cowSlice
	storage      cowSlice
	zones        [2]Zone
	functions    *definitionMap
	instructions *definitionMap
	// coords are the normalized variation coordinates, in 2.14 fixed point.
	coords    []int16
	axisCount int
}

// run executes program from its start, with the per-program part of the
// graphics state reset to its defaults.
func (e *engine) run(program Program) error {
	e.program.reset(program)
	e.graphics.reset()
	for steps := 0; !e.program.decoder.done() || e.program.calls.len() > 0; steps++ {
		pc := e.program.decoder.pc
		if steps >= maxInstructions {
			return e.fail(ErrExceededExecutionBudget, pc, 0)
		}
		opcode, err := e.program.decoder.next()
		if err != nil {
			return e.fail(err, pc, 0)
		}
		if err := e.dispatch(opcode); err != nil {
			return e.fail(err, pc, opcode)
		}
	}
	return nil
}

func (e *engine) fail(err error, pc int, opcode uint8) error {
	kind, ok := err.(ErrorKind)
	if !ok {
		return err
	}
	return &Error{Program: e.program.initial, PC: pc, Opcode: opcode, Kind: kind}
}

func (e *engine) dispatch(opcode uint8) error {
	s := &e.stack
	g := &e.graphics
	switch opcode {
	case opSVTCA0, opSVTCA1, opSPVTCA0, opSPVTCA1, opSFVTCA0, opSFVTCA1:
		e.opSVTCA(opcode)
	case opSPVTL0, opSPVTL1, opSFVTL0, opSFVTL1:
		return e.opSxVTL(opcode)
	case opSPVFS, opSFVFS:
		return e.opSxVFS(opcode)
	case opGPV:
		return e.pushVector(g.pv)
	case opGFV:
		return e.pushVector(g.fv)
	case opSFVTPV:
		g.fv = g.pv
		g.updateProjection()
	case opISECT:
		return e.opISECT()
	case opSRP0, opSRP1, opSRP2:
		p, err := s.popUint()
		if err != nil {
			return err
		}
		g.rp[opcode-opSRP0] = p
	case opSZP0, opSZP1, opSZP2, opSZPS:
		return e.opSZP(opcode)
	case opSLOOP:
		return e.opSLOOP()
	case opRTG:
		g.roundState.Mode = RoundGrid
	case opRTHG:
		g.roundState.Mode = RoundHalfGrid
	case opRTDG:
		g.roundState.Mode = RoundDoubleGrid
	case opRDTG:
		g.roundState.Mode = RoundDownToGrid
	case opRUTG:
		g.roundState.Mode = RoundUpToGrid
	case opROFF:
		g.roundState.Mode = RoundOff
	case opSROUND:
		v, err := s.pop()
		if err != nil {
			return err
		}
		g.roundState.super(0x4000, v, RoundSuper)
	case opS45ROUND:
		v, err := s.pop()
		if err != nil {
			return err
		}
		g.roundState.super(0x2d41, v, RoundSuper45)
	case opSMD, opSCVTCI, opSSWCI, opSSW, opSDB, opSDS:
		return e.opSetState(opcode)
	case opFLIPON:
		g.autoFlip = true
	case opFLIPOFF:
		g.autoFlip = false
	case opELSE:
		return e.program.skipBranch(false)
	case opJMPR:
		offset, err := s.pop()
		if err != nil {
			return err
		}
		return e.program.jump(offset)
	case opJROT, opJROF:
		return e.opJROx(opcode)
	case opIF:
		return e.opIF()
	case opEIF:
		// EIF only marks the end of an IF.
	case opDUP:
		return s.dup()
	case opPOP, opDEBUG, opSANGW, opAA, opSCANCTRL, opSCANTYPE:
		_, err := s.pop()
		return err
	case opCLEAR:
		s.clear()
	case opSWAP:
		return s.swap()
	case opDEPTH:
		return s.depth()
	case opCINDEX:
		return s.copyIndex()
	case opMINDEX:
		return s.moveIndex()
	case opROLL:
		return s.roll()
	case opALIGNPTS:
		return e.opALIGNPTS()
	case opUTP:
		return e.opUTP()
	case opLOOPCALL:
		return e.opLOOPCALL()
	case opCALL:
		return e.opCALL()
	case opFDEF:
		return e.opDEF(e.functions)
	case opIDEF:
		return e.opDEF(e.instructions)
	case opENDF:
		return e.opENDF()
	case opMDAP0, opMDAP1:
		return e.opMDAP(opcode)
	case opIUP0, opIUP1:
		return e.opIUP(opcode)
	case opSHP0, opSHP1:
		return e.opSHP(opcode)
	case opSHC0, opSHC1:
		return e.opSHC(opcode)
	case opSHZ0, opSHZ1:
		return e.opSHZ(opcode)
	case opSHPIX:
		return e.opSHPIX()
	case opIP:
		return e.opIP()
	case opMSIRP0, opMSIRP1:
		return e.opMSIRP(opcode)
	case opALIGNRP:
		return e.opALIGNRP()
	case opMIAP0, opMIAP1:
		return e.opMIAP(opcode)
	case opWS, opRS, opWCVTP, opWCVTF, opRCVT:
		return e.opData(opcode)
	case opGC0, opGC1:
		return e.opGC(opcode)
	case opSCFS:
		return e.opSCFS()
	case opMD0, opMD1:
		return e.opMD(opcode)
	case opMPPEM, opMPS:
		return s.push(g.ppem)
	case opLT, opLTEQ, opGT, opGTEQ, opEQ, opNEQ, opAND, opOR,
		opADD, opSUB, opDIV, opMUL, opMAX, opMIN:
		return e.opBinary(opcode)
	case opODD, opEVEN, opNOT, opABS, opNEG, opFLOOR, opCEILING,
		opROUND00, opROUND01, opROUND10, opROUND11,
		opNROUND00, opNROUND01, opNROUND10, opNROUND11:
		return e.opUnary(opcode)
	case opDELTAP1, opDELTAP2, opDELTAP3:
		return e.opDELTAP(opcode)
	case opDELTAC1, opDELTAC2, opDELTAC3:
		return e.opDELTAC(opcode)
	case opFLIPPT:
		return e.opFLIPPT()
	case opFLIPRGON, opFLIPRGOFF:
		return e.opFLIPRG(opcode)
	case opSDPVTL0, opSDPVTL1:
		return e.opSDPVTL(opcode)
	case opGETINFO:
		return e.opGETINFO()
	case opINSTCTRL:
		return e.opINSTCTRL()
	case opGETVAR:
		return e.opGETVAR()
	case opGETDATA:
		if e.axisCount == 0 {
			return e.opUnknown(opcode)
		}
		return s.push(17)
	default:
		switch {
		case isPush(opcode):
			return e.opPush(opcode)
		case opcode >= opMDRP00000 && opcode <= opMDRP11111:
			return e.opMDRP(opcode)
		case opcode >= opMIRP00000:
			return e.opMIRP(opcode)
		}
		return e.opUnknown(opcode)
	}
	return nil
}

// opPush pushes the inline operands of a push instruction. Byte operands are
// zero-extended, word operands are sign-extended.
func (e *engine) opPush(opcode uint8) error {
	data, words, err := e.program.decoder.operands(opcode)
	if err != nil {
		return err
	}
	if words {
		return e.stack.pushWords(data)
	}
	return e.stack.pushBytes(data)
}

func (e *engine) zone(z ZonePointer) *Zone {
	return &e.zones[z]
}

func (e *engine) pushVector(v vector) error {
	if err := e.stack.push(v.x); err != nil {
		return err
	}
	return e.stack.push(v.y)
}

func bool2int32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func f26(v int32) fixed.Int26_6 {
	return fixed.Int26_6(v)
}
