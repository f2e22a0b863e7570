package cpu

import "gbacpu/internal/bits"

// ThumbInstruction is a decoded Thumb-state instruction, the 16-bit
// counterpart of ArmInstruction.
type ThumbInstruction interface {
	Execute(c *CPU, instr uint16)
	Disassemble(instr uint16) string
}

// DecodeThumb classifies a 16-bit instruction word into one of the
// ~19 Thumb formats. Every format maps to semantics equivalent to a
// constrained subset of an ARM encoding. Where two formats' fixed bits
// overlap, the one with more fixed bits is tried first (format 2 before
// format 1; SWI and the reserved cond=1110 word before format 16).
func DecodeThumb(instr uint16) ThumbInstruction {
	switch {
	case bits.Bits16(instr, 11, 15) == 0b00011: // format 2: add/subtract
		return decodeThumbAddSub(instr)
	case bits.Bits16(instr, 13, 15) == 0b000: // format 1: move shifted register
		return decodeThumbShift(instr)
	case bits.Bits16(instr, 13, 15) == 0b001: // format 3: move/cmp/add/sub immediate
		return decodeThumbImmOp(instr)
	case bits.Bits16(instr, 10, 15) == 0b010000: // format 4: ALU operations
		return decodeThumbAlu(instr)
	case bits.Bits16(instr, 10, 15) == 0b010001: // format 5: hi register ops / BX
		return decodeThumbHiReg(instr)
	case bits.Bits16(instr, 11, 15) == 0b01001: // format 6: PC-relative load
		return decodeThumbPcRelLoad(instr)
	case bits.Bits16(instr, 12, 15) == 0b0101 && bits.Bit16(instr, 9) == 0: // format 7
		return decodeThumbRegOffset(instr)
	case bits.Bits16(instr, 12, 15) == 0b0101 && bits.Bit16(instr, 9) == 1: // format 8
		return decodeThumbSignExtended(instr)
	case bits.Bits16(instr, 13, 15) == 0b011: // format 9: load/store immediate offset
		return decodeThumbImmOffset(instr)
	case bits.Bits16(instr, 12, 15) == 0b1000: // format 10: load/store halfword
		return decodeThumbHalfword(instr)
	case bits.Bits16(instr, 12, 15) == 0b1001: // format 11: SP-relative load/store
		return decodeThumbSpRel(instr)
	case bits.Bits16(instr, 12, 15) == 0b1010: // format 12: load address
		return decodeThumbLoadAddress(instr)
	case bits.Bits16(instr, 8, 15) == 0b10110000: // format 13: add offset to SP
		return decodeThumbAdjustSp(instr)
	case bits.Bits16(instr, 12, 15) == 0b1011 && bits.Bits16(instr, 9, 10) == 0b10: // format 14: push/pop
		return decodeThumbPushPop(instr)
	case bits.Bits16(instr, 12, 15) == 0b1100: // format 15: multiple load/store
		return decodeThumbMultipleTransfer(instr)
	case bits.Bits16(instr, 8, 15) == 0b11011111: // format 17: SWI
		return decodeThumbSwi(instr)
	case bits.Bits16(instr, 12, 15) == 0b1101 && bits.Bits16(instr, 8, 11) == 0b1110: // cond=1110 is reserved here, not AL
		return thumbInvalid{}
	case bits.Bits16(instr, 12, 15) == 0b1101: // format 16: conditional branch
		return decodeThumbCondBranch(instr)
	case bits.Bits16(instr, 11, 15) == 0b11100: // format 18: unconditional branch
		return decodeThumbBranch(instr)
	case bits.Bits16(instr, 12, 15) == 0b1111: // format 19: long branch with link
		return decodeThumbLongBranchLink(instr)
	default:
		return thumbInvalid{}
	}
}

// thumbInvalid is the decoder's sink for bit patterns none of the 19
// documented formats cover.
type thumbInvalid struct{}

func (thumbInvalid) Execute(c *CPU, instr uint16) {
	panic("cpu: executed invalid thumb instruction")
}

func (thumbInvalid) Disassemble(instr uint16) string { return "invalid" }
