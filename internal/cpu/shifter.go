package cpu

import "gbacpu/internal/bits"

// ShiftType is the two-bit shift-type field carried in data-processing
// operand2 encodings.
type ShiftType uint32

const (
	ShiftLSL ShiftType = 0
	ShiftLSR ShiftType = 1
	ShiftASR ShiftType = 2
	ShiftROR ShiftType = 3
)

func (s ShiftType) String() string {
	switch s {
	case ShiftLSL:
		return "LSL"
	case ShiftLSR:
		return "LSR"
	case ShiftASR:
		return "ASR"
	case ShiftROR:
		return "ROR"
	default:
		return "??"
	}
}

// ShifterOperand is the decoded second operand of a data-processing
// instruction (bits [11:0] of the ARM encoding). It is either an
// 8-bit immediate rotated by an even amount, or a register optionally
// shifted by an immediate or by another register's low byte.
type ShifterOperand struct {
	IsImmediate bool

	// Immediate form.
	ImmRotated uint32 // the 8-bit immediate already rotated into place
	ImmRotate  uint32 // rotate amount actually applied (0, 2, 4, .. 30)

	// Register form.
	Rm          uint32
	Shift       ShiftType
	AmountIsReg bool   // shift amount comes from Rs's low byte, not a 5-bit immediate
	Amount      uint32 // 5-bit immediate shift amount, valid when !AmountIsReg
	Rs          uint32 // shift-amount register, valid when AmountIsReg
	IsRRX       bool   // ROR with immediate amount 0 decodes as rotate-right-extended
}

// DecodeShifterOperand parses the 12-bit operand2 field of a
// data-processing instruction, honoring the I bit (25) that selects
// between the immediate and register forms.
func DecodeShifterOperand(instr uint32) ShifterOperand {
	if bits.Bit(instr, 25) == 1 {
		imm := bits.Bits(instr, 0, 7)
		rotate := bits.Bits(instr, 8, 11) * 2
		return ShifterOperand{
			IsImmediate: true,
			ImmRotated:  rotateRight32(imm, rotate),
			ImmRotate:   rotate,
		}
	}

	so := ShifterOperand{
		Rm:    bits.Bits(instr, 0, 3),
		Shift: ShiftType(bits.Bits(instr, 5, 6)),
	}
	if bits.Bit(instr, 4) == 1 {
		so.AmountIsReg = true
		so.Rs = bits.Bits(instr, 8, 11)
	} else {
		so.Amount = bits.Bits(instr, 7, 11)
		if so.Shift == ShiftROR && so.Amount == 0 {
			so.IsRRX = true
		}
	}
	return so
}

// TakesExtraCycle reports whether evaluating this operand2 costs an
// extra internal cycle: true only for a register-specified shift
// amount, which on real hardware reads Rs out of the register file
// before the barrel shifter runs. Data-processing uses this to decide
// whether Rn (when it is R15) should be read as PC+12 instead of PC+8.
func (so ShifterOperand) TakesExtraCycle() bool {
	return !so.IsImmediate && so.AmountIsReg
}

// Eval computes the operand2 value and shifter carry-out. reg supplies
// Rm/Rs and the current carry flag (consulted whenever the shift amount
// is architecturally defined to leave the carry unchanged).
func (so ShifterOperand) Eval(reg *Registers) (value uint32, carryOut bool) {
	if so.IsImmediate {
		if so.ImmRotate == 0 {
			return so.ImmRotated, reg.Flag(FlagC)
		}
		return so.ImmRotated, bits.Bit(so.ImmRotated, 31) == 1
	}

	rm := reg.Get(so.Rm)
	carryIn := reg.Flag(FlagC)

	if so.IsRRX {
		out := (rm >> 1) | boolBit32(carryIn, 31)
		return out, bits.Bit(rm, 0) == 1
	}

	if so.AmountIsReg {
		// Rs=15 reading PC here is unpredictable on real hardware; this
		// implementation reads it as an ordinary register rather than
		// reproducing that undefined behavior.
		amt := bits.Bits(reg.Get(so.Rs), 0, 7)
		return evalRegisterShift(so.Shift, rm, amt, carryIn)
	}

	return evalImmediateShift(so.Shift, rm, so.Amount, carryIn)
}

func evalImmediateShift(shift ShiftType, rm, amt uint32, carryIn bool) (uint32, bool) {
	switch shift {
	case ShiftLSL:
		return shiftLeft(rm, amt, carryIn)
	case ShiftLSR:
		if amt == 0 {
			// Encoded shift amount 0 means LSR #32.
			return 0, bits.Bit(rm, 31) == 1
		}
		return shiftRightLogical(rm, amt, carryIn)
	case ShiftASR:
		if amt == 0 {
			// Encoded shift amount 0 means ASR #32.
			return arithShift32(rm), bits.Bit(rm, 31) == 1
		}
		return shiftRightArith(rm, amt, carryIn)
	case ShiftROR:
		// amt==0 is handled by IsRRX before reaching here.
		return rotateRight32(rm, amt), bits.Bit(rm, uint(amt-1)) == 1
	default:
		panic("cpu: unknown shift type")
	}
}

func evalRegisterShift(shift ShiftType, rm, amt uint32, carryIn bool) (uint32, bool) {
	if amt == 0 {
		return rm, carryIn
	}
	switch shift {
	case ShiftLSL:
		return shiftLeft(rm, amt, carryIn)
	case ShiftLSR:
		return shiftRightLogical(rm, amt, carryIn)
	case ShiftASR:
		if amt >= 32 {
			return arithShift32(rm), bits.Bit(rm, 31) == 1
		}
		return shiftRightArith(rm, amt, carryIn)
	case ShiftROR:
		mod := amt & 0x1F
		if mod == 0 {
			// Nonzero multiple of 32: value unchanged, carry is bit 31.
			return rm, bits.Bit(rm, 31) == 1
		}
		return rotateRight32(rm, mod), bits.Bit(rm, uint(mod-1)) == 1
	default:
		panic("cpu: unknown shift type")
	}
}

func shiftLeft(rm, amt uint32, carryIn bool) (uint32, bool) {
	switch {
	case amt == 0:
		return rm, carryIn
	case amt == 32:
		return 0, bits.Bit(rm, 0) == 1
	case amt > 32:
		return 0, false
	default:
		return rm << amt, bits.Bit(rm, uint(32-amt)) == 1
	}
}

func shiftRightLogical(rm, amt uint32, carryIn bool) (uint32, bool) {
	switch {
	case amt == 32:
		return 0, bits.Bit(rm, 31) == 1
	case amt > 32:
		return 0, false
	default:
		return rm >> amt, bits.Bit(rm, uint(amt-1)) == 1
	}
}

func shiftRightArith(rm, amt uint32, carryIn bool) (uint32, bool) {
	if amt >= 32 {
		return arithShift32(rm), bits.Bit(rm, 31) == 1
	}
	signed := int32(rm) >> amt
	return uint32(signed), bits.Bit(rm, uint(amt-1)) == 1
}

// arithShift32 is ASR by 32 or more: every bit becomes the sign bit.
func arithShift32(rm uint32) uint32 {
	if bits.Bit(rm, 31) == 1 {
		return 0xFFFFFFFF
	}
	return 0
}

func rotateRight32(v, amt uint32) uint32 {
	amt &= 31
	if amt == 0 {
		return v
	}
	return (v >> amt) | (v << (32 - amt))
}

func boolBit32(v bool, pos uint) uint32 {
	if v {
		return 1 << pos
	}
	return 0
}
