package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// DPOp is the 4-bit data-processing opcode field (bits 21-24).
type DPOp uint32

const (
	DPAnd DPOp = 0x0
	DPEor DPOp = 0x1
	DPSub DPOp = 0x2
	DPRsb DPOp = 0x3
	DPAdd DPOp = 0x4
	DPAdc DPOp = 0x5
	DPSbc DPOp = 0x6
	DPRsc DPOp = 0x7
	DPTst DPOp = 0x8
	DPTeq DPOp = 0x9
	DPCmp DPOp = 0xA
	DPCmn DPOp = 0xB
	DPOrr DPOp = 0xC
	DPMov DPOp = 0xD
	DPBic DPOp = 0xE
	DPMvn DPOp = 0xF
)

func (op DPOp) String() string {
	return [16]string{
		"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
		"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
	}[op&0xF]
}

// flagsOnly reports whether op never writes Rd (TST/TEQ/CMP/CMN exist
// only to set flags).
func (op DPOp) flagsOnly() bool {
	switch op {
	case DPTst, DPTeq, DPCmp, DPCmn:
		return true
	default:
		return false
	}
}

// logical reports whether op is a logical (vs. arithmetic) operation:
// logical ops take C from the shifter and leave V untouched.
func (op DPOp) logical() bool {
	switch op {
	case DPAnd, DPEor, DPTst, DPTeq, DPOrr, DPMov, DPBic, DPMvn:
		return true
	default:
		return false
	}
}

// dataProcInstr is a decoded data-processing instruction (ARM §4.6).
type dataProcInstr struct {
	Cond Condition
	Op   DPOp
	S    bool
	Rn   uint32
	Rd   uint32
	Src  ShifterOperand
}

func decodeDataProcessing(instr uint32) ArmInstruction {
	return dataProcInstr{
		Cond: condOf(instr),
		Op:   DPOp(bits.Bits(instr, 21, 24)),
		S:    bits.Bit(instr, 20) == 1,
		Rn:   bits.Bits(instr, 16, 19),
		Rd:   bits.Bits(instr, 12, 15),
		Src:  DecodeShifterOperand(instr),
	}
}

func (d dataProcInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, d.Cond) {
		return
	}

	op2, shiftCarry := d.Src.Eval(reg)

	op1 := reg.Get(d.Rn)
	if d.Src.TakesExtraCycle() && d.Rn == 15 {
		op1 += 4 // Rn=R15 read as PC+12 when the shift amount costs an extra cycle.
	}

	carryIn := reg.Flag(FlagC)

	var result uint32
	var carryOut, overflow bool
	haveArith := true

	switch d.Op {
	case DPAnd, DPTst:
		result = op1 & op2
		haveArith = false
	case DPEor, DPTeq:
		result = op1 ^ op2
		haveArith = false
	case DPOrr:
		result = op1 | op2
		haveArith = false
	case DPMov:
		result = op2
		haveArith = false
	case DPBic:
		result = op1 &^ op2
		haveArith = false
	case DPMvn:
		result = ^op2
		haveArith = false
	case DPAdd, DPCmn:
		result, carryOut, overflow = addWithCarryChained(op1, op2, false)
	case DPAdc:
		result, carryOut, overflow = addWithCarryChained(op1, op2, carryIn)
	case DPSub, DPCmp:
		result, carryOut, overflow = subWithBorrowChained(op1, op2, true)
	case DPSbc:
		result, carryOut, overflow = subWithBorrowChained(op1, op2, carryIn)
	case DPRsb:
		result, carryOut, overflow = subWithBorrowChained(op2, op1, true)
	case DPRsc:
		result, carryOut, overflow = subWithBorrowChained(op2, op1, carryIn)
	default:
		panic("cpu: unreachable data-processing opcode")
	}

	if d.S {
		if d.Rd == 15 {
			// Data processing with S=1 writing R15 restores CPSR from
			// SPSR. In User/System, where HasSPSR is false, the CPSR is
			// left unchanged: a no-op rather than a crash.
			if reg.HasSPSR() {
				reg.SetCPSR(reg.SPSR())
			}
		} else if d.Op.logical() {
			reg.SetFlag(FlagN, bits.Bit(result, 31) == 1)
			reg.SetFlag(FlagZ, result == 0)
			reg.SetFlag(FlagC, shiftCarry)
		} else if haveArith {
			reg.SetFlag(FlagN, bits.Bit(result, 31) == 1)
			reg.SetFlag(FlagZ, result == 0)
			reg.SetFlag(FlagC, carryOut)
			reg.SetFlag(FlagV, overflow)
		}
	}

	if !d.Op.flagsOnly() {
		reg.Set(d.Rd, result)
	}
}

func (d dataProcInstr) Disassemble(instr uint32) string {
	s := ""
	if d.S {
		s = "S"
	}
	if d.Op.flagsOnly() {
		return fmt.Sprintf("%s%s R%d, %s", d.Op, d.Cond.Mnemonic(), d.Rn, disassembleShifter(d.Src))
	}
	if d.Op == DPMov || d.Op == DPMvn {
		return fmt.Sprintf("%s%s%s R%d, %s", d.Op, s, d.Cond.Mnemonic(), d.Rd, disassembleShifter(d.Src))
	}
	return fmt.Sprintf("%s%s%s R%d, R%d, %s", d.Op, s, d.Cond.Mnemonic(), d.Rd, d.Rn, disassembleShifter(d.Src))
}

func disassembleShifter(so ShifterOperand) string {
	if so.IsImmediate {
		return fmt.Sprintf("#%d", so.ImmRotated)
	}
	if so.IsRRX {
		return fmt.Sprintf("R%d, RRX", so.Rm)
	}
	if so.AmountIsReg {
		return fmt.Sprintf("R%d, %s R%d", so.Rm, so.Shift, so.Rs)
	}
	if so.Amount == 0 && so.Shift == ShiftLSL {
		return fmt.Sprintf("R%d", so.Rm)
	}
	return fmt.Sprintf("R%d, %s #%d", so.Rm, so.Shift, so.Amount)
}

func addOverflow(a, b, result uint32) bool {
	return (a^result)&(b^result)&0x80000000 != 0
}

func subOverflow(a, b, result uint32) bool {
	return (a^b)&(a^result)&0x80000000 != 0
}

// addWithCarryChained computes a+b(+1 if carryIn), as two chained
// additions whose carry-out and overflow are OR'd across both steps.
func addWithCarryChained(a, b uint32, carryIn bool) (result uint32, carryOut bool, overflow bool) {
	step1 := uint64(a) + uint64(b)
	r1 := uint32(step1)
	c1 := step1 > 0xFFFFFFFF
	v1 := addOverflow(a, b, r1)
	if !carryIn {
		return r1, c1, v1
	}
	step2 := uint64(r1) + 1
	r2 := uint32(step2)
	c2 := step2 > 0xFFFFFFFF
	v2 := addOverflow(r1, 1, r2)
	return r2, c1 || c2, v1 || v2
}

// subWithBorrowChained computes a-b(-1 if !carryIn), as two chained
// subtractions whose no-borrow/overflow are OR'd across both steps.
// carryIn follows the ARM convention: C=1 means no borrow.
func subWithBorrowChained(a, b uint32, carryIn bool) (result uint32, carryOut bool, overflow bool) {
	r1 := a - b
	borrow1 := a < b
	v1 := subOverflow(a, b, r1)
	if carryIn {
		return r1, !borrow1, v1
	}
	r2 := r1 - 1
	borrow2 := r1 < 1
	v2 := subOverflow(r1, 1, r2)
	return r2, !(borrow1 || borrow2), v1 || v2
}
