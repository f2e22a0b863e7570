package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// psrField is one of the four byte lanes MSR's field mask can select.
type psrField int

const (
	fieldControl   psrField = iota // bits 7:0   (mode, T, I, F)
	fieldExtension                 // bits 15:8  (unused on ARMv4T)
	fieldStatus                    // bits 23:16 (unused on ARMv4T)
	fieldFlags                     // bits 31:24 (N Z C V)
)

func fieldByteMask(f psrField) uint32 { return 0xFF << (8 * uint(f)) }

// mrsInstr is MRS (ARM §4.6): reads CPSR or the current mode's SPSR into
// a general register.
type mrsInstr struct {
	Cond Condition
	Spsr bool
	Rd   uint32
}

// msrInstr is MSR (ARM §4.6): writes selected byte lanes of CPSR or SPSR
// from a register or rotated immediate, gated by a 4-bit field mask.
type msrInstr struct {
	Cond      Condition
	Spsr      bool
	FieldMask uint32 // bits 19:16 of the instruction, one bit per psrField
	Imm       bool
	Rm        uint32
	Immediate uint32 // already rotated, valid when Imm
}

func decodePsrTransfer(instr uint32) ArmInstruction {
	spsr := bits.Bit(instr, 22) == 1
	isMsr := bits.Bit(instr, 21) == 1

	if !isMsr {
		return mrsInstr{Cond: condOf(instr), Spsr: spsr, Rd: bits.Bits(instr, 12, 15)}
	}

	m := msrInstr{
		Cond:      condOf(instr),
		Spsr:      spsr,
		FieldMask: bits.Bits(instr, 16, 19),
		Imm:       bits.Bit(instr, 25) == 1,
	}
	if m.Imm {
		imm8 := bits.Bits(instr, 0, 7)
		rot := bits.Bits(instr, 8, 11) * 2
		m.Immediate = rotateRight32(imm8, rot)
	} else {
		m.Rm = bits.Bits(instr, 0, 3)
	}
	return m
}

func (m mrsInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, m.Cond) {
		return
	}
	if m.Spsr {
		reg.Set(m.Rd, reg.SPSR())
	} else {
		reg.Set(m.Rd, reg.CPSR())
	}
}

func (m mrsInstr) Disassemble(instr uint32) string {
	src := "CPSR"
	if m.Spsr {
		src = "SPSR"
	}
	return fmt.Sprintf("MRS%s R%d, %s", m.Cond.Mnemonic(), m.Rd, src)
}

// writeMask builds the set of bits an MSR's field mask selects. The
// flags lane (N Z C V, and the top bits) is always writable; the other
// three lanes carry privileged state and are masked out in User mode
// (ARM §4.6 -- software running unprivileged may only touch condition
// flags).
func (m msrInstr) writeMask(reg *Registers) uint32 {
	var mask uint32
	for f := fieldControl; f <= fieldFlags; f++ {
		if m.FieldMask&(1<<uint(f)) == 0 {
			continue
		}
		if f != fieldFlags && reg.Mode() == ModeUser {
			continue
		}
		mask |= fieldByteMask(f)
	}
	return mask
}

func (m msrInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, m.Cond) {
		return
	}

	var value uint32
	if m.Imm {
		value = m.Immediate
	} else {
		value = reg.Get(m.Rm)
	}

	mask := m.writeMask(reg)
	if m.Spsr {
		reg.SetSPSR((reg.SPSR() &^ mask) | (value & mask))
		return
	}
	reg.SetCPSR((reg.CPSR() &^ mask) | (value & mask))
}

func (m msrInstr) Disassemble(instr uint32) string {
	dst := "CPSR"
	if m.Spsr {
		dst = "SPSR"
	}
	operand := fmt.Sprintf("R%d", m.Rm)
	if m.Imm {
		operand = fmt.Sprintf("#0x%X", m.Immediate)
	}
	return fmt.Sprintf("MSR%s %s_%04b, %s", m.Cond.Mnemonic(), dst, m.FieldMask, operand)
}
