package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// branchInstr is B/BL (ARM §4.11).
type branchInstr struct {
	Cond   Condition
	Link   bool
	Offset int32 // already sign-extended and shifted left by 2
}

func decodeBranch(instr uint32) ArmInstruction {
	raw := bits.Bits(instr, 0, 23)
	offset := int32(raw<<8) >> 6 // sign-extend 24 bits, then <<2
	return branchInstr{
		Cond:   condOf(instr),
		Link:   bits.Bit(instr, 24) == 1,
		Offset: offset,
	}
}

func (b branchInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, b.Cond) {
		return
	}
	target := uint32(int64(reg.Get(15)) + int64(b.Offset))
	if b.Link {
		reg.Set(14, reg.CurrentPC()+4)
	}
	reg.SetPC(target)
}

func (b branchInstr) Disassemble(instr uint32) string {
	name := "B"
	if b.Link {
		name = "BL"
	}
	return fmt.Sprintf("%s%s #%d", name, b.Cond.Mnemonic(), b.Offset)
}

// branchExchangeInstr is BX Rm (ARM §4.11): switches instruction set
// based on Rm's bit 0 and branches to Rm & ~1.
type branchExchangeInstr struct {
	Cond Condition
	Rm   uint32
}

func decodeBranchExchange(instr uint32) ArmInstruction {
	return branchExchangeInstr{Cond: condOf(instr), Rm: bits.Bits(instr, 0, 3)}
}

func (b branchExchangeInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, b.Cond) {
		return
	}
	rm := reg.Get(b.Rm)
	reg.SetThumb(rm&1 == 1)
	reg.SetPCExact(rm &^ 1)
}

func (b branchExchangeInstr) Disassemble(instr uint32) string {
	return fmt.Sprintf("BX%s R%d", b.Cond.Mnemonic(), b.Rm)
}
