package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// swapInstr is SWP/SWPB (ARM §4.12): an atomic read-modify-write that
// loads a value from [Rn] into Rd and stores Rm to the same address in
// a single bus transaction.
type swapInstr struct {
	Cond   Condition
	Byte   bool
	Rn, Rd, Rm uint32
}

func decodeSwap(instr uint32) ArmInstruction {
	return swapInstr{
		Cond: condOf(instr),
		Byte: bits.Bit(instr, 22) == 1,
		Rn:   bits.Bits(instr, 16, 19),
		Rd:   bits.Bits(instr, 12, 15),
		Rm:   bits.Bits(instr, 0, 3),
	}
}

func (s swapInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, s.Cond) {
		return
	}

	addr := reg.Get(s.Rn)
	newValue := reg.Get(s.Rm)

	if s.Byte {
		old := c.bus.Read8(addr)
		c.bus.Write8(addr, uint8(newValue))
		reg.Set(s.Rd, uint32(old))
		return
	}

	old := rotateMisaligned(c.bus.Read32(addr&^3), addr)
	c.bus.Write32(addr&^3, newValue)
	reg.Set(s.Rd, old)
}

func (s swapInstr) Disassemble(instr uint32) string {
	name := "SWP"
	if s.Byte {
		name = "SWPB"
	}
	return fmt.Sprintf("%s%s R%d, R%d, [R%d]", name, s.Cond.Mnemonic(), s.Rd, s.Rm, s.Rn)
}
