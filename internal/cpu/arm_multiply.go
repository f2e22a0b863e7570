package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// mulInstr is MUL/MLA (ARM §4.6's multiply family, 32x32->32).
type mulInstr struct {
	Cond        Condition
	Accumulate  bool
	S           bool
	Rd, Rn, Rs, Rm uint32
}

func decodeMultiply(instr uint32) ArmInstruction {
	return mulInstr{
		Cond:       condOf(instr),
		Accumulate: bits.Bit(instr, 21) == 1,
		S:          bits.Bit(instr, 20) == 1,
		Rd:         bits.Bits(instr, 16, 19),
		Rn:         bits.Bits(instr, 12, 15),
		Rs:         bits.Bits(instr, 8, 11),
		Rm:         bits.Bits(instr, 0, 3),
	}
}

func (m mulInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, m.Cond) {
		return
	}
	result := reg.Get(m.Rm) * reg.Get(m.Rs)
	if m.Accumulate {
		result += reg.Get(m.Rn)
	}
	reg.Set(m.Rd, result)
	if m.S {
		reg.SetFlag(FlagN, bits.Bit(result, 31) == 1)
		reg.SetFlag(FlagZ, result == 0)
		// C is left undefined by the architecture; unaffected here.
	}
}

func (m mulInstr) Disassemble(instr uint32) string {
	if m.Accumulate {
		return fmt.Sprintf("MLA%s R%d, R%d, R%d, R%d", m.Cond.Mnemonic(), m.Rd, m.Rm, m.Rs, m.Rn)
	}
	return fmt.Sprintf("MUL%s R%d, R%d, R%d", m.Cond.Mnemonic(), m.Rd, m.Rm, m.Rs)
}

// mulLongInstr is UMULL/UMLAL/SMULL/SMLAL (32x32->64).
type mulLongInstr struct {
	Cond             Condition
	Signed           bool
	Accumulate       bool
	S                bool
	RdHi, RdLo, Rs, Rm uint32
}

func decodeMultiplyLong(instr uint32) ArmInstruction {
	return mulLongInstr{
		Cond:       condOf(instr),
		Signed:     bits.Bit(instr, 22) == 1,
		Accumulate: bits.Bit(instr, 21) == 1,
		S:          bits.Bit(instr, 20) == 1,
		RdHi:       bits.Bits(instr, 16, 19),
		RdLo:       bits.Bits(instr, 12, 15),
		Rs:         bits.Bits(instr, 8, 11),
		Rm:         bits.Bits(instr, 0, 3),
	}
}

func (m mulLongInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, m.Cond) {
		return
	}

	var product uint64
	if m.Signed {
		product = uint64(int64(int32(reg.Get(m.Rm))) * int64(int32(reg.Get(m.Rs))))
	} else {
		product = uint64(reg.Get(m.Rm)) * uint64(reg.Get(m.Rs))
	}

	if m.Accumulate {
		acc := uint64(reg.Get(m.RdHi))<<32 | uint64(reg.Get(m.RdLo))
		product += acc
	}

	reg.Set(m.RdLo, uint32(product))
	reg.Set(m.RdHi, uint32(product>>32))

	if m.S {
		reg.SetFlag(FlagN, product&0x8000000000000000 != 0)
		reg.SetFlag(FlagZ, product == 0)
	}
}

func (m mulLongInstr) Disassemble(instr uint32) string {
	name := "UMULL"
	switch {
	case m.Signed && m.Accumulate:
		name = "SMLAL"
	case m.Signed:
		name = "SMULL"
	case m.Accumulate:
		name = "UMLAL"
	}
	return fmt.Sprintf("%s%s R%d, R%d, R%d, R%d", name, m.Cond.Mnemonic(), m.RdLo, m.RdHi, m.Rm, m.Rs)
}
