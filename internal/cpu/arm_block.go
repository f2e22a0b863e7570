package cpu

import (
	"fmt"
	"math/bits"

	arbits "gbacpu/internal/bits"
)

// blockDataTransferInstr is LDM/STM (ARM §4.8): transfers any subset of
// R0-R15 in a single instruction, always ordering the lowest-numbered
// register at the lowest memory address regardless of addressing mode.
type blockDataTransferInstr struct {
	Cond             Condition
	Pre, Up, S, WB, Load bool
	Rn               uint32
	RegList          uint16
}

func decodeBlockDataTransfer(instr uint32) ArmInstruction {
	return blockDataTransferInstr{
		Cond:    condOf(instr),
		Pre:     arbits.Bit(instr, 24) == 1,
		Up:      arbits.Bit(instr, 23) == 1,
		S:       arbits.Bit(instr, 22) == 1,
		WB:      arbits.Bit(instr, 21) == 1,
		Load:    arbits.Bit(instr, 20) == 1,
		Rn:      arbits.Bits(instr, 16, 19),
		RegList: uint16(arbits.Bits(instr, 0, 15)),
	}
}

// addressRange returns the address of the lowest-numbered register's
// slot and the value Rn takes on writeback, for n registers transferred
// starting from base under the given P/U addressing mode.
func addressRange(base uint32, n uint32, up, pre bool) (start, writeback uint32) {
	if up {
		start = base
		if pre {
			start += 4
		}
		return start, base + 4*n
	}
	start = base - 4*n
	if !pre {
		start += 4
	}
	return start, base - 4*n
}

func (b blockDataTransferInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, b.Cond) {
		return
	}

	n := uint32(bits.OnesCount16(b.RegList))
	if n == 0 {
		return // empty list: architecturally unpredictable, treated as a no-op
	}

	base := reg.Get(b.Rn)
	start, writeback := addressRange(base, n, b.Up, b.Pre)

	pc15InList := b.RegList&(1<<15) != 0
	forceUserBank := b.S && !(b.Load && pc15InList)

	addr := start
	for r := uint32(0); r < 16; r++ {
		if b.RegList&(1<<r) == 0 {
			continue
		}
		if b.Load {
			value := c.bus.Read32(addr &^ 3)
			if forceUserBank {
				reg.SetUser(r, value)
			} else {
				reg.Set(r, value)
			}
		} else {
			var value uint32
			if forceUserBank {
				value = reg.GetUser(r)
			} else {
				value = reg.Get(r)
			}
			c.bus.Write32(addr&^3, value)
		}
		addr += 4
	}

	if b.Load && pc15InList && b.S {
		reg.SetCPSR(reg.SPSR())
	}

	if b.WB {
		reg.Set(b.Rn, writeback)
	}
}

func (b blockDataTransferInstr) Disassemble(instr uint32) string {
	name := "STM"
	if b.Load {
		name = "LDM"
	}
	return fmt.Sprintf("%s%s R%d, {%016b}", name, b.Cond.Mnemonic(), b.Rn, b.RegList)
}
