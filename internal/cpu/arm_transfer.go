package cpu

import (
	"fmt"

	"gbacpu/internal/bits"
)

// singleDataTransferInstr is LDR/STR (ARM §4.8): word or byte, with an
// immediate or shifted-register offset, pre/post-indexed addressing and
// optional base writeback.
type singleDataTransferInstr struct {
	Cond                   Condition
	Pre, Up, Byte, WB, Load bool
	Rn, Rd                 uint32
	RegOffset              bool
	ImmOffset              uint32
	OffsetShift            ShifterOperand // valid when RegOffset
}

func decodeSingleDataTransfer(instr uint32) ArmInstruction {
	s := singleDataTransferInstr{
		Cond:      condOf(instr),
		Pre:       bits.Bit(instr, 24) == 1,
		Up:        bits.Bit(instr, 23) == 1,
		Byte:      bits.Bit(instr, 22) == 1,
		WB:        bits.Bit(instr, 21) == 1,
		Load:      bits.Bit(instr, 20) == 1,
		Rn:        bits.Bits(instr, 16, 19),
		Rd:        bits.Bits(instr, 12, 15),
		RegOffset: bits.Bit(instr, 25) == 1,
	}
	if s.RegOffset {
		s.OffsetShift = ShifterOperand{
			Rm:     bits.Bits(instr, 0, 3),
			Shift:  ShiftType(bits.Bits(instr, 5, 6)),
			Amount: bits.Bits(instr, 7, 11),
		}
		if s.OffsetShift.Shift == ShiftROR && s.OffsetShift.Amount == 0 {
			s.OffsetShift.IsRRX = true
		}
	} else {
		s.ImmOffset = bits.Bits(instr, 0, 11)
	}
	return s
}

func (s singleDataTransferInstr) offsetValue(reg *Registers) uint32 {
	if !s.RegOffset {
		return s.ImmOffset
	}
	v, _ := s.OffsetShift.Eval(reg)
	return v
}

func (s singleDataTransferInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, s.Cond) {
		return
	}

	base := reg.Get(s.Rn)
	offset := s.offsetValue(reg)

	var effective uint32
	if s.Up {
		effective = base + offset
	} else {
		effective = base - offset
	}

	addr := base
	if s.Pre {
		addr = effective
	}

	if s.Load {
		var value uint32
		if s.Byte {
			value = uint32(c.bus.Read8(addr))
		} else {
			value = rotateMisaligned(c.bus.Read32(addr&^3), addr)
		}
		reg.Set(s.Rd, value)
	} else {
		value := reg.Get(s.Rd)
		if s.Byte {
			c.bus.Write8(addr, uint8(value))
		} else {
			c.bus.Write32(addr&^3, value)
		}
	}

	if !s.Pre || s.WB {
		if !(s.Load && s.Rd == s.Rn) {
			reg.Set(s.Rn, effective)
		}
	}
}

// rotateMisaligned reproduces the ARM7 LDR quirk: a word read from a
// non-word-aligned address rotates the fetched (aligned-down) word so
// that the addressed byte lands in bits 7-0.
func rotateMisaligned(word, addr uint32) uint32 {
	rot := (addr & 3) * 8
	if rot == 0 {
		return word
	}
	return (word >> rot) | (word << (32 - rot))
}

func (s singleDataTransferInstr) Disassemble(instr uint32) string {
	name := "STR"
	if s.Load {
		name = "LDR"
	}
	if s.Byte {
		name += "B"
	}
	return fmt.Sprintf("%s%s R%d, [R%d, ...]", name, s.Cond.Mnemonic(), s.Rd, s.Rn)
}

// halfwordOp identifies which of the halfword/signed transfer variants
// bits [6:5] select.
type halfwordOp uint32

const (
	hwUnsignedHalf halfwordOp = 0b01
	hwSignedByte   halfwordOp = 0b10
	hwSignedHalf   halfwordOp = 0b11
)

// halfwordTransferInstr is LDRH/STRH/LDRSB/LDRSH (ARM §4.8).
type halfwordTransferInstr struct {
	Cond             Condition
	Pre, Up, WB, Load bool
	Rn, Rd           uint32
	Op               halfwordOp
	ImmOffsetForm    bool
	ImmOffset        uint32
	Rm               uint32
}

func decodeHalfwordTransfer(instr uint32, isImm bool) ArmInstruction {
	h := halfwordTransferInstr{
		Cond:          condOf(instr),
		Pre:           bits.Bit(instr, 24) == 1,
		Up:            bits.Bit(instr, 23) == 1,
		WB:            bits.Bit(instr, 21) == 1,
		Load:          bits.Bit(instr, 20) == 1,
		Rn:            bits.Bits(instr, 16, 19),
		Rd:            bits.Bits(instr, 12, 15),
		Op:            halfwordOp(bits.Bits(instr, 5, 6)),
		ImmOffsetForm: isImm,
	}
	if isImm {
		h.ImmOffset = (bits.Bits(instr, 8, 11) << 4) | bits.Bits(instr, 0, 3)
	} else {
		h.Rm = bits.Bits(instr, 0, 3)
	}
	return h
}

func (h halfwordTransferInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, h.Cond) {
		return
	}

	base := reg.Get(h.Rn)
	var offset uint32
	if h.ImmOffsetForm {
		offset = h.ImmOffset
	} else {
		offset = reg.Get(h.Rm)
	}

	var effective uint32
	if h.Up {
		effective = base + offset
	} else {
		effective = base - offset
	}

	addr := base
	if h.Pre {
		addr = effective
	}

	if h.Load {
		var value uint32
		switch h.Op {
		case hwSignedByte:
			value = uint32(int32(int8(c.bus.Read8(addr))))
		case hwSignedHalf:
			value = uint32(int32(int16(c.bus.Read16(addr &^ 1))))
		default: // unsigned halfword
			value = uint32(c.bus.Read16(addr &^ 1))
		}
		reg.Set(h.Rd, value)
	} else {
		// Only STRH is architecturally defined for the non-load form.
		c.bus.Write16(addr&^1, uint16(reg.Get(h.Rd)))
	}

	if !h.Pre || h.WB {
		if !(h.Load && h.Rd == h.Rn) {
			reg.Set(h.Rn, effective)
		}
	}
}

func (h halfwordTransferInstr) Disassemble(instr uint32) string {
	name := map[halfwordOp]string{
		hwUnsignedHalf: "H",
		hwSignedByte:   "SB",
		hwSignedHalf:   "SH",
	}[h.Op]
	prefix := "STR"
	if h.Load {
		prefix = "LDR"
	}
	return fmt.Sprintf("%s%s%s R%d, [R%d, ...]", prefix, name, h.Cond.Mnemonic(), h.Rd, h.Rn)
}
