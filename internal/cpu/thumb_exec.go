package cpu

import (
	"fmt"
	"math/bits"

	arbits "gbacpu/internal/bits"
)

// signExtend sign-extends the low n bits of v to a full 32-bit value.
func signExtend(v uint32, n uint) uint32 {
	shift := 32 - n
	return uint32(int32(v<<shift) >> shift)
}

func setArithFlags(reg *Registers, result uint32, carryOut, overflow bool) {
	reg.SetFlag(FlagN, arbits.Bit(result, 31) == 1)
	reg.SetFlag(FlagZ, result == 0)
	reg.SetFlag(FlagC, carryOut)
	reg.SetFlag(FlagV, overflow)
}

func setLogicalFlags(reg *Registers, result uint32, carryOut bool) {
	reg.SetFlag(FlagN, arbits.Bit(result, 31) == 1)
	reg.SetFlag(FlagZ, result == 0)
	reg.SetFlag(FlagC, carryOut)
}

// --- Format 1: move shifted register (LSL/LSR/ASR #imm) ---

type thumbShiftInstr struct {
	Op     ShiftType
	Offset uint32
	Rs, Rd uint32
}

func decodeThumbShift(instr uint16) ThumbInstruction {
	return thumbShiftInstr{
		Op:     ShiftType(arbits.Bits16(instr, 11, 12)),
		Offset: uint32(arbits.Bits16(instr, 6, 10)),
		Rs:     uint32(arbits.Bits16(instr, 3, 5)),
		Rd:     uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbShiftInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	rs := reg.Get(t.Rs)
	carryIn := reg.Flag(FlagC)
	var result uint32
	var carryOut bool
	switch t.Op {
	case ShiftLSL:
		result, carryOut = shiftLeft(rs, t.Offset, carryIn)
	case ShiftLSR:
		if t.Offset == 0 {
			result, carryOut = 0, arbits.Bit(rs, 31) == 1
		} else {
			result, carryOut = shiftRightLogical(rs, t.Offset, carryIn)
		}
	case ShiftASR:
		if t.Offset == 0 {
			result, carryOut = arithShift32(rs), arbits.Bit(rs, 31) == 1
		} else {
			result, carryOut = shiftRightArith(rs, t.Offset, carryIn)
		}
	}
	reg.Set(t.Rd, result)
	setLogicalFlags(reg, result, carryOut)
}

func (t thumbShiftInstr) Disassemble(instr uint16) string {
	return fmt.Sprintf("%s R%d, R%d, #%d", t.Op, t.Rd, t.Rs, t.Offset)
}

// --- Format 2: add/subtract ---

type thumbAddSubInstr struct {
	Sub       bool
	Imm       bool
	RnOrImm   uint32
	Rs, Rd    uint32
}

func decodeThumbAddSub(instr uint16) ThumbInstruction {
	return thumbAddSubInstr{
		Sub:     arbits.Bit16(instr, 9) == 1,
		Imm:     arbits.Bit16(instr, 10) == 1,
		RnOrImm: uint32(arbits.Bits16(instr, 6, 8)),
		Rs:      uint32(arbits.Bits16(instr, 3, 5)),
		Rd:      uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbAddSubInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	op1 := reg.Get(t.Rs)
	var op2 uint32
	if t.Imm {
		op2 = t.RnOrImm
	} else {
		op2 = reg.Get(t.RnOrImm)
	}
	var result uint32
	var carryOut, overflow bool
	if t.Sub {
		result, carryOut, overflow = subWithBorrowChained(op1, op2, true)
	} else {
		result, carryOut, overflow = addWithCarryChained(op1, op2, false)
	}
	reg.Set(t.Rd, result)
	setArithFlags(reg, result, carryOut, overflow)
}

func (t thumbAddSubInstr) Disassemble(instr uint16) string {
	name := "ADD"
	if t.Sub {
		name = "SUB"
	}
	if t.Imm {
		return fmt.Sprintf("%s R%d, R%d, #%d", name, t.Rd, t.Rs, t.RnOrImm)
	}
	return fmt.Sprintf("%s R%d, R%d, R%d", name, t.Rd, t.Rs, t.RnOrImm)
}

// --- Format 3: move/compare/add/subtract immediate ---

type thumbImmOpInstr struct {
	Op  uint32 // 0=MOV 1=CMP 2=ADD 3=SUB
	Rd  uint32
	Imm uint32
}

func decodeThumbImmOp(instr uint16) ThumbInstruction {
	return thumbImmOpInstr{
		Op:  uint32(arbits.Bits16(instr, 11, 12)),
		Rd:  uint32(arbits.Bits16(instr, 8, 10)),
		Imm: uint32(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbImmOpInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	op1 := reg.Get(t.Rd)
	var result uint32
	var carryOut, overflow bool
	var writesRd = true
	switch t.Op {
	case 0: // MOV
		result = t.Imm
		reg.Set(t.Rd, result)
		setLogicalFlags(reg, result, reg.Flag(FlagC))
		return
	case 1: // CMP
		result, carryOut, overflow = subWithBorrowChained(op1, t.Imm, true)
		writesRd = false
	case 2: // ADD
		result, carryOut, overflow = addWithCarryChained(op1, t.Imm, false)
	case 3: // SUB
		result, carryOut, overflow = subWithBorrowChained(op1, t.Imm, true)
	}
	if writesRd {
		reg.Set(t.Rd, result)
	}
	setArithFlags(reg, result, carryOut, overflow)
}

func (t thumbImmOpInstr) Disassemble(instr uint16) string {
	name := [4]string{"MOV", "CMP", "ADD", "SUB"}[t.Op]
	return fmt.Sprintf("%s R%d, #%d", name, t.Rd, t.Imm)
}

// --- Format 4: ALU operations ---

type thumbAluInstr struct {
	Op     uint32
	Rs, Rd uint32
}

func decodeThumbAlu(instr uint16) ThumbInstruction {
	return thumbAluInstr{
		Op: uint32(arbits.Bits16(instr, 6, 9)),
		Rs: uint32(arbits.Bits16(instr, 3, 5)),
		Rd: uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbAluInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	rd := reg.Get(t.Rd)
	rs := reg.Get(t.Rs)
	carryIn := reg.Flag(FlagC)

	var result uint32
	var carryOut, overflow bool
	logical := false
	writesRd := true

	switch t.Op {
	case 0x0: // AND
		result, logical = rd&rs, true
	case 0x1: // EOR
		result, logical = rd^rs, true
	case 0x2: // LSL
		result, carryOut = shiftLeft(rd, rs&0xFF, carryIn)
		logical = true
	case 0x3: // LSR
		amt := rs & 0xFF
		if amt == 0 {
			result, carryOut = rd, carryIn
		} else {
			result, carryOut = shiftRightLogical(rd, amt, carryIn)
		}
		logical = true
	case 0x4: // ASR
		amt := rs & 0xFF
		if amt == 0 {
			result, carryOut = rd, carryIn
		} else {
			result, carryOut = shiftRightArith(rd, amt, carryIn)
		}
		logical = true
	case 0x5: // ADC
		result, carryOut, overflow = addWithCarryChained(rd, rs, carryIn)
	case 0x6: // SBC
		result, carryOut, overflow = subWithBorrowChained(rd, rs, carryIn)
	case 0x7: // ROR
		amt := rs & 0xFF
		if amt == 0 {
			result, carryOut = rd, carryIn
		} else {
			result, carryOut = evalRegisterShift(ShiftROR, rd, amt, carryIn)
		}
		logical = true
	case 0x8: // TST
		result, logical, writesRd = rd&rs, true, false
	case 0x9: // NEG
		result, carryOut, overflow = subWithBorrowChained(0, rs, true)
	case 0xA: // CMP
		result, carryOut, overflow, writesRd = subResult(rd, rs)
	case 0xB: // CMN
		result, carryOut, overflow = addWithCarryChained(rd, rs, false)
		writesRd = false
	case 0xC: // ORR
		result, logical = rd|rs, true
	case 0xD: // MUL
		result, logical = rd*rs, true
	case 0xE: // BIC
		result, logical = rd&^rs, true
	case 0xF: // MVN
		result, logical = ^rs, true
	}

	if writesRd {
		reg.Set(t.Rd, result)
	}
	if logical {
		reg.SetFlag(FlagN, arbits.Bit(result, 31) == 1)
		reg.SetFlag(FlagZ, result == 0)
		isShift := t.Op == 0x2 || t.Op == 0x3 || t.Op == 0x4 || t.Op == 0x7
		if isShift {
			reg.SetFlag(FlagC, carryOut)
		}
	} else {
		setArithFlags(reg, result, carryOut, overflow)
	}
}

func subResult(a, b uint32) (result uint32, carryOut bool, overflow bool, writesRd bool) {
	result, carryOut, overflow = subWithBorrowChained(a, b, true)
	return result, carryOut, overflow, false
}

func (t thumbAluInstr) Disassemble(instr uint16) string {
	names := [16]string{"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
		"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN"}
	return fmt.Sprintf("%s R%d, R%d", names[t.Op], t.Rd, t.Rs)
}

// --- Format 5: hi register operations / branch exchange ---

type thumbHiRegInstr struct {
	Op     uint32 // 0=ADD 1=CMP 2=MOV 3=BX
	Rs, Rd uint32
}

func decodeThumbHiReg(instr uint16) ThumbInstruction {
	h1 := arbits.Bits16(instr, 7, 7)
	h2 := arbits.Bits16(instr, 6, 6)
	rs := uint32(arbits.Bits16(instr, 3, 5)) | uint32(h2)<<3
	rd := uint32(arbits.Bits16(instr, 0, 2)) | uint32(h1)<<3
	return thumbHiRegInstr{
		Op: uint32(arbits.Bits16(instr, 8, 9)),
		Rs: rs,
		Rd: rd,
	}
}

func (t thumbHiRegInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	rs := reg.Get(t.Rs)
	switch t.Op {
	case 0: // ADD, flags unaffected
		reg.Set(t.Rd, reg.Get(t.Rd)+rs)
	case 1: // CMP, sets flags
		result, carryOut, overflow := subWithBorrowChained(reg.Get(t.Rd), rs, true)
		setArithFlags(reg, result, carryOut, overflow)
	case 2: // MOV, flags unaffected
		reg.Set(t.Rd, rs)
	case 3: // BX
		reg.SetThumb(rs&1 == 1)
		reg.SetPCExact(rs &^ 1)
	}
}

func (t thumbHiRegInstr) Disassemble(instr uint16) string {
	names := [4]string{"ADD", "CMP", "MOV", "BX"}
	if t.Op == 3 {
		return fmt.Sprintf("BX R%d", t.Rs)
	}
	return fmt.Sprintf("%s R%d, R%d", names[t.Op], t.Rd, t.Rs)
}

// --- Format 6: PC-relative load ---

type thumbPcRelLoadInstr struct {
	Rd   uint32
	Word uint32
}

func decodeThumbPcRelLoad(instr uint16) ThumbInstruction {
	return thumbPcRelLoadInstr{
		Rd:   uint32(arbits.Bits16(instr, 8, 10)),
		Word: uint32(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbPcRelLoadInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	base := reg.Get(15) &^ 3
	addr := base + t.Word*4
	reg.Set(t.Rd, c.bus.Read32(addr))
}

func (t thumbPcRelLoadInstr) Disassemble(instr uint16) string {
	return fmt.Sprintf("LDR R%d, [PC, #%d]", t.Rd, t.Word*4)
}

// --- Format 7: load/store with register offset ---

type thumbRegOffsetInstr struct {
	Load, Byte  bool
	Ro, Rb, Rd  uint32
}

func decodeThumbRegOffset(instr uint16) ThumbInstruction {
	return thumbRegOffsetInstr{
		Load: arbits.Bit16(instr, 11) == 1,
		Byte: arbits.Bit16(instr, 10) == 1,
		Ro:   uint32(arbits.Bits16(instr, 6, 8)),
		Rb:   uint32(arbits.Bits16(instr, 3, 5)),
		Rd:   uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbRegOffsetInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(t.Rb) + reg.Get(t.Ro)
	if t.Load {
		if t.Byte {
			reg.Set(t.Rd, uint32(c.bus.Read8(addr)))
		} else {
			reg.Set(t.Rd, rotateMisaligned(c.bus.Read32(addr&^3), addr))
		}
		return
	}
	if t.Byte {
		c.bus.Write8(addr, uint8(reg.Get(t.Rd)))
	} else {
		c.bus.Write32(addr&^3, reg.Get(t.Rd))
	}
}

func (t thumbRegOffsetInstr) Disassemble(instr uint16) string {
	name := "STR"
	if t.Load {
		name = "LDR"
	}
	if t.Byte {
		name += "B"
	}
	return fmt.Sprintf("%s R%d, [R%d, R%d]", name, t.Rd, t.Rb, t.Ro)
}

// --- Format 8: load/store sign-extended byte/halfword ---

type thumbSignExtendedInstr struct {
	H, S       bool
	Ro, Rb, Rd uint32
}

func decodeThumbSignExtended(instr uint16) ThumbInstruction {
	return thumbSignExtendedInstr{
		H:  arbits.Bit16(instr, 11) == 1,
		S:  arbits.Bit16(instr, 10) == 1,
		Ro: uint32(arbits.Bits16(instr, 6, 8)),
		Rb: uint32(arbits.Bits16(instr, 3, 5)),
		Rd: uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbSignExtendedInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(t.Rb) + reg.Get(t.Ro)
	switch {
	case !t.H && !t.S: // STRH
		c.bus.Write16(addr&^1, uint16(reg.Get(t.Rd)))
	case !t.H && t.S: // LDSB
		reg.Set(t.Rd, uint32(int32(int8(c.bus.Read8(addr)))))
	case t.H && !t.S: // LDRH
		reg.Set(t.Rd, uint32(c.bus.Read16(addr&^1)))
	default: // LDSH
		reg.Set(t.Rd, uint32(int32(int16(c.bus.Read16(addr&^1)))))
	}
}

func (t thumbSignExtendedInstr) Disassemble(instr uint16) string {
	names := map[[2]bool]string{
		{false, false}: "STRH", {false, true}: "LDSB",
		{true, false}: "LDRH", {true, true}: "LDSH",
	}
	return fmt.Sprintf("%s R%d, [R%d, R%d]", names[[2]bool{t.H, t.S}], t.Rd, t.Rb, t.Ro)
}

// --- Format 9: load/store with immediate offset ---

type thumbImmOffsetInstr struct {
	Byte, Load bool
	Offset     uint32
	Rb, Rd     uint32
}

func decodeThumbImmOffset(instr uint16) ThumbInstruction {
	byteForm := arbits.Bit16(instr, 12) == 1
	offset5 := uint32(arbits.Bits16(instr, 6, 10))
	if !byteForm {
		offset5 *= 4
	}
	return thumbImmOffsetInstr{
		Byte:   byteForm,
		Load:   arbits.Bit16(instr, 11) == 1,
		Offset: offset5,
		Rb:     uint32(arbits.Bits16(instr, 3, 5)),
		Rd:     uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbImmOffsetInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(t.Rb) + t.Offset
	if t.Load {
		if t.Byte {
			reg.Set(t.Rd, uint32(c.bus.Read8(addr)))
		} else {
			reg.Set(t.Rd, rotateMisaligned(c.bus.Read32(addr&^3), addr))
		}
		return
	}
	if t.Byte {
		c.bus.Write8(addr, uint8(reg.Get(t.Rd)))
	} else {
		c.bus.Write32(addr&^3, reg.Get(t.Rd))
	}
}

func (t thumbImmOffsetInstr) Disassemble(instr uint16) string {
	name := "STR"
	if t.Load {
		name = "LDR"
	}
	if t.Byte {
		name += "B"
	}
	return fmt.Sprintf("%s R%d, [R%d, #%d]", name, t.Rd, t.Rb, t.Offset)
}

// --- Format 10: load/store halfword ---

type thumbHalfwordInstr struct {
	Load   bool
	Offset uint32
	Rb, Rd uint32
}

func decodeThumbHalfword(instr uint16) ThumbInstruction {
	return thumbHalfwordInstr{
		Load:   arbits.Bit16(instr, 11) == 1,
		Offset: uint32(arbits.Bits16(instr, 6, 10)) * 2,
		Rb:     uint32(arbits.Bits16(instr, 3, 5)),
		Rd:     uint32(arbits.Bits16(instr, 0, 2)),
	}
}

func (t thumbHalfwordInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(t.Rb) + t.Offset
	if t.Load {
		reg.Set(t.Rd, uint32(c.bus.Read16(addr&^1)))
		return
	}
	c.bus.Write16(addr&^1, uint16(reg.Get(t.Rd)))
}

func (t thumbHalfwordInstr) Disassemble(instr uint16) string {
	name := "STRH"
	if t.Load {
		name = "LDRH"
	}
	return fmt.Sprintf("%s R%d, [R%d, #%d]", name, t.Rd, t.Rb, t.Offset)
}

// --- Format 11: SP-relative load/store ---

type thumbSpRelInstr struct {
	Load bool
	Rd   uint32
	Word uint32
}

func decodeThumbSpRel(instr uint16) ThumbInstruction {
	return thumbSpRelInstr{
		Load: arbits.Bit16(instr, 11) == 1,
		Rd:   uint32(arbits.Bits16(instr, 8, 10)),
		Word: uint32(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbSpRelInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(13) + t.Word*4
	if t.Load {
		reg.Set(t.Rd, rotateMisaligned(c.bus.Read32(addr&^3), addr))
		return
	}
	c.bus.Write32(addr&^3, reg.Get(t.Rd))
}

func (t thumbSpRelInstr) Disassemble(instr uint16) string {
	name := "STR"
	if t.Load {
		name = "LDR"
	}
	return fmt.Sprintf("%s R%d, [SP, #%d]", name, t.Rd, t.Word*4)
}

// --- Format 12: load address ---

type thumbLoadAddressInstr struct {
	FromSp bool
	Rd     uint32
	Word   uint32
}

func decodeThumbLoadAddress(instr uint16) ThumbInstruction {
	return thumbLoadAddressInstr{
		FromSp: arbits.Bit16(instr, 11) == 1,
		Rd:     uint32(arbits.Bits16(instr, 8, 10)),
		Word:   uint32(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbLoadAddressInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	var base uint32
	if t.FromSp {
		base = reg.Get(13)
	} else {
		base = reg.Get(15) &^ 3
	}
	reg.Set(t.Rd, base+t.Word*4)
}

func (t thumbLoadAddressInstr) Disassemble(instr uint16) string {
	src := "PC"
	if t.FromSp {
		src = "SP"
	}
	return fmt.Sprintf("ADD R%d, %s, #%d", t.Rd, src, t.Word*4)
}

// --- Format 13: add offset to SP ---

type thumbAdjustSpInstr struct {
	Negative bool
	Word     uint32
}

func decodeThumbAdjustSp(instr uint16) ThumbInstruction {
	return thumbAdjustSpInstr{
		Negative: arbits.Bit16(instr, 7) == 1,
		Word:     uint32(arbits.Bits16(instr, 0, 6)) * 4,
	}
}

func (t thumbAdjustSpInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	if t.Negative {
		reg.Set(13, reg.Get(13)-t.Word)
	} else {
		reg.Set(13, reg.Get(13)+t.Word)
	}
}

func (t thumbAdjustSpInstr) Disassemble(instr uint16) string {
	sign := "+"
	if t.Negative {
		sign = "-"
	}
	return fmt.Sprintf("ADD SP, #%s%d", sign, t.Word)
}

// --- Format 14: push/pop registers ---

type thumbPushPopInstr struct {
	Load    bool // POP vs PUSH
	PcLr    bool // include PC (POP) or LR (PUSH)
	RegList uint8
}

func decodeThumbPushPop(instr uint16) ThumbInstruction {
	return thumbPushPopInstr{
		Load:    arbits.Bit16(instr, 11) == 1,
		PcLr:    arbits.Bit16(instr, 8) == 1,
		RegList: uint8(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbPushPopInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	n := bits.OnesCount8(t.RegList)
	if t.PcLr {
		n++
	}

	if t.Load { // POP: load ascending from SP, then SP += 4*n
		addr := reg.Get(13)
		for r := uint32(0); r < 8; r++ {
			if t.RegList&(1<<r) == 0 {
				continue
			}
			reg.Set(r, c.bus.Read32(addr))
			addr += 4
		}
		if t.PcLr {
			reg.SetPCExact(c.bus.Read32(addr) &^ 1)
			addr += 4
		}
		reg.Set(13, addr)
		return
	}

	// PUSH: SP -= 4*n first, then store ascending (lowest register at
	// lowest address), LR stored last if present.
	addr := reg.Get(13) - 4*uint32(n)
	reg.Set(13, addr)
	for r := uint32(0); r < 8; r++ {
		if t.RegList&(1<<r) == 0 {
			continue
		}
		c.bus.Write32(addr, reg.Get(r))
		addr += 4
	}
	if t.PcLr {
		c.bus.Write32(addr, reg.Get(14))
	}
}

func (t thumbPushPopInstr) Disassemble(instr uint16) string {
	name := "PUSH"
	if t.Load {
		name = "POP"
	}
	return fmt.Sprintf("%s {%08b%s}", name, t.RegList, extraRegLabel(t))
}

func extraRegLabel(t thumbPushPopInstr) string {
	if !t.PcLr {
		return ""
	}
	if t.Load {
		return ",PC"
	}
	return ",LR"
}

// --- Format 15: multiple load/store ---

type thumbMultipleTransferInstr struct {
	Load    bool
	Rb      uint32
	RegList uint8
}

func decodeThumbMultipleTransfer(instr uint16) ThumbInstruction {
	return thumbMultipleTransferInstr{
		Load:    arbits.Bit16(instr, 11) == 1,
		Rb:      uint32(arbits.Bits16(instr, 8, 10)),
		RegList: uint8(arbits.Bits16(instr, 0, 7)),
	}
}

func (t thumbMultipleTransferInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	addr := reg.Get(t.Rb)
	for r := uint32(0); r < 8; r++ {
		if t.RegList&(1<<r) == 0 {
			continue
		}
		if t.Load {
			reg.Set(r, c.bus.Read32(addr))
		} else {
			c.bus.Write32(addr, reg.Get(r))
		}
		addr += 4
	}
	reg.Set(t.Rb, addr)
}

func (t thumbMultipleTransferInstr) Disassemble(instr uint16) string {
	name := "STMIA"
	if t.Load {
		name = "LDMIA"
	}
	return fmt.Sprintf("%s R%d!, {%08b}", name, t.Rb, t.RegList)
}

// --- Format 16: conditional branch ---

type thumbCondBranchInstr struct {
	Cond   Condition
	Offset int32
}

func decodeThumbCondBranch(instr uint16) ThumbInstruction {
	raw := uint32(arbits.Bits16(instr, 0, 7))
	return thumbCondBranchInstr{
		Cond:   Condition(arbits.Bits16(instr, 8, 11)),
		Offset: int32(signExtend(raw, 8)) * 2,
	}
}

func (t thumbCondBranchInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	if !evalCondition(reg, t.Cond) {
		return
	}
	reg.SetPC(uint32(int64(reg.Get(15)) + int64(t.Offset)))
}

func (t thumbCondBranchInstr) Disassemble(instr uint16) string {
	return fmt.Sprintf("B%s #%d", t.Cond.Mnemonic(), t.Offset)
}

// --- Format 17: software interrupt ---

type thumbSwiInstr struct {
	Comment uint32
}

func decodeThumbSwi(instr uint16) ThumbInstruction {
	return thumbSwiInstr{Comment: uint32(arbits.Bits16(instr, 0, 7))}
}

func (t thumbSwiInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	returnAddr := reg.CurrentPC() + reg.InstrSize()
	reg.SetMode(ModeSupervisor)
	reg.Set(14, returnAddr)
	reg.SetIRQDisabled(true)
	reg.SetThumb(false)
	reg.SetPCExact(swiVector)
}

func (t thumbSwiInstr) Disassemble(instr uint16) string {
	return fmt.Sprintf("SWI #%02X", t.Comment)
}

// --- Format 18: unconditional branch ---

type thumbBranchInstr struct {
	Offset int32
}

func decodeThumbBranch(instr uint16) ThumbInstruction {
	raw := uint32(arbits.Bits16(instr, 0, 10))
	return thumbBranchInstr{Offset: int32(signExtend(raw, 11)) * 2}
}

func (t thumbBranchInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	reg.SetPC(uint32(int64(reg.Get(15)) + int64(t.Offset)))
}

func (t thumbBranchInstr) Disassemble(instr uint16) string {
	return fmt.Sprintf("B #%d", t.Offset)
}

// --- Format 19: long branch with link ---

type thumbLongBranchLinkInstr struct {
	High   bool
	Offset uint32
}

func decodeThumbLongBranchLink(instr uint16) ThumbInstruction {
	return thumbLongBranchLinkInstr{
		High:   arbits.Bit16(instr, 11) == 1,
		Offset: uint32(arbits.Bits16(instr, 0, 10)),
	}
}

func (t thumbLongBranchLinkInstr) Execute(c *CPU, instr uint16) {
	reg := c.registers
	if !t.High {
		reg.Set(14, reg.Get(15)+(signExtend(t.Offset, 11)<<12))
		return
	}
	next := reg.CurrentPC() + 2
	target := reg.Get(14) + t.Offset<<1
	reg.Set(14, next|1)
	reg.SetPC(target)
}

func (t thumbLongBranchLinkInstr) Disassemble(instr uint16) string {
	if !t.High {
		return fmt.Sprintf("BL #%d (high)", t.Offset)
	}
	return fmt.Sprintf("BL #%d (low)", t.Offset)
}
