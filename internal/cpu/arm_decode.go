package cpu

import "gbacpu/internal/bits"

// ArmInstruction is a decoded ARM-state instruction: it knows how to run
// itself against a CPU and how to render itself as text. Decoding never
// touches CPU state; only Execute does.
type ArmInstruction interface {
	Execute(c *CPU, instr uint32)
	Disassemble(instr uint32) string
}

type armClass int

const (
	classDataProcessing armClass = iota
	classPsrTransfer
	classMultiply
	classMultiplyLong
	classSingleDataSwap
	classBranchAndExchange
	classHalfwordTransReg
	classHalfwordTransImm
	classSingleDataTrans
	classUndefined
	classBlockDataTrans
	classBranch
	classCoprocDataTrans
	classCoprocDataOp
	classCoprocRegTrans
	classSoftwareInterrupt
)

type classFormat struct {
	class   armClass
	highFmt uint32
	highMsk uint32
	lowFmt  uint32
	lowMsk  uint32
}

// armClassOrder is the fixed priority list the decoder tries each
// instruction word against: high bits are [27:20], low bits are [7:4].
// First match wins. The order is architecturally significant -- several
// classes' masks overlap, and the general DataProcessing entry must
// never shadow a more specific one tried earlier.
var armClassOrder = []classFormat{
	{classBranchAndExchange, 0b0001_0010, 0b1111_1111, 0b0001, 0b1111},
	{classBlockDataTrans, 0b1000_0000, 0b1110_0000, 0b0000, 0b0000},
	{classBranch, 0b1010_0000, 0b1110_0000, 0b0000, 0b0000},
	{classSoftwareInterrupt, 0b1111_0000, 0b1111_0000, 0b0000, 0b0000},
	{classUndefined, 0b0110_0000, 0b1110_0000, 0b0001, 0b0001},
	{classSingleDataTrans, 0b0100_0000, 0b1100_0000, 0b0000, 0b0000},
	{classSingleDataSwap, 0b0001_0000, 0b1111_1011, 0b1001, 0b1111},
	{classMultiply, 0b0000_0000, 0b1111_1100, 0b1001, 0b1111},
	{classMultiplyLong, 0b0000_1000, 0b1111_1000, 0b1001, 0b1111},
	{classHalfwordTransReg, 0b0000_0000, 0b1110_0100, 0b1001, 0b1001},
	{classHalfwordTransImm, 0b0000_0100, 0b1110_0100, 0b1001, 0b1001},
	{classCoprocDataTrans, 0b1100_0000, 0b1110_0000, 0b0000, 0b0000},
	{classCoprocDataOp, 0b1110_0000, 0b1111_0000, 0b0000, 0b0001},
	{classCoprocRegTrans, 0b1110_0000, 0b1111_0000, 0b0001, 0b0001},
	// PsrTransfer is matched by a bespoke predicate, not this table, but
	// tried at this point in the list: just ahead of the DataProcessing
	// catch-all, after every other class.
	{classDataProcessing, 0b0000_0000, 0b1100_0000, 0b0000, 0b0000},
}

// isPsrTransfer recognizes the data-processing-shaped encoding that is
// actually MRS/MSR: bits 26-27 clear, a TST/TEQ/CMP/CMN-range opcode,
// and S=0. Those four opcodes are comparisons that always set flags
// (S=1); S=0 in that range does nothing useful as data processing, so
// the architecture repurposes it for PSR transfer.
func isPsrTransfer(instr uint32) bool {
	opcode := bits.Bits(instr, 21, 24)
	s := bits.Bit(instr, 20)
	return bits.Bits(instr, 26, 27) == 0 && opcode >= 0b1000 && opcode <= 0b1011 && s == 0
}

// DecodeArm classifies a 32-bit ARM instruction word and builds the
// decoded instruction value that knows how to execute and disassemble
// itself.
func DecodeArm(instr uint32) ArmInstruction {
	high := bits.Bits(instr, 20, 27)
	low := bits.Bits(instr, 4, 7)

	for _, f := range armClassOrder {
		if f.class == classDataProcessing && isPsrTransfer(instr) {
			return decodePsrTransfer(instr)
		}
		if high&f.highMsk == f.highFmt && low&f.lowMsk == f.lowFmt {
			return buildArmInstruction(f.class, instr)
		}
	}
	return unimplementedArm{}
}

func buildArmInstruction(class armClass, instr uint32) ArmInstruction {
	switch class {
	case classDataProcessing:
		return decodeDataProcessing(instr)
	case classMultiply:
		return decodeMultiply(instr)
	case classMultiplyLong:
		return decodeMultiplyLong(instr)
	case classSingleDataSwap:
		return decodeSwap(instr)
	case classBranchAndExchange:
		return decodeBranchExchange(instr)
	case classHalfwordTransReg, classHalfwordTransImm:
		return decodeHalfwordTransfer(instr, class == classHalfwordTransImm)
	case classSingleDataTrans:
		return decodeSingleDataTransfer(instr)
	case classBlockDataTrans:
		return decodeBlockDataTransfer(instr)
	case classBranch:
		return decodeBranch(instr)
	case classSoftwareInterrupt:
		return decodeSwi(instr)
	case classUndefined:
		return undefinedArm{}
	case classCoprocDataTrans, classCoprocDataOp, classCoprocRegTrans:
		return coprocessorStub{class: class}
	default:
		return unimplementedArm{}
	}
}

func condOf(instr uint32) Condition {
	return Condition(bits.Bits(instr, 28, 31))
}
