package cpu

import "fmt"

// coprocessorStub covers the three coprocessor classes (data transfer,
// data operation, register transfer). The GBA wires no coprocessor to
// its ARM7TDMI, so these trap as undefined rather than doing real work.
type coprocessorStub struct {
	class armClass
}

func (c coprocessorStub) Execute(cpu *CPU, instr uint32) {
	undefinedArm{}.Execute(cpu, instr)
}

func (c coprocessorStub) Disassemble(instr uint32) string {
	return fmt.Sprintf("<coprocessor %08X>", instr)
}

// undefinedArm is the architecturally-undefined instruction trap: it
// enters Undefined mode and vectors to the fixed exception address,
// mirroring swiInstr's entry sequence.
type undefinedArm struct{}

const undefinedVector = 0x00000004

func (undefinedArm) Execute(c *CPU, instr uint32) {
	reg := c.registers
	returnAddr := reg.CurrentPC() + reg.InstrSize()
	reg.SetMode(ModeUndefined)
	reg.Set(14, returnAddr)
	reg.SetIRQDisabled(true)
	reg.SetThumb(false)
	reg.SetPCExact(undefinedVector)
}

func (undefinedArm) Disassemble(instr uint32) string {
	return fmt.Sprintf("<undefined %08X>", instr)
}

// unimplementedArm is the decoder's catch-all for any word that fails
// to match every entry in armClassOrder. armClassOrder is total over
// all 32-bit encodings, so this is unreachable for any actual ARMv4T
// word; if it is ever hit, that means the decode table itself has a
// gap, which must fail loudly rather than silently skip an instruction.
type unimplementedArm struct{}

func (unimplementedArm) Execute(c *CPU, instr uint32) {
	panic(fmt.Sprintf("cpu: no ARM decoder class matched %08X", instr))
}

func (unimplementedArm) Disassemble(instr uint32) string {
	return fmt.Sprintf("<unimplemented %08X>", instr)
}
