package cpu

import "fmt"

const swiVector = 0x00000008

// swiInstr is SWI (ARM §4.10): enters Supervisor mode, banking CPSR
// into SPSR_svc, disabling IRQ, and vectoring to a fixed address.
type swiInstr struct {
	Cond    Condition
	Comment uint32
}

func decodeSwi(instr uint32) ArmInstruction {
	return swiInstr{Cond: condOf(instr), Comment: instr & 0x00FFFFFF}
}

func (s swiInstr) Execute(c *CPU, instr uint32) {
	reg := c.registers
	if !evalCondition(reg, s.Cond) {
		return
	}
	returnAddr := reg.CurrentPC() + reg.InstrSize()
	reg.SetMode(ModeSupervisor) // banks outgoing CPSR into SPSR_svc
	reg.Set(14, returnAddr)
	reg.SetIRQDisabled(true)
	reg.SetThumb(false)
	reg.SetPCExact(swiVector)
}

func (s swiInstr) Disassemble(instr uint32) string {
	return fmt.Sprintf("SWI%s #%06X", s.Cond.Mnemonic(), s.Comment)
}
