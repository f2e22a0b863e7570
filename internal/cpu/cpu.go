package cpu

// Tick executes a single pipeline step. It is the primary entry point
// external tooling (the host loop, a debugger) drives the CPU with.
func (c *CPU) Tick() {
	c.Step()
}

// TickMultiple runs n pipeline steps back to back.
func (c *CPU) TickMultiple(n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// ReadRegister exposes a register's architectural value (R15 returns the
// pipeline-ahead view) for debuggers and test harnesses.
func (c *CPU) ReadRegister(i uint32) uint32 {
	return c.registers.Get(i)
}

// ReadCPSR exposes the current program status register.
func (c *CPU) ReadCPSR() uint32 {
	return c.registers.CPSR()
}

// CurrentPC exposes the address of the instruction in the decode slot,
// with no pipeline-ahead adjustment -- the address a disassembler or
// breakpoint should compare against.
func (c *CPU) CurrentPC() uint32 {
	return c.registers.CurrentPC()
}
