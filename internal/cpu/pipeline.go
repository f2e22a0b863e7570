package cpu

// CPU couples the register file to a bus and drives the two-stage
// prefetch pipeline: a decode slot (about to execute) and a fetch slot
// (already prefetched, one instruction further ahead).
type CPU struct {
	registers *Registers
	bus       Bus

	pipeline [2]uint32 // [0]=decode slot (pc), [1]=fetch slot (pc+step)
	primed   bool
	cycles   uint64
}

// NewCPU wires a CPU to its bus. Callers must call Reset before Step.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		registers: NewRegisters(),
		bus:       bus,
	}
}

func (c *CPU) Registers() *Registers { return c.registers }
func (c *CPU) Bus() Bus              { return c.bus }
func (c *CPU) Cycles() uint64        { return c.cycles }

// Reset puts the CPU in its post-reset state (Supervisor mode, IRQ/FIQ
// disabled, ARM state) with PC at entry and the pipeline freshly
// refilled from there.
func (c *CPU) Reset(entry uint32) {
	c.registers = NewRegisters()
	c.registers.SeedPC(entry)
	c.fillPipeline(entry)
	c.cycles = 0
}

func (c *CPU) fetchWord(addr uint32) uint32 {
	if c.registers.IsThumb() {
		return uint32(c.bus.Read16(addr))
	}
	return c.bus.Read32(addr)
}

func (c *CPU) fillPipeline(target uint32) {
	step := c.registers.InstrSize()
	c.pipeline[0] = c.fetchWord(target)
	c.pipeline[1] = c.fetchWord(target + step)
	c.registers.SeedPC(target)
	c.registers.ClearFlushPending()
	c.primed = true
}

// Step executes one instruction: the word sitting in the decode slot.
// If that instruction writes R15, the pipeline is flushed and refilled
// from the new target before Step returns; otherwise the pipeline
// shifts forward by one instruction in the usual way.
func (c *CPU) Step() {
	if !c.primed {
		c.fillPipeline(c.registers.CurrentPC())
	}

	word := c.pipeline[0]
	if c.registers.IsThumb() {
		c.executeThumb(uint16(word))
	} else {
		c.executeArm(word)
	}
	c.cycles++

	if c.registers.FlushPending() {
		c.fillPipeline(c.registers.CurrentPC())
		return
	}

	step := c.registers.InstrSize()
	nextDecodeAddr := c.registers.CurrentPC() + step
	c.pipeline[0] = c.pipeline[1]
	c.pipeline[1] = c.fetchWord(nextDecodeAddr + step)
	c.registers.SeedPC(nextDecodeAddr)
}

func (c *CPU) executeArm(word uint32) {
	DecodeArm(word).Execute(c, word)
}

func (c *CPU) executeThumb(word uint16) {
	DecodeThumb(word).Execute(c, word)
}
