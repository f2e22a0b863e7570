package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

// fakeBus is a flat 64KB RAM-backed cpu.Bus for pipeline tests.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read8(addr uint32) uint8  { return b.mem[addr&0xFFFF] }
func (b *fakeBus) Write8(addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }
func (b *fakeBus) Read16(addr uint32) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}
func (b *fakeBus) Write16(addr uint32, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}
func (b *fakeBus) Read32(addr uint32) uint32 {
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}
func (b *fakeBus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}

func (b *fakeBus) putArm(addr uint32, word uint32) {
	b.Write32(addr, word)
}

var _ = Describe("CPU pipeline", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
	})

	It("advances PC by 4 per ARM step when nothing flushes", func() {
		mmu.putArm(0x0000, 0xE1A00000) // MOV R0, R0 (NOP)
		mmu.putArm(0x0004, 0xE1A00000)
		mmu.putArm(0x0008, 0xE1A00000)
		c.Reset(0x0000)

		Expect(c.CurrentPC()).To(Equal(uint32(0x0000)))
		c.Tick()
		Expect(c.CurrentPC()).To(Equal(uint32(0x0004)))
		c.Tick()
		Expect(c.CurrentPC()).To(Equal(uint32(0x0008)))
	})

	It("flushes and refetches both pipeline slots on a taken branch", func() {
		mmu.putArm(0x0000, 0xEA000002) // B #0x10 (skip two words, branch to 0x10)
		mmu.putArm(0x0010, 0xE1A00000) // MOV R0, R0
		mmu.putArm(0x0014, 0xE1A00000)
		c.Reset(0x0000)

		c.Tick() // executes the branch
		Expect(c.CurrentPC()).To(Equal(uint32(0x0010)))
		c.Tick()
		Expect(c.CurrentPC()).To(Equal(uint32(0x0014)))
	})

	It("counts one cycle per Tick", func() {
		mmu.putArm(0x0000, 0xE1A00000)
		c.Reset(0x0000)
		c.TickMultiple(5)
		Expect(c.Cycles()).To(Equal(uint64(5)))
	})
})
