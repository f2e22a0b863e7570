package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

// encodeSwap builds a SWP/SWPB word: cond=AL, 0001_0B00, Rn, Rd, 1001, Rm.
func encodeSwap(byt bool, rn, rd, rm uint32) uint32 {
	word := uint32(0x1 << 24)
	if byt {
		word |= 1 << 22
	}
	word |= rn << 16
	word |= rd << 12
	word |= 0x9 << 4
	word |= rm
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("SWP/SWPB", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0)
	})

	It("exchanges a word between Rm and memory", func() {
		mmu.Write32(0x400, 0x11111111)
		c.Registers().Set(1, 0x400)
		c.Registers().Set(2, 0x22222222)
		instr := encodeSwap(false, 1, 0, 2)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(0)).To(Equal(uint32(0x11111111)))
		Expect(mmu.Read32(0x400)).To(Equal(uint32(0x22222222)))
	})

	It("exchanges a single byte for SWPB", func() {
		mmu.Write8(0x500, 0xAB)
		c.Registers().Set(1, 0x500)
		c.Registers().Set(2, 0xFF)
		instr := encodeSwap(true, 1, 0, 2)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(0)).To(Equal(uint32(0xAB)))
		Expect(mmu.Read8(0x500)).To(Equal(uint8(0xFF)))
	})
})
