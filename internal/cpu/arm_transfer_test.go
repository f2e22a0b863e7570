package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

// encodeLdrStr builds a single data transfer word with an immediate
// offset: cond=AL, I=0 (immediate), Rn(16-19) Rd(12-15) offset(0-11).
func encodeLdrStr(pre, up, byt, wb, load bool, rn, rd, offset uint32) uint32 {
	word := uint32(1 << 26) // 01 class bits at 27:26
	if pre {
		word |= 1 << 24
	}
	if up {
		word |= 1 << 23
	}
	if byt {
		word |= 1 << 22
	}
	if wb {
		word |= 1 << 21
	}
	if load {
		word |= 1 << 20
	}
	word |= rn << 16
	word |= rd << 12
	word |= offset & 0xFFF
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("single data transfer", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0)
	})

	It("stores then loads a word pre-indexed", func() {
		c.Registers().Set(1, 0x100)
		c.Registers().Set(2, 0xCAFEBABE)
		str := encodeLdrStr(true, true, false, false, false, 1, 2, 4)
		cpu.DecodeArm(str).Execute(c, str)
		Expect(mmu.Read32(0x104)).To(Equal(uint32(0xCAFEBABE)))

		ldr := encodeLdrStr(true, true, false, false, true, 1, 3, 4)
		cpu.DecodeArm(ldr).Execute(c, ldr)
		Expect(c.Registers().Get(3)).To(Equal(uint32(0xCAFEBABE)))
	})

	It("writes back the base post-indexed even without the WB bit", func() {
		c.Registers().Set(1, 0x200)
		c.Registers().Set(2, 0x11)
		str := encodeLdrStr(false, true, true, false, false, 1, 2, 8)
		cpu.DecodeArm(str).Execute(c, str)
		Expect(c.Registers().Get(1)).To(Equal(uint32(0x208)))
		Expect(mmu.Read8(0x200)).To(Equal(uint8(0x11)))
	})

	It("rotates a misaligned word load per the LDR quirk", func() {
		mmu.Write32(0x300, 0xAABBCCDD)
		c.Registers().Set(1, 0x301)
		ldr := encodeLdrStr(true, true, false, false, true, 1, 2, 0)
		cpu.DecodeArm(ldr).Execute(c, ldr)
		Expect(c.Registers().Get(2)).To(Equal(uint32(0xDDAABBCC)))
	})
})
