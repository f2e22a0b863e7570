package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

func encodeBranch(link bool, offset int32) uint32 {
	word := uint32(0xA << 24)
	if link {
		word |= 1 << 24
	}
	word |= uint32(offset>>2) & 0x00FFFFFF
	word |= uint32(cpu.CondAL) << 28
	return word
}

func encodeBX(rm uint32) uint32 {
	word := uint32(0x12) << 20
	word |= 0xFFF << 8
	word |= 0x1 << 4
	word |= rm
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("branch", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0x1000)
	})

	It("adds the sign-extended, pre-shifted offset to PC(+8)", func() {
		instr := encodeBranch(false, 0x20)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().CurrentPC()).To(Equal(uint32(0x1000 + 8 + 0x20)))
	})

	It("sets LR to the instruction after the branch when linked", func() {
		instr := encodeBranch(true, 0x20)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(14)).To(Equal(uint32(0x1000 + 4)))
	})

	It("negative offsets branch backward", func() {
		instr := encodeBranch(false, -0x100)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().CurrentPC()).To(Equal(uint32(0x1000 + 8 - 0x100)))
	})

	It("BX switches to Thumb state when Rm bit 0 is set", func() {
		c.Registers().Set(0, 0x2001)
		instr := encodeBX(0)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().IsThumb()).To(BeTrue())
		Expect(c.Registers().CurrentPC()).To(Equal(uint32(0x2000)))
	})
})
