package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

func encodeSwi(comment uint32) uint32 {
	word := uint32(0xF) << 24
	word |= comment & 0x00FFFFFF
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("SWI", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0x1000)
	})

	It("enters Supervisor mode, saves LR, and vectors to 0x8", func() {
		instr := encodeSwi(0x05)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Mode()).To(Equal(cpu.ModeSupervisor))
		Expect(c.Registers().Get(14)).To(Equal(uint32(0x1000 + 4)))
		Expect(c.Registers().IRQDisabled()).To(BeTrue())
		Expect(c.Registers().IsThumb()).To(BeFalse())
		Expect(c.Registers().CurrentPC()).To(Equal(uint32(0x00000008)))
	})

	It("banks the outgoing CPSR into SPSR_svc", func() {
		c.Registers().SetFlag(cpu.FlagN, true)
		cpsrBefore := c.Registers().CPSR()
		instr := encodeSwi(0)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().SPSR()).To(Equal(cpsrBefore))
	})

	It("uses the Thumb instruction size for the return address from Thumb state", func() {
		c.Registers().SetThumb(true)
		c.Registers().SeedPC(0x2000)
		instr := encodeSwi(0)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(14)).To(Equal(uint32(0x2000 + 2)))
	})
})
