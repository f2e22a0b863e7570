package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

func encodeMrs(spsr bool, rd uint32) uint32 {
	word := uint32(0x1) << 24
	if spsr {
		word |= 1 << 22
	}
	word |= 0xF << 16 // SBO
	word |= rd << 12
	word |= uint32(cpu.CondAL) << 28
	return word
}

func encodeMsrReg(spsr bool, fieldMask uint32, rm uint32) uint32 {
	word := uint32(0x1) << 24
	if spsr {
		word |= 1 << 22
	}
	word |= 1 << 21
	word |= fieldMask << 16
	word |= 0xF << 12 // SBO
	word |= rm
	word |= uint32(cpu.CondAL) << 28
	return word
}

func encodeMsrImm(spsr bool, fieldMask uint32, imm8, rotate uint32) uint32 {
	word := uint32(0x1) << 24
	word |= 1 << 25 // immediate form
	if spsr {
		word |= 1 << 22
	}
	word |= 1 << 21
	word |= fieldMask << 16
	word |= 0xF << 12
	word |= rotate << 8
	word |= imm8
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("PSR transfer", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0)
	})

	It("MRS reads CPSR into Rd", func() {
		c.Registers().SetFlag(cpu.FlagN, true)
		cpsr := c.Registers().CPSR()
		instr := encodeMrs(false, 3)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(3)).To(Equal(cpsr))
	})

	It("MSR with field mask 0b1000 writes only the flags lane", func() {
		c.Registers().Set(5, 0xF0000000) // N Z C V all set
		instr := encodeMsrReg(false, 0b1000, 5)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Flag(cpu.FlagN)).To(BeTrue())
		Expect(c.Registers().Flag(cpu.FlagV)).To(BeTrue())
		Expect(c.Registers().Mode()).To(Equal(cpu.ModeSupervisor), "control lane untouched")
	})

	It("restricts non-flags lanes to the flags-only write in User mode", func() {
		c.Registers().SetMode(cpu.ModeUser)
		before := c.Registers().CPSR()
		instr := encodeMsrReg(false, 0b0001, 5) // control lane requested
		c.Registers().Set(5, 0x00000000)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().CPSR()).To(Equal(before), "User mode cannot touch the control lane")
	})

	It("MSR immediate form rotates the 8-bit immediate", func() {
		instr := encodeMsrImm(false, 0b1000, 0x10, 4) // 0x10 ROR 8 == 0x10000000
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Flag(cpu.FlagV)).To(BeTrue())
	})
})
