package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

// encodeMul builds a MUL/MLA word: cond=AL, bits27-21=0000000A,
// Rd(16-19) Rn(12-15, accumulate) Rs(8-11) 1001 Rm(0-3).
func encodeMul(accumulate, s bool, rd, rn, rs, rm uint32) uint32 {
	word := uint32(0xE << 28)
	if accumulate {
		word |= 1 << 21
	}
	if s {
		word |= 1 << 20
	}
	word |= rd << 16
	word |= rn << 12
	word |= rs << 8
	word |= 0x9 << 4
	word |= rm
	return word
}

// encodeMulLong builds a UMULL/UMLAL/SMULL/SMLAL word.
func encodeMulLong(signed, accumulate, s bool, rdHi, rdLo, rs, rm uint32) uint32 {
	word := uint32(0xE << 28)
	word |= 1 << 23
	if signed {
		word |= 1 << 22
	}
	if accumulate {
		word |= 1 << 21
	}
	if s {
		word |= 1 << 20
	}
	word |= rdHi << 16
	word |= rdLo << 12
	word |= rs << 8
	word |= 0x9 << 4
	word |= rm
	return word
}

var _ = Describe("multiply", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0)
	})

	It("computes MUL as Rm*Rs", func() {
		instr := encodeMul(false, false, 0, 0, 2, 1)
		c.Registers().Set(1, 6)
		c.Registers().Set(2, 7)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(0)).To(Equal(uint32(42)))
	})

	It("accumulates Rn into MLA", func() {
		instr := encodeMul(true, false, 0, 3, 2, 1)
		c.Registers().Set(1, 6)
		c.Registers().Set(2, 7)
		c.Registers().Set(3, 100)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(0)).To(Equal(uint32(142)))
	})

	It("splits UMULL across RdHi:RdLo", func() {
		instr := encodeMulLong(false, false, false, 1, 0, 3, 2)
		c.Registers().Set(2, 0xFFFFFFFF)
		c.Registers().Set(3, 2)
		cpu.DecodeArm(instr).Execute(c, instr)
		full := uint64(0xFFFFFFFF) * 2
		Expect(c.Registers().Get(0)).To(Equal(uint32(full)))
		Expect(c.Registers().Get(1)).To(Equal(uint32(full >> 32)))
	})

	It("sign-extends operands for SMULL", func() {
		instr := encodeMulLong(true, false, false, 1, 0, 3, 2)
		c.Registers().Set(2, 0xFFFFFFFF) // -1
		c.Registers().Set(3, 0xFFFFFFFF) // -1
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().Get(0)).To(Equal(uint32(1)))
		Expect(c.Registers().Get(1)).To(Equal(uint32(0)))
	})
})
