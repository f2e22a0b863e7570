package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

// encodeBlockTransfer builds an LDM/STM word: cond=AL, 100P_USWL, Rn,
// then a 16-bit register list.
func encodeBlockTransfer(pre, up, s, wb, load bool, rn uint32, regList uint16) uint32 {
	word := uint32(0x8 << 24) // 100 class bits at 27:25
	if pre {
		word |= 1 << 24
	}
	if up {
		word |= 1 << 23
	}
	if s {
		word |= 1 << 22
	}
	if wb {
		word |= 1 << 21
	}
	if load {
		word |= 1 << 20
	}
	word |= rn << 16
	word |= uint32(regList)
	word |= uint32(cpu.CondAL) << 28
	return word
}

var _ = Describe("block data transfer", func() {
	var c *cpu.CPU
	var mmu *fakeBus

	BeforeEach(func() {
		mmu = &fakeBus{}
		c = cpu.NewCPU(mmu)
		c.Reset(0)
	})

	It("stores the lowest-numbered register at the lowest address in IA mode", func() {
		c.Registers().Set(1, 0x1000)
		c.Registers().Set(2, 0xAAAA)
		c.Registers().Set(3, 0xBBBB)
		instr := encodeBlockTransfer(false, true, false, true, false, 1, (1<<2)|(1<<3))
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(mmu.Read32(0x1000)).To(Equal(uint32(0xAAAA)))
		Expect(mmu.Read32(0x1004)).To(Equal(uint32(0xBBBB)))
		Expect(c.Registers().Get(1)).To(Equal(uint32(0x1008)))
	})

	It("still stores the lowest-numbered register at the lowest address in DB mode", func() {
		c.Registers().Set(1, 0x1010)
		c.Registers().Set(2, 0xAAAA)
		c.Registers().Set(3, 0xBBBB)
		instr := encodeBlockTransfer(true, false, false, true, false, 1, (1<<2)|(1<<3))
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(mmu.Read32(0x1008)).To(Equal(uint32(0xAAAA)))
		Expect(mmu.Read32(0x100C)).To(Equal(uint32(0xBBBB)))
		Expect(c.Registers().Get(1)).To(Equal(uint32(0x1008)))
	})

	It("restores CPSR from SPSR when loading R15 with S set", func() {
		c.Registers().SetMode(cpu.ModeSupervisor)
		savedCPSR := c.Registers().CPSR()
		c.Registers().SetMode(cpu.ModeIRQ)
		c.Registers().SetSPSR(savedCPSR)
		c.Registers().Set(1, 0x2000)
		mmu.Write32(0x2000, 0x1234)
		instr := encodeBlockTransfer(false, true, true, false, true, 1, 1<<15)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(c.Registers().CPSR()).To(Equal(savedCPSR))
	})

	It("forces user-bank access when S is set and R15 isn't loaded", func() {
		c.Registers().SetMode(cpu.ModeFIQ)
		c.Registers().Set(8, 0xF00D)
		c.Registers().Set(1, 0x3000)
		instr := encodeBlockTransfer(false, true, true, false, false, 1, 1<<8)
		cpu.DecodeArm(instr).Execute(c, instr)
		Expect(mmu.Read32(0x3000)).NotTo(Equal(uint32(0xF00D)), "must store the user bank, not the FIQ bank")
	})
})
