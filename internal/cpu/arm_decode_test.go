package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

var _ = Describe("ARM decode priority", func() {
	It("recognizes BX ahead of the data-processing catch-all", func() {
		instr := encodeBX(1)
		decoded := cpu.DecodeArm(instr)
		Expect(decoded.Disassemble(instr)).To(HavePrefix("BX"))
	})

	It("recognizes the TST/CMP-shaped PSR transfer before plain data processing", func() {
		instr := encodeMrs(false, 0)
		decoded := cpu.DecodeArm(instr)
		Expect(decoded.Disassemble(instr)).To(HavePrefix("MRS"))
	})

	It("recognizes SWP ahead of the multiply class despite the shared low nibble", func() {
		instr := encodeSwap(false, 1, 2, 3)
		decoded := cpu.DecodeArm(instr)
		Expect(decoded.Disassemble(instr)).To(HavePrefix("SWP"))
	})

	It("recognizes block data transfer ahead of branch", func() {
		instr := encodeBlockTransfer(false, true, false, true, true, 13, 0x00FF)
		decoded := cpu.DecodeArm(instr)
		Expect(decoded.Disassemble(instr)).To(HavePrefix("LDM"))
	})

	It("decodes the architecturally undefined space to the undefined-instruction trap", func() {
		// 011_1 with low bit4=1 is the architecturally undefined space.
		instr := uint32(cpu.CondAL)<<28 | 0b0111<<24 | 1<<4
		decoded := cpu.DecodeArm(instr)
		Expect(decoded).NotTo(BeNil())
	})
})
