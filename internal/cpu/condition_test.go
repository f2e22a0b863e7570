package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gbacpu/internal/cpu"
)

var _ = Describe("Condition", func() {
	type flags struct{ n, z, c, v bool }

	allFlags := []flags{
		{false, false, false, false},
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
		{true, true, true, true},
		{true, false, true, false},
		{false, true, false, true},
	}

	expect := func(cond cpu.Condition, f flags) bool {
		switch cond {
		case cpu.CondEQ:
			return f.z
		case cpu.CondNE:
			return !f.z
		case cpu.CondCS:
			return f.c
		case cpu.CondCC:
			return !f.c
		case cpu.CondMI:
			return f.n
		case cpu.CondPL:
			return !f.n
		case cpu.CondVS:
			return f.v
		case cpu.CondVC:
			return !f.v
		case cpu.CondHI:
			return f.c && !f.z
		case cpu.CondLS:
			return !f.c || f.z
		case cpu.CondGE:
			return f.n == f.v
		case cpu.CondLT:
			return f.n != f.v
		case cpu.CondGT:
			return !f.z && f.n == f.v
		case cpu.CondLE:
			return f.z || f.n != f.v
		case cpu.CondAL:
			return true
		case cpu.CondNV:
			return false
		}
		return false
	}

	conds := []cpu.Condition{
		cpu.CondEQ, cpu.CondNE, cpu.CondCS, cpu.CondCC, cpu.CondMI, cpu.CondPL,
		cpu.CondVS, cpu.CondVC, cpu.CondHI, cpu.CondLS, cpu.CondGE, cpu.CondLT,
		cpu.CondGT, cpu.CondLE, cpu.CondAL, cpu.CondNV,
	}

	It("matches the architectural truth table across every flag combination", func() {
		for _, cond := range conds {
			for _, f := range allFlags {
				got := cond.Eval(f.n, f.z, f.c, f.v)
				Expect(got).To(Equal(expect(cond, f)),
					"cond=%v flags=%+v", cond, f)
			}
		}
	})

	It("treats NV as never-executing, not a 17th real condition", func() {
		Expect(cpu.CondNV.Eval(true, true, true, true)).To(BeFalse())
	})

	It("treats AL as always-executing regardless of flags", func() {
		Expect(cpu.CondAL.Eval(false, false, false, false)).To(BeTrue())
	})
})
