package cpu

import "fmt"

// Registers is the banked ARM7TDMI register file: sixteen general
// registers (with FIQ banking R8-R12) plus CPSR and the five mode SPSRs.
//
// pc holds the architectural address of the instruction in the decode
// slot of the pipeline -- the instruction about to execute. Get(15)
// reports pc+8 (ARM) or pc+4 (Thumb), the pipeline-ahead view software
// sees when it reads R15. Writing R15 stores the target address
// directly into pc and requests a flush; the pipeline driver (see
// pipeline.go) performs the actual refetch of the two prefetch slots.
type Registers struct {
	r   [13]uint32 // R0-R12, shared across modes except where FIQ banks them
	fiq [5]uint32  // R8_fiq..R12_fiq

	sp   [numBanks]uint32
	lr   [numBanks]uint32
	spsr [numBanks]uint32

	pc   uint32
	cpsr uint32

	flushPending bool
}

// NewRegisters returns a register file in its reset state: mode SVC,
// IRQ and FIQ disabled, ARM state, all else zeroed. CPU.Reset also sets
// PC to the BIOS entry point.
func NewRegisters() *Registers {
	r := &Registers{}
	r.cpsr = uint32(ModeSupervisor) | (1 << cpsrI) | (1 << cpsrF)
	return r
}

func (r *Registers) Mode() Mode {
	return Mode(r.cpsr & cpsrMask)
}

// SetMode switches the active mode. A mode switch banks the outgoing
// CPSR into the new mode's SPSR slot when that mode owns one -- SWI
// entry and exception entry rely on this instead of a separate save
// step.
func (r *Registers) SetMode(m Mode) {
	if m.HasSPSR() {
		r.spsr[bankOf(m)] = r.cpsr
	}
	r.cpsr = (r.cpsr &^ cpsrMask) | uint32(m)
}

func (r *Registers) CPSR() uint32 { return r.cpsr }

// SetCPSR overwrites the whole register, including mode bits. Used by
// MSR and by SPSR-to-CPSR restoration on exception return.
func (r *Registers) SetCPSR(v uint32) { r.cpsr = v }

func (r *Registers) Flag(f Flag) bool {
	return (r.cpsr>>flagBit(f))&1 != 0
}

func (r *Registers) SetFlag(f Flag, v bool) {
	r.setCPSRBit(flagBit(f), v)
}

func (r *Registers) IsThumb() bool         { return (r.cpsr>>cpsrT)&1 != 0 }
func (r *Registers) SetThumb(v bool)       { r.setCPSRBit(cpsrT, v) }
func (r *Registers) IRQDisabled() bool     { return (r.cpsr>>cpsrI)&1 != 0 }
func (r *Registers) SetIRQDisabled(v bool) { r.setCPSRBit(cpsrI, v) }
func (r *Registers) FIQDisabled() bool     { return (r.cpsr>>cpsrF)&1 != 0 }
func (r *Registers) SetFIQDisabled(v bool) { r.setCPSRBit(cpsrF, v) }

func (r *Registers) setCPSRBit(bit uint, v bool) {
	if v {
		r.cpsr |= 1 << bit
	} else {
		r.cpsr &^= 1 << bit
	}
}

// HasSPSR reports whether the current mode owns an SPSR.
func (r *Registers) HasSPSR() bool { return r.Mode().HasSPSR() }

// SPSR returns the current mode's saved program status register, or 0
// for User/System which have none.
func (r *Registers) SPSR() uint32 {
	if !r.HasSPSR() {
		return 0
	}
	return r.spsr[bankOf(r.Mode())]
}

// SetSPSR writes the current mode's SPSR. A no-op in User/System.
func (r *Registers) SetSPSR(v uint32) {
	if !r.HasSPSR() {
		return
	}
	r.spsr[bankOf(r.Mode())] = v
}

// InstrSize is 4 in ARM state, 2 in Thumb state.
func (r *Registers) InstrSize() uint32 {
	if r.IsThumb() {
		return 2
	}
	return 4
}

// pcOffset is added to the decode-slot address to produce the
// architectural R15 read view: 8 in ARM state, 4 in Thumb, two
// instructions ahead of the one currently executing.
func (r *Registers) pcOffset() uint32 {
	return 2 * r.InstrSize()
}

// CurrentPC returns the address of the instruction currently executing
// (the decode-slot address), with no pipeline-ahead adjustment. Used by
// disassembly, debug dumps, and exception return addresses.
func (r *Registers) CurrentPC() uint32 { return r.pc }

// Get returns register reg as software would read it: banked per mode,
// with R15 reporting the pipeline-ahead PC view.
func (r *Registers) Get(reg uint32) uint32 {
	if reg == 15 {
		return r.pc + r.pcOffset()
	}
	return r.getBanked(reg)
}

func (r *Registers) getBanked(reg uint32) uint32 {
	mode := r.Mode()
	switch {
	case reg <= 7:
		return r.r[reg]
	case reg >= 8 && reg <= 12:
		if mode == ModeFIQ {
			return r.fiq[reg-8]
		}
		return r.r[reg]
	case reg == 13:
		return r.sp[bankOf(mode)]
	case reg == 14:
		return r.lr[bankOf(mode)]
	default:
		panic("cpu: register index out of range")
	}
}

// Set writes register reg through the mode-appropriate bank. Writing
// R15 masks the value for the current instruction-set state (word-align
// in ARM, halfword-align in Thumb) and schedules a pipeline flush; the
// pipeline driver performs the refetch on its next step.
func (r *Registers) Set(reg uint32, v uint32) {
	if reg == 15 {
		r.SetPC(v)
		return
	}
	r.setBanked(reg, v)
}

func (r *Registers) setBanked(reg uint32, v uint32) {
	mode := r.Mode()
	switch {
	case reg <= 7:
		r.r[reg] = v
	case reg >= 8 && reg <= 12:
		if mode == ModeFIQ {
			r.fiq[reg-8] = v
		} else {
			r.r[reg] = v
		}
	case reg == 13:
		r.sp[bankOf(mode)] = v
	case reg == 14:
		r.lr[bankOf(mode)] = v
	default:
		panic("cpu: register index out of range")
	}
}

// GetUser reads reg through the User-mode bank regardless of the
// current mode. LDM/STM use this when the S-bit forces user-bank access
// for registers other than R15 (ARM §4.8).
func (r *Registers) GetUser(reg uint32) uint32 {
	switch {
	case reg == 15:
		return r.Get(reg)
	case reg == 14:
		return r.lr[bankUSR]
	case reg == 13:
		return r.sp[bankUSR]
	default:
		return r.r[reg]
	}
}

// SetUser writes reg through the User-mode bank regardless of the
// current mode. See GetUser.
func (r *Registers) SetUser(reg uint32, v uint32) {
	switch {
	case reg == 15:
		r.Set(reg, v)
	case reg == 14:
		r.lr[bankUSR] = v
	case reg == 13:
		r.sp[bankUSR] = v
	default:
		r.r[reg] = v
	}
}

// SetPC stores a new target instruction address and requests a flush,
// masking for the current instruction-set state. Used by generic
// register writes that land on R15 (data processing, LDR, LDM).
func (r *Registers) SetPC(v uint32) {
	if r.IsThumb() {
		v &^= 1
	} else {
		v &^= 3
	}
	r.pc = v
	r.flushPending = true
}

// SetPCExact stores a new target instruction address and requests a
// flush without masking. Used by BX, which defines its own masking
// rule (Rm &^ 1) independent of the current instruction-set state.
func (r *Registers) SetPCExact(v uint32) {
	r.pc = v
	r.flushPending = true
}

// SeedPC sets the decode-slot address directly with no flush scheduled.
// Used only by Reset and by the pipeline driver after it has performed
// the refill a flush requested.
func (r *Registers) SeedPC(v uint32) { r.pc = v }

func (r *Registers) FlushPending() bool { return r.flushPending }
func (r *Registers) ClearFlushPending() { r.flushPending = false }

func (r *Registers) String() string {
	return fmt.Sprintf(
		"R0 =%08X  R1 =%08X  R2 =%08X  R3 =%08X\n"+
			"R4 =%08X  R5 =%08X  R6 =%08X  R7 =%08X\n"+
			"R8 =%08X  R9 =%08X  R10=%08X  R11=%08X\n"+
			"R12=%08X  SP =%08X  LR =%08X  PC =%08X\n"+
			"CPSR=%08X (%s %s N:%t Z:%t C:%t V:%t I:%t F:%t) SPSR=%08X",
		r.Get(0), r.Get(1), r.Get(2), r.Get(3),
		r.Get(4), r.Get(5), r.Get(6), r.Get(7),
		r.Get(8), r.Get(9), r.Get(10), r.Get(11),
		r.Get(12), r.Get(13), r.Get(14), r.Get(15),
		r.cpsr, r.Mode(), thumbLabel(r.IsThumb()),
		r.Flag(FlagN), r.Flag(FlagZ), r.Flag(FlagC), r.Flag(FlagV),
		r.IRQDisabled(), r.FIQDisabled(),
		r.SPSR(),
	)
}

func thumbLabel(thumb bool) string {
	if thumb {
		return "THUMB"
	}
	return "ARM"
}
