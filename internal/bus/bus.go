// Package bus is the CPU's external memory collaborator: a flat,
// region-mapped address space covering BIOS, work RAM and a cartridge
// ROM image, with an IOHook seam a PPU/DMA/timer implementation could
// attach to without the CPU core changing. Those peripherals are out of
// scope here; addresses in their range fall through to a plain register
// array.
package bus

import "gbacpu/util/dbg"

const (
	biosStart  = 0x00000000
	biosEnd    = 0x00003FFF
	ewramStart = 0x02000000
	ewramEnd   = 0x0203FFFF
	ewramSize  = ewramEnd - ewramStart + 1
	iwramStart = 0x03000000
	iwramEnd   = 0x03007FFF
	iwramSize  = iwramEnd - iwramStart + 1
	ioStart    = 0x04000000
	ioEnd      = 0x040003FF
	ioSize     = ioEnd - ioStart + 1
	romStart   = 0x08000000
	romEnd     = 0x0DFFFFFF
	sramStart  = 0x0E000000
	sramEnd    = 0x0E00FFFF
	sramSize   = sramEnd - sramStart + 1

	openBusValue = 0xFF
)

// IOHook lets an external component (a PPU, a DMA controller, a timer)
// claim bytes in the I/O register range instead of the bus's own flat
// array. Read returns ok=false to decline, leaving the byte array as
// the fallback; Write returns handled=false for the same reason.
type IOHook interface {
	Read(addr uint32) (value uint8, ok bool)
	Write(addr uint32, value uint8) (handled bool)
}

// Bus implements cpu.Bus: byte/halfword/word access over the in-scope
// address regions (§6). Unmapped reads return an implementation-defined
// open-bus value rather than erroring, per the error-handling policy
// that a bus miss never propagates as a CPU-visible fault.
type Bus struct {
	bios  []byte
	ewram [ewramSize]byte
	iwram [iwramSize]byte
	rom   []byte
	sram  [sramSize]byte
	io    [ioSize]byte

	ioHooks []IOHook
}

// New builds a Bus over the given BIOS and ROM images, loaded by the
// host from files (the GBA BIOS is Nintendo-copyrighted and is never
// embedded in the binary).
func New(bios, rom []byte) *Bus {
	return &Bus{bios: bios, rom: rom}
}

// AttachIOHook registers a peripheral to intercept I/O-register access.
// Hooks are consulted in registration order; the first to claim an
// address wins.
func (b *Bus) AttachIOHook(h IOHook) {
	b.ioHooks = append(b.ioHooks, h)
}

func (b *Bus) Read8(addr uint32) uint8 {
	switch {
	case addr >= biosStart && addr <= biosEnd:
		if int(addr) < len(b.bios) {
			return b.bios[addr]
		}
		return openBusValue
	case addr >= ewramStart && addr <= 0x02FFFFFF:
		return b.ewram[(addr-ewramStart)%ewramSize]
	case addr >= iwramStart && addr <= 0x03FFFFFF:
		return b.iwram[(addr-iwramStart)%iwramSize]
	case addr >= ioStart && addr <= 0x04FFFFFF:
		off := (addr - ioStart) % ioSize
		for _, h := range b.ioHooks {
			if v, ok := h.Read(off); ok {
				return v
			}
		}
		return b.io[off]
	case addr >= romStart && addr <= romEnd:
		off := (addr - romStart) % 0x02000000
		if int(off) < len(b.rom) {
			return b.rom[off]
		}
		return openBusValue
	case addr >= sramStart && addr <= sramEnd:
		return b.sram[addr-sramStart]
	default:
		dbg.Printf("bus: read from unmapped address %08X\n", addr)
		return openBusValue
	}
}

func (b *Bus) Write8(addr uint32, v uint8) {
	switch {
	case addr >= biosStart && addr <= biosEnd:
		dbg.Printf("bus: write to read-only BIOS at %08X\n", addr)
	case addr >= ewramStart && addr <= 0x02FFFFFF:
		b.ewram[(addr-ewramStart)%ewramSize] = v
	case addr >= iwramStart && addr <= 0x03FFFFFF:
		b.iwram[(addr-iwramStart)%iwramSize] = v
	case addr >= ioStart && addr <= 0x04FFFFFF:
		off := (addr - ioStart) % ioSize
		for _, h := range b.ioHooks {
			if h.Write(off, v) {
				return
			}
		}
		b.io[off] = v
	case addr >= romStart && addr <= romEnd:
		dbg.Printf("bus: write to read-only ROM at %08X\n", addr)
	case addr >= sramStart && addr <= sramEnd:
		b.sram[addr-sramStart] = v
	default:
		dbg.Printf("bus: write to unmapped address %08X\n", addr)
	}
}

func (b *Bus) Read16(addr uint32) uint16 {
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | hi<<8
}

func (b *Bus) Write16(addr uint32, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}

func (b *Bus) Read32(addr uint32) uint32 {
	lo := uint32(b.Read16(addr))
	hi := uint32(b.Read16(addr + 2))
	return lo | hi<<16
}

func (b *Bus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}
