package cpu

// Bus is the CPU's only view of memory: the address space itself, the
// PPU, cartridge and I/O registers are all external collaborators that
// live behind this interface and are out of scope for this package.
type Bus interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, v uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, v uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, v uint32)
}
