package cpu

// DisassembleArm renders a 32-bit ARM-state instruction word as a
// free-form, human-readable mnemonic string.
func DisassembleArm(instr uint32) string {
	return DecodeArm(instr).Disassemble(instr)
}

// DisassembleThumb renders a 16-bit Thumb-state instruction word as a
// free-form, human-readable mnemonic string.
func DisassembleThumb(instr uint16) string {
	return DecodeThumb(instr).Disassemble(instr)
}
