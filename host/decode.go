package host

// DecodeOne decodes the single instruction starting at pc, folding any
// leading OpExtendedArg prefixes into its operand. It returns the opcode,
// the fully-assembled operand, and the byte offset of the following
// instruction. ok is false if pc does not land on an instruction boundary
// with enough bytes remaining.
//
// This is shared by the VM's interpreter loop and by editor.Decode, so the
// two never disagree about how prefixes are unpacked (grounded on
// CPython's dis._unpack_opargs, which both slipcover and this package's
// editor follow).
func DecodeOne(code []byte, pc int) (op Opcode, arg uint32, next int, ok bool) {
	var ext uint32
	for {
		if pc < 0 || pc+InstrWidth > len(code) {
			return 0, 0, pc, false
		}
		b0 := Opcode(code[pc])
		b1 := uint32(code[pc+1])
		if b0 == OpExtendedArg {
			ext = (ext | b1) << 8
			pc += InstrWidth
			continue
		}
		return b0, ext | b1, pc + InstrWidth, true
	}
}
