// Package host defines the reference bytecode format and virtual machine
// that the instrumentation engine (editor, branch, driver, replacer) targets.
//
// It stands in for "the host" of spec.md: a dynamic bytecode interpreter.
// Real interpreters expose an instruction set baked into their own runtime;
// this one is deliberately small, but follows the same two-byte
// opcode/operand shape (with an EXTENDED_ARG-style escape for wide operands)
// that CPython uses, since that shape is exactly what the engine's offset
// arithmetic has to deal with.
package host

// Opcode identifies one instruction.
type Opcode byte

const (
	OpNop Opcode = iota

	// stack / locals
	OpLoadConst  // push consts[arg]
	OpLoadLocal  // push locals[arg]
	OpStoreLocal // pop into locals[arg]
	OpLoadGlobal // push globals[consts[arg].(string)]
	OpStoreGlobal
	OpPop
	OpDup

	// arithmetic / comparison
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpCmpEQ
	OpCmpNE
	OpNeg
	OpNot

	// control flow
	OpJump             // absolute; arg is the target byte offset
	OpJumpIfFalse      // pop cond, jump (absolute) if falsy; arg is a byte offset
	OpJumpIfFalseOrPop // peek cond; if falsy, jump absolute (cond stays); else pop
	OpJumpIfTrueOrPop  // peek cond; if truthy, jump absolute (cond stays); else pop
	OpJumpForward      // relative forward jump; arg = bytes to skip after this instruction.
	// Never emitted by the compiler: this is the opcode a probe's
	// immediate-removal path patches the insert's leading NOP into
	// (spec.md 4.A), so it must be encodable as a single-byte operand
	// patch over an existing NOP at a known insert length.

	// calls, composite values, control transfer
	OpCall      // arg = argc; callee below the args
	OpMakeTuple // arg = n; pop n values, push a Tuple
	OpReturn
	OpYield // suspend the current frame, returning top-of-stack to the resumer
	OpRaise // pop a value, raise it as a runtime error

	// EXTENDED_ARG is not a "real" instruction: it never appears in a decoded
	// instruction list (editor.Decode folds it into the following
	// instruction's operand), but it is part of the wire format re-emitted
	// by editor.encode.
	OpExtendedArg Opcode = 0xFF
)

var opcodeNames = map[Opcode]string{
	OpNop:              "NOP",
	OpLoadConst:        "LOAD_CONST",
	OpLoadLocal:        "LOAD_LOCAL",
	OpStoreLocal:       "STORE_LOCAL",
	OpLoadGlobal:       "LOAD_GLOBAL",
	OpStoreGlobal:      "STORE_GLOBAL",
	OpPop:              "POP",
	OpDup:              "DUP",
	OpAdd:              "ADD",
	OpSub:              "SUB",
	OpMul:              "MUL",
	OpDiv:              "DIV",
	OpCmpLT:            "CMP_LT",
	OpCmpLE:            "CMP_LE",
	OpCmpGT:            "CMP_GT",
	OpCmpGE:            "CMP_GE",
	OpCmpEQ:            "CMP_EQ",
	OpCmpNE:            "CMP_NE",
	OpNeg:              "NEG",
	OpNot:              "NOT",
	OpJump:             "JUMP",
	OpJumpIfFalse:      "JUMP_IF_FALSE",
	OpJumpIfFalseOrPop: "JUMP_IF_FALSE_OR_POP",
	OpJumpIfTrueOrPop:  "JUMP_IF_TRUE_OR_POP",
	OpJumpForward:      "JUMP_FORWARD",
	OpCall:             "CALL",
	OpMakeTuple:        "MAKE_TUPLE",
	OpReturn:           "RETURN",
	OpYield:            "YIELD",
	OpRaise:            "RAISE",
	OpExtendedArg:      "EXTENDED_ARG",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsJump reports whether op carries a target operand that the editor must
// track and rewrite when instructions are inserted or moved.
func IsJump(op Opcode) bool {
	switch op {
	case OpJump, OpJumpIfFalse, OpJumpIfFalseOrPop, OpJumpIfTrueOrPop, OpJumpForward:
		return true
	default:
		return false
	}
}

// IsRelativeJump reports whether op's operand is a forward byte count
// relative to the instruction following it, as opposed to an absolute
// target offset. Mirrors CPython's dis.hasjrel/hasjabs split.
func IsRelativeJump(op Opcode) bool {
	return op == OpJumpForward
}

// InstrWidth is the fixed width, in bytes, of one non-prefixed instruction:
// one opcode byte followed by one operand byte. Operands wider than a
// single byte are preceded by one or more OpExtendedArg instructions of the
// same width, exactly as CPython's wordcode does.
const InstrWidth = 2

// MaxExtendedArgs bounds how many EXTENDED_ARG prefixes the encoder will
// ever emit for one operand (3 prefixes + the final byte covers a 32-bit
// operand, which is far beyond any realistic constant-pool index).
const MaxExtendedArgs = 3

// ExtendedArgsNeeded returns how many EXTENDED_ARG prefixes are required to
// represent arg given the single trailing operand byte.
func ExtendedArgsNeeded(arg uint32) int {
	n := 0
	for v := arg >> 8; v != 0; v >>= 8 {
		n++
	}
	return n
}
