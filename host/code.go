package host

import "fmt"

// Value is anything the VM's stack or constant pool can hold: numbers,
// strings, bools, Tuples (used for branch markers), and NativeFuncs (used
// for probe call sequences).
type Value interface{}

// Tuple is the value produced by OpMakeTuple; the branch pre-instrumenter
// materializes branch markers as 2-element Tuples of (src_line, dst_line).
type Tuple struct {
	Elems []Value
}

func (t Tuple) String() string {
	return fmt.Sprintf("%v", t.Elems)
}

// NativeFunc is a Go-implemented callable reachable from bytecode via
// OpLoadConst + OpCall, exactly how the editor wires in the probe signal
// function (spec.md 4.B step 3).
type NativeFunc func(vm *VM, args []Value) Value

// LineEntry maps a half-open byte-offset range [Start, End) to a source
// line number. Every byte of a CodeUnit's instruction stream belongs to
// exactly one LineEntry.
type LineEntry struct {
	Start int
	End   int
	Line  int
}

// ExceptionRegion is one entry of a code unit's exception-handler table:
// while the program counter is in [Start, End), a raised error transfers
// control to Handler instead of propagating out of the CodeUnit.
type ExceptionRegion struct {
	Start   int
	End     int
	Handler int
}

// CodeUnit is one compiled unit of the host: a function body, a module
// body, or (in richer hosts) a class/comprehension body. Identity is
// reference-based — two CodeUnits are "the same" iff they are the same
// pointer, never by deep equality, since the engine keys registries and
// replacement maps on identity (spec.md §3).
type CodeUnit struct {
	Name     string
	Filename string

	Code  []byte
	Lines []LineEntry

	Consts     []Value
	Exceptions []ExceptionRegion

	NumLocals int
	StackSize int

	// FreeVars names variables captured by nested CodeUnits (spec.md §3
	// "free/cell-variable descriptor"). The reference host records only
	// the names: vm.go has no closures or frame chain, so nothing reads
	// them at run time; the editor and Clone just carry them along.
	FreeVars []string

	// Inner holds CodeUnits nested inside this one. host/lang never
	// produces nested units; the replacer walks this slice as the host's
	// stand-in for the references a constant pool would hold to them.
	Inner []*CodeUnit
}

// LineAt returns the source line number of the instruction at byte offset
// off, or 0 if off falls outside every recorded range.
func (c *CodeUnit) LineAt(off int) int {
	for _, l := range c.Lines {
		if off >= l.Start && off < l.End {
			return l.Line
		}
	}
	return 0
}

// HandlerAt returns the handler offset covering byte offset off and true,
// or (0, false) if no exception region covers it.
func (c *CodeUnit) HandlerAt(off int) (int, bool) {
	for _, r := range c.Exceptions {
		if off >= r.Start && off < r.End {
			return r.Handler, true
		}
	}
	return 0, false
}

// Clone returns a shallow-structural copy of c with freshly allocated
// slices, so callers can mutate the copy (as the editor does) without
// aliasing the original's backing arrays. Nested CodeUnits are not deep
// copied — they keep their own identity unless the editor explicitly
// rebuilds them too.
func (c *CodeUnit) Clone() *CodeUnit {
	n := &CodeUnit{
		Name:      c.Name,
		Filename:  c.Filename,
		NumLocals: c.NumLocals,
		StackSize: c.StackSize,
	}
	n.Code = append([]byte(nil), c.Code...)
	n.Lines = append([]LineEntry(nil), c.Lines...)
	n.Consts = append([]Value(nil), c.Consts...)
	n.Exceptions = append([]ExceptionRegion(nil), c.Exceptions...)
	n.FreeVars = append([]string(nil), c.FreeVars...)
	n.Inner = append([]*CodeUnit(nil), c.Inner...)
	return n
}
