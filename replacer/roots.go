package replacer

import "github.com/xhd2015/covprobe/host"

// ModuleRoot is a named top-level CodeUnit slot, the Go analogue of
// spec.md 4.F item 1 ("loaded module namespaces"): the driver's own
// registry of compiled units by filename.
type ModuleRoot struct {
	Filename string
	Slot     *host.CodeUnit
	set      func(*host.CodeUnit)
}

// NewModuleRoot builds a root over a single named slot. set is called
// with the replacement whenever Replace fires; the caller is expected to
// close over wherever it stores the module's live CodeUnit (e.g. a map
// entry in the driver's registry).
func NewModuleRoot(filename string, cu *host.CodeUnit, set func(*host.CodeUnit)) *ModuleRoot {
	return &ModuleRoot{Filename: filename, Slot: cu, set: set}
}

func (r *ModuleRoot) Identity() interface{}   { return "module:" + r.Filename }
func (r *ModuleRoot) Current() *host.CodeUnit { return r.Slot }
func (r *ModuleRoot) Replace(cu *host.CodeUnit) {
	r.Slot = cu
	r.set(cu)
}
func (r *ModuleRoot) Children() []Root { return innerRoots(r.Slot) }

// innerRoot is spec.md 4.F item 4: "the constant pool of every other
// CodeUnit" — here represented by the parent's Inner slice, the host's
// stand-in for nested CodeUnits reachable from a containing unit.
type innerRoot struct {
	parent *host.CodeUnit
	index  int
}

func innerRoots(cu *host.CodeUnit) []Root {
	if cu == nil {
		return nil
	}
	var out []Root
	for i := range cu.Inner {
		out = append(out, &innerRoot{parent: cu, index: i})
	}
	return out
}

func (r *innerRoot) Identity() interface{}   { return r.parent.Inner[r.index] }
func (r *innerRoot) Current() *host.CodeUnit { return r.parent.Inner[r.index] }
func (r *innerRoot) Replace(cu *host.CodeUnit) {
	r.parent.Inner[r.index] = cu
}
func (r *innerRoot) Children() []Root { return innerRoots(r.parent.Inner[r.index]) }

// GeneratorRoot is spec.md 4.F item 5: a suspended generator frame. Its
// code pointer may be replaced; the frame's saved program counter is
// preserved verbatim by host.Generator.SetCode, which is safe only
// because de-instrument never changes any byte's offset (P2).
type GeneratorRoot struct {
	Gen *host.Generator
}

func (r *GeneratorRoot) Identity() interface{}     { return r.Gen }
func (r *GeneratorRoot) Current() *host.CodeUnit   { return r.Gen.Code() }
func (r *GeneratorRoot) Replace(cu *host.CodeUnit) { r.Gen.SetCode(cu) }
func (r *GeneratorRoot) Children() []Root          { return innerRoots(r.Gen.Code()) }
