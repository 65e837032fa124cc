package replacer

import (
	"context"
	"testing"

	"github.com/xhd2015/covprobe/host"
)

func TestReplaceSwapsDormantModule(t *testing.T) {
	vm := host.NewVM()
	old := &host.CodeUnit{Name: "f", NumLocals: 0}
	replacement := &host.CodeUnit{Name: "f-deinstrumented", NumLocals: 0}

	var slot *host.CodeUnit = old
	root := NewModuleRoot("f.src", old, func(cu *host.CodeUnit) { slot = cu })

	errs := Replace(context.Background(), vm, []Root{root}, map[*host.CodeUnit]*host.CodeUnit{old: replacement})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if slot != replacement {
		t.Fatalf("slot not swapped")
	}
}

func TestReplaceWalksInnerCodeUnits(t *testing.T) {
	vm := host.NewVM()
	oldInner := &host.CodeUnit{Name: "inner"}
	newInner := &host.CodeUnit{Name: "inner-new"}
	parent := &host.CodeUnit{Name: "outer", Inner: []*host.CodeUnit{oldInner}}

	root := NewModuleRoot("m.src", parent, func(cu *host.CodeUnit) {})
	errs := Replace(context.Background(), vm, []Root{root}, map[*host.CodeUnit]*host.CodeUnit{oldInner: newInner})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if parent.Inner[0] != newInner {
		t.Fatalf("inner code unit not swapped")
	}
}

func TestReplaceSwapsGeneratorFrame(t *testing.T) {
	vm := host.NewVM()
	old := &host.CodeUnit{Name: "gen", Code: []byte{byte(host.OpYield), 0}}
	replacement := &host.CodeUnit{Name: "gen-new", Code: []byte{byte(host.OpYield), 0}}

	gen := vm.NewGenerator(old, nil)
	root := &GeneratorRoot{Gen: gen}

	errs := Replace(context.Background(), vm, []Root{root}, map[*host.CodeUnit]*host.CodeUnit{old: replacement})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if gen.Code() != replacement {
		t.Fatalf("generator code not swapped")
	}
}
