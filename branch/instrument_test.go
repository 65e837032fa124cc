package branch

import (
	"testing"

	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/host/lang"
)

func TestInstrumentIfElse(t *testing.T) {
	fn, err := lang.Parse(`func f(a) {
		if a < 0 {
			return 0
		} else {
			return 1
		}
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, body := Instrument(fn.Body)
	fn.Body = body
	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2: %#v", len(res.Edges), res.Edges)
	}
	for pseudo, edge := range res.Edges {
		if pseudo >= 0 {
			t.Fatalf("pseudo-line %d is not negative", pseudo)
		}
		if edge.Src != 2 {
			t.Fatalf("edge %v has wrong src", edge)
		}
	}

	cu, err := lang.Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vm := host.NewVM()
	if _, err := vm.Run(cu, []host.Value{-5}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := vm.Globals[lang.BranchGlobalName]; !ok {
		t.Fatalf("branch marker never fired")
	}
}

func TestInstrumentIfNoElse(t *testing.T) {
	fn, err := lang.Parse(`func f(a) {
		if a < 0 {
			a = 0
		}
		return a
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, body := Instrument(fn.Body)
	fn.Body = body
	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(res.Edges))
	}
	var sawFallthrough bool
	for _, edge := range res.Edges {
		if edge.Dst == 5 { // the `return a` line
			sawFallthrough = true
		}
	}
	if !sawFallthrough {
		t.Fatalf("expected one edge to target the fallthrough line, got %#v", res.Edges)
	}
}

// TestInstrumentWhileLoop constructs the flagship while-loop program
// (`while n>0 { x+=n; n-=1 }`) and asserts it yields the (3,4) body-taken
// and (3,6) loop-exit edges.
func TestInstrumentWhileLoop(t *testing.T) {
	fn, err := lang.Parse(`func f(n) {
		x = 0
		while n > 0 {
			x += n
			n -= 1 }
		return x
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, body := Instrument(fn.Body)
	fn.Body = body

	var sawBodyTaken, sawLoopExit bool
	for _, edge := range res.Edges {
		if edge.Src != 3 {
			continue
		}
		switch edge.Dst {
		case 4:
			sawBodyTaken = true
		case 6:
			sawLoopExit = true
		}
	}
	if !sawBodyTaken {
		t.Fatalf("expected a (3,4) body-taken edge, got %#v", res.Edges)
	}
	if !sawLoopExit {
		t.Fatalf("expected a (3,6) loop-exit edge, got %#v", res.Edges)
	}

	cu, err := lang.Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vm := host.NewVM()
	if _, err := vm.Run(cu, []host.Value{3}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := vm.Globals[lang.BranchGlobalName]; !ok {
		t.Fatalf("branch marker never fired")
	}
}

// TestInstrumentBreakExit constructs a loop with a break and asserts the
// break gets its own edge to the loop's exit target, distinct from the
// loop's own normal-exit edge.
func TestInstrumentBreakExit(t *testing.T) {
	fn, err := lang.Parse(`func f(n) {
		while n > 0 {
			if n == 5 {
				break
			}
			n -= 1
		}
		return n
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, body := Instrument(fn.Body)
	fn.Body = body

	var sawBreakExit bool
	for _, edge := range res.Edges {
		if edge.Src == 4 && edge.Dst == 8 {
			sawBreakExit = true
		}
	}
	if !sawBreakExit {
		t.Fatalf("expected a break-exit edge (4,8) to the loop's fallthrough line, got %#v", res.Edges)
	}

	if _, err := lang.Compile(fn, "test.src"); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

// TestInstrumentShortCircuitAnd asserts `a && b` desugars into a marked
// if/else so the short-circuit's jump is covered as a branch.
func TestInstrumentShortCircuitAnd(t *testing.T) {
	fn, err := lang.Parse(`func f(a, b) {
		if a > 0 && b > 0 {
			return 1
		}
		return 0
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, body := Instrument(fn.Body)
	fn.Body = body
	if len(res.Edges) < 4 {
		t.Fatalf("expected at least 4 edges (outer if + desugared &&), got %d: %#v", len(res.Edges), res.Edges)
	}

	cu, err := lang.Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vm := host.NewVM()
	if _, err := vm.Run(cu, []host.Value{1, 1}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := vm.Globals[lang.BranchGlobalName]; !ok {
		t.Fatalf("branch marker never fired")
	}
}
