package lang

import (
	"testing"

	"github.com/xhd2015/covprobe/host"
)

func run(t *testing.T, src string, args ...host.Value) host.Value {
	t.Helper()
	fn, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cu, err := Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vm := host.NewVM()
	v, err := vm.Run(cu, args)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}

func TestCompileArithmetic(t *testing.T) {
	v := run(t, `func add(a, b) {
		return a + b * 2
	}`, 3, 4)
	if v.(int) != 11 {
		t.Fatalf("got %v, want 11", v)
	}
}

func TestCompileIfElse(t *testing.T) {
	src := `func sign(n) {
		if n < 0 {
			return 0 - 1
		} else if n == 0 {
			return 0
		} else {
			return 1
		}
	}`
	if v := run(t, src, -5); v.(int) != -1 {
		t.Fatalf("sign(-5) = %v", v)
	}
	if v := run(t, src, 0); v.(int) != 0 {
		t.Fatalf("sign(0) = %v", v)
	}
	if v := run(t, src, 5); v.(int) != 1 {
		t.Fatalf("sign(5) = %v", v)
	}
}

func TestCompileWhileBreak(t *testing.T) {
	src := `func sumTo(n) {
		total = 0
		i = 0
		while i < n {
			i = i + 1
			if i == 5 {
				break
			}
			total = total + i
		}
		return total
	}`
	// i goes 1..4 inclusive contributing to total before breaking at i==5.
	v := run(t, src, 100)
	if v.(int) != 10 {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestCompileShortCircuit(t *testing.T) {
	src := `func both(a, b) {
		return a && b
	}`
	if v := run(t, src, true, false); v.(bool) != false {
		t.Fatalf("got %v", v)
	}
	if v := run(t, src, true, true); v.(bool) != true {
		t.Fatalf("got %v", v)
	}
}

func TestCompileSyntheticBranchAssign(t *testing.T) {
	fn, err := Parse(`func f(a) {
		if a < 0 {
			return 0
		}
		return 1
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Simulate what branch.Instrument would splice in: a synthetic marker
	// at the top of the then-block.
	ifStmt := fn.Body[0].(*IfStmt)
	marker := &AssignStmt{Value: &PairExpr{A: 2, B: 3}, Synthetic: true}
	ifStmt.Then = append([]Stmt{marker}, ifStmt.Then...)

	cu, err := Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vm := host.NewVM()
	if _, err := vm.Run(cu, []host.Value{-1}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, ok := vm.Globals[BranchGlobalName].(host.Tuple)
	if !ok {
		t.Fatalf("branch global not set, got %#v", vm.Globals[BranchGlobalName])
	}
	if got.Elems[0].(int) != 2 || got.Elems[1].(int) != 3 {
		t.Fatalf("got %v, want (2,3)", got)
	}
}
