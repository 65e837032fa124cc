package editor

import (
	"testing"

	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/host/lang"
	"github.com/xhd2015/covprobe/probe"
)

type fakeRecorder struct {
	recorded []probe.Key
}

func (f *fakeRecorder) RecordKey(filename string, key probe.Key) {
	f.recorded = append(f.recorded, key)
}
func (f *fakeRecorder) RequestDeinstrument() {}

func compileSrc(t *testing.T, src string) *host.CodeUnit {
	t.Helper()
	fn, err := lang.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cu, err := lang.Compile(fn, "test.src")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cu
}

func allLineSites(cu *host.CodeUnit) map[int]probe.Key {
	out := map[int]probe.Key{}
	for _, l := range cu.Lines {
		out[l.Line] = probe.Key{Line: l.Line}
	}
	return out
}

// TestInstrumentSemanticPreservation is P1: instrumented code must produce
// the same result as uninstrumented code.
func TestInstrumentSemanticPreservation(t *testing.T) {
	src := `func sumTo(n) {
		total = 0
		i = 0
		while i < n {
			total = total + i
			i = i + 1
		}
		return total
	}`
	cu := compileSrc(t, src)
	rec := &fakeRecorder{}
	instrumented, sites, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	if len(sites) != len(cu.Lines) {
		t.Fatalf("got %d sites, want %d", len(sites), len(cu.Lines))
	}

	want := runProgram(t, cu, 10)
	got := runProgram(t, instrumented, 10)
	if want != got {
		t.Fatalf("instrumented result %v != original %v", got, want)
	}
}

func runProgram(t *testing.T, cu *host.CodeUnit, n int) host.Value {
	t.Helper()
	vm := host.NewVM()
	v, err := vm.Run(cu, []host.Value{n})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}

// TestInstrumentFixedInsertLength is P2.
func TestInstrumentFixedInsertLength(t *testing.T) {
	cu := compileSrc(t, `func f(a) {
		if a < 0 {
			return 0
		}
		return 1
	}`)
	rec := &fakeRecorder{}
	instrumented, sites, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	if len(sites) == 0 {
		t.Fatalf("no sites created")
	}
	for _, s := range sites {
		if instrumented.Code[s.Offset] != byte(host.OpNop) {
			t.Fatalf("site at offset %d does not start with NOP", s.Offset)
		}
	}
}

// TestInstrumentLineTableFaithful is P4: every original line still maps
// every probe-recorded key back to itself after running.
func TestInstrumentLineTableFaithful(t *testing.T) {
	cu := compileSrc(t, `func f(a) {
		if a < 0 {
			return 0
		}
		return 1
	}`)
	rec := &fakeRecorder{}
	instrumented, _, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	runProgram(t, instrumented, -5)
	var lines []int
	for _, k := range rec.recorded {
		lines = append(lines, k.Line)
	}
	wantHas := map[int]bool{2: false, 3: false}
	for _, l := range lines {
		if _, ok := wantHas[l]; ok {
			wantHas[l] = true
		}
	}
	for l, seen := range wantHas {
		if !seen {
			t.Fatalf("line %d never recorded, got %v", l, lines)
		}
	}
}

// TestInstrumentLoopGrowsJump exercises the fixpoint growth path: enough
// lines before the loop, once every line is instrumented, push the backward
// jump's target (12 lines * 22 bytes = offset 264) past a one-byte operand,
// so it needs a wider encoding than the 2 bytes the compiler originally
// emitted.
func TestInstrumentLoopGrowsJump(t *testing.T) {
	cu := compileSrc(t, `func f(n) {
		total = 0
		i = 0
		a = 0
		b = 0
		c = 0
		d = 0
		e = 0
		g = 0
		h = 0
		j = 0
		k = 0
		m = 0
		while i < n {
			total = total + i
			total = total + i
			total = total + i
			total = total + i
			i = i + 1
		}
		return total
	}`)
	rec := &fakeRecorder{}
	instrumented, _, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	// Semantic preservation must hold even though the backward jump grew.
	want := runProgram(t, cu, 5)
	got := runProgram(t, instrumented, 5)
	if want != got {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestDeinstrumentIdempotent is P5.
func TestDeinstrumentIdempotent(t *testing.T) {
	cu := compileSrc(t, `func f(a) {
		return a
	}`)
	rec := &fakeRecorder{}
	instrumented, sites, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	remove := map[probe.Key]bool{}
	for _, s := range sites {
		remove[s.Key] = true
	}
	once := Deinstrument(instrumented, sites, remove)
	twice := Deinstrument(once, sites, remove)
	if len(once.Code) != len(twice.Code) {
		t.Fatalf("length changed on second deinstrument")
	}
	for i := range once.Code {
		if once.Code[i] != twice.Code[i] {
			t.Fatalf("byte %d differs after idempotent deinstrument", i)
		}
	}

	// Running the de-instrumented code must still produce the right value
	// and never call the recorder again.
	rec.recorded = nil
	got := runProgram(t, once, 7)
	if got.(int) != 7 {
		t.Fatalf("got %v, want 7", got)
	}
	if len(rec.recorded) != 0 {
		t.Fatalf("deinstrumented probe still recorded: %v", rec.recorded)
	}
}

// TestDeinstrumentPreservesLength checks the no-bytes-added contract.
func TestDeinstrumentPreservesLength(t *testing.T) {
	cu := compileSrc(t, `func f(a) {
		return a
	}`)
	rec := &fakeRecorder{}
	instrumented, sites, err := Instrument(cu, allLineSites(cu), "test.src", rec, probe.ThresholdDiagnostic)
	if err != nil {
		t.Fatalf("instrument: %v", err)
	}
	before := len(instrumented.Code)
	remove := map[probe.Key]bool{}
	for _, s := range sites {
		remove[s.Key] = true
	}
	out := Deinstrument(instrumented, sites, remove)
	if len(out.Code) != before {
		t.Fatalf("length changed: %d -> %d", before, len(out.Code))
	}
}
