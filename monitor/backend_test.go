package monitor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/host/lang"
	"github.com/xhd2015/covprobe/probe"
)

type fakeRecorder struct{ keys []probe.Key }

func (f *fakeRecorder) RecordKey(filename string, key probe.Key) {
	f.keys = append(f.keys, key)
}

func compileOrFail(t *testing.T, src, filename string) *host.CodeUnit {
	t.Helper()
	fn, err := lang.Parse(src)
	require.NoError(t, err)
	cu, err := lang.Compile(fn, filename)
	require.NoError(t, err)
	return cu
}

// TestLineEventsReportEachLineOnce is the monitoring-backend analogue of
// the bytecode backend's D-miss amortization: a line executed many times
// in a loop must still only ever record once, here because the host
// stops calling back after the first DISABLE rather than because a probe
// patches its own call site.
func TestLineEventsReportEachLineOnce(t *testing.T) {
	vm := host.NewVM()
	cu := compileOrFail(t, "func f(n) {\n x = 0\n while n > 0 {\n  x += n\n  n -= 1\n }\n return x\n}\n", "loop.src")

	rec := &fakeRecorder{}
	b := NewBackend(vm, rec, nil)
	b.Install(cu)

	v, err := vm.Run(cu, []host.Value{1000})
	require.NoError(t, err)
	require.Equal(t, 500500, v)

	// The loop's conditional jump also reports branch edges; those are
	// counted apart from lines and are likewise reported once per edge.
	seen := map[int]int{}
	edges := map[[2]int]int{}
	for _, k := range rec.keys {
		if k.Branch {
			edges[[2]int{k.Src, k.Dst}]++
			continue
		}
		seen[k.Line]++
	}
	for line, count := range seen {
		require.Equal(t, 1, count, "line %d reported %d times, want exactly 1", line, count)
	}
	for edge, count := range edges {
		require.Equal(t, 1, count, "edge %v reported %d times, want exactly 1", edge, count)
	}
	require.ElementsMatch(t, []int{2, 3, 4, 5, 7}, keysOf(seen))
}

func keysOf(m map[int]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// TestBranchEventsDistinguishTakenFromNotTaken mirrors
// TestBranchCoverageDistinguishesTakenAndNotTaken in package driver, but
// through the monitoring backend: no branch.Instrument pre-pass, no
// inserted probes, just the interpreter reporting the edge it actually
// resolved.
func TestBranchEventsDistinguishTakenFromNotTaken(t *testing.T) {
	vm := host.NewVM()
	cu := compileOrFail(t, "func g(n) {\n if n > 0 {\n  n = 1\n } else {\n  n = 2\n }\n return n\n}\n", "branch.src")

	rec := &fakeRecorder{}
	b := NewBackend(vm, rec, nil)
	b.Install(cu)

	_, err := vm.Run(cu, []host.Value{5})
	require.NoError(t, err)

	var branches []probe.Key
	for _, k := range rec.keys {
		if k.Branch {
			branches = append(branches, k)
		}
	}
	require.Len(t, branches, 1)
	require.Equal(t, 2, branches[0].Src)
	require.Equal(t, 3, branches[0].Dst)
}

// TestSourceFilterExcludesFile mirrors the bytecode backend's own
// source-filter test: an excluded file must never reach the recorder,
// even though the host still calls back on its first line (the callback
// just reports the sentinel without ever touching rec).
func TestSourceFilterExcludesFile(t *testing.T) {
	vm := host.NewVM()
	cu := compileOrFail(t, "func f(n) {\n return n\n}\n", "vendor.src")

	rec := &fakeRecorder{}
	b := NewBackend(vm, rec, func(filename string) bool { return filename != "vendor.src" })
	b.Install(cu)

	_, err := vm.Run(cu, []host.Value{1})
	require.NoError(t, err)
	require.Empty(t, rec.keys)
}

// TestUninstallStopsFurtherCallbacks ensures ClearMonitor actually detaches
// the backend rather than merely silencing it, so a later Install (e.g.
// on a freshly compiled CodeUnit for the same source) starts from a clean
// per-site disable table instead of inheriting stale state.
func TestUninstallStopsFurtherCallbacks(t *testing.T) {
	vm := host.NewVM()
	cu := compileOrFail(t, "func f(n) {\n return n\n}\n", "f.src")

	rec := &fakeRecorder{}
	b := NewBackend(vm, rec, nil)
	b.Install(cu)
	_, err := vm.Run(cu, []host.Value{1})
	require.NoError(t, err)
	require.NotEmpty(t, rec.keys)

	b.Uninstall(cu)
	rec.keys = nil
	_, err = vm.Run(cu, []host.Value{1})
	require.NoError(t, err)
	require.Empty(t, rec.keys, "no monitor installed after Uninstall, so no callback should fire")
}
