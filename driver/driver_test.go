package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhd2015/covprobe/editor"
	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/host/lang"
	"github.com/xhd2015/covprobe/replacer"
)

const loopSrc = "func f(n) {\n x = 0\n while n > 0 {\n  x += n\n  n -= 1\n }\n return x\n}\n"

func mustParse(t *testing.T, src string) *lang.FuncDecl {
	t.Helper()
	fn, err := lang.Parse(src)
	require.NoError(t, err)
	return fn
}

// instrumentAndRun compiles+instruments fn, registers it under a
// ModuleRoot the driver can later swap, and runs it on vm.
func instrumentAndRun(t *testing.T, d *Driver, vm *host.VM, fn *lang.FuncDecl, filename string, args []host.Value) host.Value {
	t.Helper()
	cu, err := d.CompileAndInstrument(fn, filename)
	require.NoError(t, err)

	var slot *host.CodeUnit = cu
	root := replacer.NewModuleRoot(filename, cu, func(n *host.CodeUnit) { slot = n })
	d.RegisterRoot(cu, root)

	v, err := vm.Run(slot, args)
	require.NoError(t, err)
	return v
}

func TestLineCoverageTakenPath(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{DMissThreshold: ThresholdDiagnostic})
	require.NoError(t, err)

	fn := mustParse(t, loopSrc)
	instrumentAndRun(t, d, vm, fn, "loop.src", []host.Value{3})

	rep := d.GetCoverage()
	fr := rep.Files["loop.src"]
	require.NotNil(t, fr)
	require.ElementsMatch(t, []int{2, 3, 4, 5, 7}, fr.ExecutedLines)
}

func TestLineCoverageSkippedPath(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{DMissThreshold: ThresholdDiagnostic})
	require.NoError(t, err)

	fn := mustParse(t, loopSrc)
	instrumentAndRun(t, d, vm, fn, "loop0.src", []host.Value{0})

	rep := d.GetCoverage()
	fr := rep.Files["loop0.src"]
	require.NotNil(t, fr)
	require.ElementsMatch(t, []int{2, 3, 7}, fr.ExecutedLines)
}

func TestBranchCoverageDistinguishesTakenAndNotTaken(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{Branch: true, DMissThreshold: ThresholdDiagnostic})
	require.NoError(t, err)

	ifSrc := "func g(n) {\n if n > 0 {\n  n = 1\n } else {\n  n = 2\n }\n return n\n}\n"
	fn := mustParse(t, ifSrc)
	instrumentAndRun(t, d, vm, fn, "branch.src", []host.Value{5})

	rep := d.GetCoverage()
	fr := rep.Files["branch.src"]
	require.NotNil(t, fr)
	require.Contains(t, fr.ExecutedBranches, [2]int{2, 3})
	require.NotContains(t, fr.ExecutedBranches, [2]int{2, 5})
}

func TestSourceFilterExcludesFile(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{
		DMissThreshold: ThresholdDiagnostic,
		SourceFilter:   func(filename string) bool { return filename != "vendor.src" },
	})
	require.NoError(t, err)

	fn := mustParse(t, loopSrc)
	instrumentAndRun(t, d, vm, fn, "vendor.src", []host.Value{3})

	rep := d.GetCoverage()
	require.Nil(t, rep.Files["vendor.src"])
}

func TestHotLoopDeinstrumentsAfterThreshold(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{DMissThreshold: 5})
	require.NoError(t, err)

	fn := mustParse(t, loopSrc)
	cu, err := d.CompileAndInstrument(fn, "hot.src")
	require.NoError(t, err)

	var slot *host.CodeUnit = cu
	root := replacer.NewModuleRoot("hot.src", cu, func(n *host.CodeUnit) { slot = n })
	d.RegisterRoot(cu, root)

	_, err = vm.Run(slot, []host.Value{1000})
	require.NoError(t, err)

	// The background round RequestDeinstrument dispatched mid-run may have
	// found this frame still active (I6) and deferred; once Run has
	// returned no frame is active, so a follow-up round is guaranteed to
	// succeed. Quiesce first so the two never race each other.
	d.Quiesce()
	require.NoError(t, d.DeinstrumentSeen(context.Background()))

	d.mu.Lock()
	u, ok := d.registry[slot]
	d.mu.Unlock()
	require.True(t, ok)

	var loopBodySite *editor.Site
	for _, s := range u.sites {
		if !s.Key.Branch && s.Key.Line == 4 {
			loopBodySite = s
		}
	}
	require.NotNil(t, loopBodySite)
	require.True(t, loopBodySite.Probe.WasRemoved())
}

func TestImmediateModeSelfDisablesOnFirstHit(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{Immediate: true})
	require.NoError(t, err)

	fn := mustParse(t, loopSrc)
	instrumentAndRun(t, d, vm, fn, "imm.src", []host.Value{2})

	rep := d.GetCoverage()
	fr := rep.Files["imm.src"]
	require.NotNil(t, fr)
	require.Contains(t, fr.ExecutedLines, 4)
}
