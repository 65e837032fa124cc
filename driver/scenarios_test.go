package driver

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/probe"
	"github.com/xhd2015/covprobe/replacer"
)

// newGeneratorCodeUnit hand-builds a two-line CodeUnit that yields between
// its lines, since the toy language's parser has no yield syntax. This is
// the editor's own input shape (an uninstrumented host.CodeUnit), the same
// level InstrumentCode operates at per spec.md 4.D.
func newGeneratorCodeUnit(filename string) *host.CodeUnit {
	code := []byte{
		byte(host.OpLoadConst), 0,
		byte(host.OpYield), 0,
		byte(host.OpLoadConst), 1,
		byte(host.OpReturn), 0,
	}
	return &host.CodeUnit{
		Name:     "gen",
		Filename: filename,
		Code:     code,
		Lines: []host.LineEntry{
			{Start: 0, End: 4, Line: 10},
			{Start: 4, End: 8, Line: 11},
		},
		Consts:    []host.Value{111, 222},
		StackSize: 2,
	}
}

// TestScenarioGeneratorSuspendedAcrossDeinstrument is S5: a generator
// yields mid-body, a deinstrument round runs while it is suspended (never
// the active top frame of any goroutine), and on resume it executes the
// de-instrumented code without any new signal for the already-recorded line.
func TestScenarioGeneratorSuspendedAcrossDeinstrument(t *testing.T) {
	vm := host.NewVM()
	// Threshold 0: the very first signal is also the first D-miss check,
	// so the line-10 probe requests a round immediately after its only hit.
	d, err := New(vm, Config{DMissThreshold: 0})
	require.NoError(t, err)

	raw := newGeneratorCodeUnit("gen.src")
	instrumented, err := d.InstrumentCode(raw, "gen.src", map[int]probe.Key{
		10: {Line: 10},
		11: {Line: 11},
	})
	require.NoError(t, err)

	gen := vm.NewGenerator(instrumented, nil)
	root := &replacer.GeneratorRoot{Gen: gen}
	d.RegisterRoot(instrumented, root)

	_, yielded, err := vm.Resume(gen)
	require.NoError(t, err)
	require.True(t, yielded)

	// The generator is now suspended: no goroutine has it as an active top
	// frame. The round RequestDeinstrument dispatched during that first
	// Resume may have reached the lock while Resume was still running and
	// deferred the swap (I6), so wait for it and then run one more round,
	// which is free to swap gen's code.
	d.Quiesce()
	require.NoError(t, d.DeinstrumentSeen(context.Background()))

	require.NotEqual(t, instrumented, gen.Code(), "expected the generator's code to have been swapped while suspended")

	_, yielded, err = vm.Resume(gen)
	require.NoError(t, err)
	require.False(t, yielded) // falls through OpReturn

	// Line 11's own first signal (threshold 0) also requests a round; drain
	// it so the registry is quiescent before the final assertions.
	d.Quiesce()

	rep := d.GetCoverage()
	fr := rep.Files["gen.src"]
	require.NotNil(t, fr)
	require.ElementsMatch(t, []int{10, 11}, fr.ExecutedLines)

	d.mu.Lock()
	u, ok := d.registry[instrumented]
	line10Probe := (*probe.Probe)(nil)
	if ok {
		for _, s := range u.sites {
			if s.Key.Line == 10 {
				line10Probe = s.Probe
			}
		}
	} else {
		// swapped out of the registry under its old key; find the probe via
		// the new entry instead, since sites (and their Probe pointers)
		// survive a deinstrument round unchanged.
		u2 := d.registry[gen.Code()]
		for _, s := range u2.sites {
			if s.Key.Line == 10 {
				line10Probe = s.Probe
			}
		}
	}
	d.mu.Unlock()
	require.NotNil(t, line10Probe)
	require.Equal(t, 1, line10Probe.Stats().Hits, "line 10 must not signal again after the swap")
}

// TestScenarioConcurrentFirstSignalRace is S6 at the VM level: several
// goroutines run the same instrumented CodeUnit (and therefore share the
// same Probe per site) concurrently. Exactly one (filename, line) entry
// must appear in coverage regardless of how many goroutines raced to be
// first.
func TestScenarioConcurrentFirstSignalRace(t *testing.T) {
	vm := host.NewVM()
	d, err := New(vm, Config{DMissThreshold: ThresholdDiagnostic})
	require.NoError(t, err)

	fn := mustParse(t, "func h(n) {\n return n\n}\n")
	instrumented, err := d.CompileAndInstrument(fn, "race.src")
	require.NoError(t, err)

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := vm.Run(instrumented, []host.Value{n})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rep := d.GetCoverage()
	fr := rep.Files["race.src"]
	require.NotNil(t, fr)
	require.ElementsMatch(t, []int{2}, fr.ExecutedLines)

	d.mu.Lock()
	u := d.registry[instrumented]
	d.mu.Unlock()
	var returnSite *probe.Probe
	for _, s := range u.sites {
		if s.Key.Line == 2 {
			returnSite = s.Probe
		}
	}
	require.NotNil(t, returnSite)
	require.Equal(t, goroutines, returnSite.Stats().Hits)
}
