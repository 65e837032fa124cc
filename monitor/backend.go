// Package monitor implements the Monitoring Backend (spec.md 4.E): the
// alternate driver strategy for hosts that expose a structured,
// versioned callback API instead of an editable bytecode stream. It
// registers LINE/BRANCH/START callbacks with host.VM and feeds the same
// newly_seen/all_seen data model the bytecode backend's probes feed,
// without ever invoking package editor or package branch.
//
// Grounded on _examples/original_source/src/slipcover/slipcover.py's
// sys.monitoring branch (Python >= 3.12): a single handle_line callback
// registered once per process, returning sys.monitoring.DISABLE to stop
// further notifications for that code object once it has fired — the
// same amortization the bytecode backend gets from de-instrumenting a
// probe, paid for here by the host instead of by an inserted call.
package monitor

import (
	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/probe"
)

// Recorder is the newly_seen sink; driver.Driver already implements this
// (it is the subset of probe.Recorder the monitoring backend needs — it
// never requests a deinstrument round, since there is no bytecode to
// deinstrument).
type Recorder interface {
	RecordKey(filename string, key probe.Key)
}

// Backend is spec.md 4.E's engine half: install it on a VM and every
// CodeUnit handed to Install reports coverage through callbacks instead
// of probe calls. The Branch Pre-Instrumenter is never consulted — the
// host already knows both edges of every conditional jump it executes.
type Backend struct {
	vm     *host.VM
	rec    Recorder
	filter func(string) bool
}

// NewBackend constructs a monitoring backend over vm, delivering into rec.
// filter may be nil to monitor every filename.
func NewBackend(vm *host.VM, rec Recorder, filter func(string) bool) *Backend {
	return &Backend{vm: vm, rec: rec, filter: filter}
}

// Install enables the monitoring backend for cu (spec.md's "the core
// registers callbacks that directly populate newly_seen"). Calling
// Install on a CodeUnit the editor has instrumented is a caller error:
// the two backends are mutually exclusive per spec.md 4.E.
func (b *Backend) Install(cu *host.CodeUnit) {
	b.vm.SetMonitor(cu, b)
}

// Uninstall detaches the backend from cu; used by tests and by callers
// tearing down a monitored run.
func (b *Backend) Uninstall(cu *host.CodeUnit) {
	b.vm.ClearMonitor(cu)
}

func (b *Backend) excluded(filename string) bool {
	return b.filter != nil && !b.filter(filename)
}

// Line implements host.Monitor. Line 0 is the host's "no line recorded
// at this offset" sentinel (LineAt's zero value) and is never reported.
func (b *Backend) Line(cu *host.CodeUnit, line int) host.MonitorAction {
	if line == 0 {
		return host.MonitorContinue
	}
	if b.excluded(cu.Filename) {
		return host.MonitorDisable
	}
	b.rec.RecordKey(cu.Filename, probe.Key{Line: line})
	return host.MonitorDisable
}

// Branch implements host.Monitor, reporting the edge the interpreter just
// resolved regardless of whether it was taken or not-taken — both are
// distinct Keys, matching the bytecode backend's two-site branch model
// (spec.md 4.C).
func (b *Backend) Branch(cu *host.CodeUnit, fromLine, toLine int, taken bool) host.MonitorAction {
	if b.excluded(cu.Filename) {
		return host.MonitorDisable
	}
	b.rec.RecordKey(cu.Filename, probe.Key{Branch: true, Src: fromLine, Dst: toLine})
	return host.MonitorDisable
}

// Start implements host.Monitor. The reference host has no STARTUP-level
// coverage concept of its own (no module-level "has this function ever
// been called" metric distinct from its first line), so Start is a no-op
// that disables itself immediately — kept only so Backend satisfies the
// full host.Monitor contract spec.md 4.E describes ("LINE, BRANCH_TAKEN,
// BRANCH_NOT_TAKEN, START").
func (b *Backend) Start(cu *host.CodeUnit) host.MonitorAction {
	return host.MonitorDisable
}
