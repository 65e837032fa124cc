// Package probe implements the Probe Runtime (spec.md 4.A): the tiny
// per-site object the bytecode editor wires into every instrumented line
// or branch, and that the generated call sequence invokes on every pass
// through that line.
//
// Grounded on _examples/original_source/slipcover/slipcover.py's
// note_coverage/lines_seen/new_lines_seen globals, reshaped from bare
// module-level dicts into an explicit capability object (spec.md's
// DESIGN NOTES entry "Replace [driver attribute lookup] with an explicit
// capability object passed to each probe at construction").
package probe

import "sync/atomic"

// Key identifies what a probe records: either a line number (Branch ==
// false, only Line set) or a branch edge (Branch == true, Src/Dst set).
// spec.md's DESIGN NOTES calls for "a sum type" here; a flat comparable
// struct is the Go rendering of that sum type that still works as a map
// key by plain structural equality, which is exactly the "uniform
// structural equality" property the note asks downstream set membership
// tests to have.
type Key struct {
	Line   int
	Branch bool
	Src    int
	Dst    int
}

// Recorder is the capability a Probe is given at construction: the exact
// two operations it needs from its owning driver, and nothing else. This
// is the "explicit capability object" spec.md's DESIGN NOTES prescribes in
// place of letting a probe reach back into arbitrary driver state.
type Recorder interface {
	RecordKey(filename string, key Key)
	RequestDeinstrument()
}

// Patch is a probe's handle on the instruction its immediate-removal path
// overwrites: the leading NOP of its own insert (its opcode byte and its
// operand byte), addressed by owning CodeUnit byte slice and offset.
// set_immediate in spec.md 4.A.
type Patch struct {
	Code   []byte
	Offset int
}

// Probe is the runtime companion of one ProbeSite. Its hot path (Signal)
// must stay branchless once signalled and allocation-free always, per
// spec.md 4.A's rationale ("must be small... branchless on the
// already-seen path").
type Probe struct {
	Filename  string
	Key       Key
	recorder  Recorder
	threshold int32 // d_miss_threshold; see New for sentinel meanings

	signalled int32 // 0/1, atomic: has this probe ever recorded its key
	removed   int32 // 0/1, atomic: has mark_removed() been called
	requested int32 // 0/1, atomic: has this probe asked the driver to deinstrument it

	dMiss int32
	uMiss int32
	hits  int32

	immediate *Patch
}

// Threshold sentinels from spec.md §6.
const (
	ThresholdImmediateOnly = -1 // remove the probe but never trigger a deinstrument round
	ThresholdDiagnostic    = -2 // never remove or deinstrument
)

// New constructs a probe for key in filename, reporting through rec, armed
// to request a deinstrument round after threshold D-misses (subject to the
// sentinel values above).
func New(filename string, key Key, rec Recorder, threshold int) *Probe {
	return &Probe{
		Filename:  filename,
		Key:       key,
		recorder:  rec,
		threshold: int32(threshold),
	}
}

// SetImmediate wires the byte this probe's immediate-removal path
// overwrites once it decides to self-disable. Equivalent to spec.md
// 4.A's set_immediate(code_bytes, offset).
func (p *Probe) SetImmediate(code []byte, offset int) {
	p.immediate = &Patch{Code: code, Offset: offset}
}

// Signal is invoked by the inserted call sequence on every pass through
// this probe's line or branch. Contract per spec.md 4.A:
//   - first call ever: records the key into newly_seen via the recorder.
//   - every call after the first increments a miss counter (D-miss while
//     still instrumented, U-miss once mark_removed has fired); every call
//     that is not a U-miss also increments hits.
//   - when the D-miss counter first reaches the threshold, requests a
//     deinstrument round.
//   - if armed with an immediate patch, self-disables by overwriting its
//     own leading NOP with an unconditional forward jump, then marks
//     itself removed so later callers — from dormant frames still running
//     the un-replaced CodeUnit — are tallied as U-misses instead.
//
// Signal never panics; ProbeRuntimeError-class failures are impossible by
// construction here (no fallible operation on the hot path), matching
// spec.md 7's "signal() never raises" requirement by construction rather
// than by a recovered panic.
func (p *Probe) Signal(jumpOpcode byte, jumpArg byte) {
	if atomic.LoadInt32(&p.removed) != 0 {
		atomic.AddInt32(&p.uMiss, 1)
		return
	}

	atomic.AddInt32(&p.hits, 1)

	if atomic.CompareAndSwapInt32(&p.signalled, 0, 1) {
		p.recorder.RecordKey(p.Filename, p.Key)
	} else {
		atomic.AddInt32(&p.dMiss, 1)
	}

	switch {
	case p.threshold == ThresholdDiagnostic:
		// diagnostic mode: never remove or deinstrument.
	case p.threshold == ThresholdImmediateOnly:
		p.selfDisable(jumpOpcode, jumpArg)
	case p.threshold >= 0 && atomic.LoadInt32(&p.dMiss) == p.threshold:
		atomic.StoreInt32(&p.requested, 1)
		p.recorder.RequestDeinstrument()
	}
}

// selfDisable performs the immediate-removal patch described in spec.md
// 4.A, writing two bytes: the NOP's opcode byte becomes jumpOpcode and its
// operand byte becomes jumpArg. It is idempotent: calling it twice only
// overwrites the same bytes with the same values.
func (p *Probe) selfDisable(jumpOpcode byte, jumpArg byte) {
	if p.immediate == nil {
		return
	}
	p.immediate.Code[p.immediate.Offset] = jumpOpcode
	p.immediate.Code[p.immediate.Offset+1] = jumpArg
	atomic.StoreInt32(&p.removed, 1)
}

// MarkRemoved is called by the driver once the Replacer has swapped this
// probe's owning CodeUnit for a de-instrumented successor. Firings
// observed afterwards (necessarily from dormant frames still executing
// the stale CodeUnit) are tallied as U-misses rather than D-misses.
func (p *Probe) MarkRemoved() { atomic.StoreInt32(&p.removed, 1) }

// WasRemoved reports whether MarkRemoved or a successful self-disable has
// fired for this probe.
func (p *Probe) WasRemoved() bool { return atomic.LoadInt32(&p.removed) != 0 }

// WasRequested reports whether this probe has crossed d_miss_threshold and
// asked the driver for a deinstrument round. Distinct from WasRemoved:
// a request can be pending across several rounds if the Replacer keeps
// deferring the swap under invariant I6 (spec.md §7's ReplacerError path).
func (p *Probe) WasRequested() bool { return atomic.LoadInt32(&p.requested) != 0 }

// Stats are the diagnostic counters spec.md 4.A calls for: "D-misses...
// U-misses... hits".
type Stats struct {
	Hits, DMiss, UMiss int
}

func (p *Probe) Stats() Stats {
	return Stats{
		Hits:  int(atomic.LoadInt32(&p.hits)),
		DMiss: int(atomic.LoadInt32(&p.dMiss)),
		UMiss: int(atomic.LoadInt32(&p.uMiss)),
	}
}
