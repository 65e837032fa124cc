// Package driver implements the Instrumentation Driver (spec.md 4.D): the
// component that owns newly_seen/all_seen, drives the Editor and Branch
// Pre-Instrumenter over freshly compiled code, and orchestrates a
// deinstrument round end to end when a probe asks for one.
//
// Grounded on _examples/original_source/slipcover/slipcover.py's Slipcover
// class (the single stateful object wrapping instrument/deinstrument/
// get_coverage), reshaped per spec.md's DESIGN NOTES into an explicit
// Driver value rather than module-level globals, the same restructuring
// probe.Recorder already applies one level down.
package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/xhd2015/covprobe/branch"
	"github.com/xhd2015/covprobe/editor"
	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/host/lang"
	"github.com/xhd2015/covprobe/probe"
	"github.com/xhd2015/covprobe/replacer"
)

// unit is everything the driver remembers about one instrumented CodeUnit:
// its sites (for deinstrument/stats) and a replacer.Root so a future
// deinstrument round can find and swap it in the live object graph.
type unit struct {
	filename string
	current  *host.CodeUnit
	sites    []*editor.Site
	root     replacer.Root
}

// Driver is the Go rendering of slipcover.py's Slipcover object: one value
// per process (or per test, in this module's tests), owning every mutable
// set spec.md 4.D names.
type Driver struct {
	cfg Config
	vm  *host.VM
	log *zap.Logger

	mu           sync.Mutex
	newlySeen    map[string]map[probe.Key]bool
	allSeen      map[string]map[probe.Key]bool
	registry     map[*host.CodeUnit]*unit
	pendingRound bool
	wg           sync.WaitGroup
}

// New validates cfg and returns a ready Driver bound to vm (the host whose
// CodeUnits it instruments and whose live references it swaps). The
// driver's own sets are guarded by its own mutex, not by vm's execution
// lock: deinstrument rounds run on a separate goroutine (see
// RequestDeinstrument).
func New(vm *host.VM, cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		cfg:       cfg,
		vm:        vm,
		log:       log,
		newlySeen: map[string]map[probe.Key]bool{},
		allSeen:   map[string]map[probe.Key]bool{},
		registry:  map[*host.CodeUnit]*unit{},
	}, nil
}

// RecordKey implements probe.Recorder. Called from a probe's hot Signal
// path on the first firing of its key; must stay cheap, so it takes the
// driver's single mutex rather than anything fancier (this is the only
// non-atomic operation on the hot path, matching slipcover.py's own
// note_coverage, which does a plain dict assignment under the GIL).
func (d *Driver) RecordKey(filename string, key probe.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg.SourceFilter != nil && !d.cfg.SourceFilter(filename) {
		return
	}
	m := d.newlySeen[filename]
	if m == nil {
		m = map[probe.Key]bool{}
		d.newlySeen[filename] = m
	}
	m[key] = true
}

// RequestDeinstrument implements probe.Recorder. A probe that just crossed
// d_miss_threshold calls this from inside Signal, which itself runs from a
// NativeFunc invoked by host.VM.step while the calling goroutine holds the
// VM's execution lock (spec.md §5's "GIL"). Running a deinstrument round
// inline here would deadlock the instant the Replacer tries to reacquire
// that same lock to swap a CodeUnit reference, so the round is dispatched
// to a separate goroutine instead — it simply waits for the lock like any
// other collaborator, picking up the free window between instruction steps
// (spec.md's "a later safepoint"). The driver coalesces concurrent
// requests (pendingRound) into a single round rather than one per probe;
// Quiesce lets a caller wait for any in-flight round to finish.
func (d *Driver) RequestDeinstrument() {
	d.mu.Lock()
	if d.pendingRound {
		d.mu.Unlock()
		return
	}
	d.pendingRound = true
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		if err := d.DeinstrumentSeen(context.Background()); err != nil {
			d.log.Error("deinstrument round failed", zap.Error(err))
		}
	}()
}

// Quiesce blocks until every deinstrument round dispatched by
// RequestDeinstrument so far has finished. Tests and shutdown paths use
// this to observe a deterministic post-round state; ordinary callers
// driving coverage collection don't need it.
func (d *Driver) Quiesce() { d.wg.Wait() }

// InstrumentCode implements spec.md 4.D's instrument_code(code_unit,
// filename) -> code_unit verbatim: it takes an already-compiled CodeUnit
// and the set of keys to install probes for, runs it through the Editor,
// and registers the result so a later deinstrument round can find it. On
// editor failure it returns cu unchanged alongside a *BytecodeError, per
// spec.md §7 ("never fatal to the run").
func (d *Driver) InstrumentCode(cu *host.CodeUnit, filename string, sites map[int]probe.Key) (*host.CodeUnit, error) {
	log := d.log.With(zap.String("filename", filename), zap.String("unit", cu.Name))

	threshold := d.cfg.DMissThreshold
	if d.cfg.Immediate {
		threshold = probe.ThresholdImmediateOnly
	}

	instrumented, created, err := editor.Instrument(cu, sites, filename, d, threshold)
	if err != nil {
		log.Warn("bytecode editor failed, running uninstrumented", zap.Error(err))
		return cu, &BytecodeError{Filename: filename, Unit: cu.Name, Err: err}
	}

	d.mu.Lock()
	d.registry[instrumented] = &unit{filename: filename, current: instrumented, sites: created}
	d.mu.Unlock()
	activeCodeUnits.Inc()

	log.Debug("instrumented code unit", zap.Int("sites", len(created)))
	return instrumented, nil
}

// CompileAndInstrument is the convenience path driver callers normally use:
// it compiles fn's AST (running it through the Branch Pre-Instrumenter
// first when cfg.Branch is set, spec.md 4.D's pre_instrument_source) and
// then calls InstrumentCode with a site for every instrumentable line and
// every inserted branch edge. Grounded on slipcover.py's Slipcover.instrument
// wrapper, which likewise chains preinstrument -> compile -> the bytecode
// pass behind one call from the caller's point of view.
func (d *Driver) CompileAndInstrument(fn *lang.FuncDecl, filename string) (*host.CodeUnit, error) {
	sites := map[int]probe.Key{}
	if d.cfg.Branch {
		res := d.PreInstrumentSource(fn)
		for line, e := range res.Edges {
			sites[line] = probe.Key{Branch: true, Src: e.Src, Dst: e.Dst}
		}
	}

	cu, err := lang.Compile(fn, filename)
	if err != nil {
		return nil, &BytecodeError{Filename: filename, Unit: fn.Name, Err: err}
	}

	for _, l := range cu.Lines {
		if l.Line < 0 {
			continue // pseudo-lines belong to branch markers, already added above
		}
		if _, ok := sites[l.Line]; !ok {
			sites[l.Line] = probe.Key{Line: l.Line}
		}
	}

	return d.InstrumentCode(cu, filename, sites)
}

// RegisterRoot tells the driver where to find the live reference to cu so
// a future deinstrument round can swap it via the Replacer (spec.md 4.D's
// code_registry entry "plus the set of inner CodeUnits it transitively
// contains" — reachability is the Root's job, not the driver's).
func (d *Driver) RegisterRoot(cu *host.CodeUnit, root replacer.Root) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.registry[cu]; ok {
		u.root = root
	}
}

// PreInstrumentSource runs the Branch Pre-Instrumenter over fn's body,
// replacing it with the marked (and, where a loop's condition needed it,
// desugared) statement list, and returning the edge map InstrumentCode
// needs to build probe keys. Exposed separately so callers who want to
// see the marked AST before compilation (e.g. the driver's own tests) can
// do so.
func (d *Driver) PreInstrumentSource(fn *lang.FuncDecl) *branch.Result {
	res, body := branch.Instrument(fn.Body)
	fn.Body = body
	return res
}

// DeinstrumentSeen implements spec.md 4.D's deinstrument_seen(): atomically
// drains newly_seen into all_seen, deinstruments every registered unit that
// has any now-removable site, swaps the live references via the Replacer,
// and marks every superseded probe removed. Reentrant and idempotent within
// a round per spec.md §5's concurrency note.
func (d *Driver) DeinstrumentSeen(ctx context.Context) error {
	roundID := uuid.NewString()
	log := d.log.With(zap.String("round_id", roundID))

	d.mu.Lock()
	for filename, keys := range d.newlySeen {
		dst := d.allSeen[filename]
		if dst == nil {
			dst = map[probe.Key]bool{}
			d.allSeen[filename] = dst
		}
		for k := range keys {
			dst[k] = true
		}
		delete(d.newlySeen, filename)
	}

	type rebuild struct {
		old, new *host.CodeUnit
		u        *unit
		remove   map[probe.Key]bool
	}
	var rebuilds []rebuild
	for old, u := range d.registry {
		remove := map[probe.Key]bool{}
		for _, s := range u.sites {
			if s.Probe.WasRequested() && !s.Probe.WasRemoved() {
				remove[s.Key] = true
			}
		}
		if len(remove) == 0 {
			continue
		}
		newCU := editor.Deinstrument(old, u.sites, remove)
		if newCU == old {
			continue
		}
		rebuilds = append(rebuilds, rebuild{old: old, new: newCU, u: u, remove: remove})
	}
	d.pendingRound = false
	d.mu.Unlock()

	if len(rebuilds) == 0 {
		log.Debug("deinstrument round found nothing to rebuild")
		return nil
	}
	log.Info("deinstrument round rebuilding code units", zap.Int("units", len(rebuilds)))

	replacements := make(map[*host.CodeUnit]*host.CodeUnit, len(rebuilds))
	var roots []replacer.Root
	for _, r := range rebuilds {
		replacements[r.old] = r.new
		if r.u.root != nil {
			roots = append(roots, r.u.root)
		}
	}

	errs := replacer.Replace(ctx, d.vm, roots, replacements)
	deinstrumentRounds.Inc()

	// swapped reports whether the live reference actually now points at
	// r.new. A root can decline the swap without an error (I6: the old
	// CodeUnit was some goroutine's active top frame) — that is not a
	// ReplacerError, just a deferral, so it is detected here by reading
	// the root back rather than by inspecting errs.
	swapped := func(r rebuild) bool {
		if r.u.root == nil {
			return true // nothing live to verify; registry bookkeeping still applies
		}
		return r.u.root.Current() == r.new
	}

	var merr *multierror.Error
	d.mu.Lock()
	for _, r := range rebuilds {
		if hasRootError(errs, r.u.root) {
			merr = multierror.Append(merr, &ReplacerError{RootID: rootIdentity(r.u.root), Err: fmt.Errorf("root rewrite failed")})
			continue
		}
		if !swapped(r) {
			// I6 deferral: leave the old CodeUnit and its probes exactly as
			// they are so a later round can retry once the frame is dormant.
			log.Debug("swap deferred, code unit still active", zap.String("filename", r.u.filename))
			continue
		}
		delete(d.registry, r.old)
		d.registry[r.new] = &unit{filename: r.u.filename, current: r.new, sites: r.u.sites, root: r.u.root}
		for _, s := range r.u.sites {
			if r.remove[s.Key] {
				s.Probe.MarkRemoved()
			}
		}
		sitesDeinstrumented.WithLabelValues(r.u.filename).Add(float64(len(r.remove)))
	}
	d.mu.Unlock()

	if merr != nil {
		return merr.ErrorOrNil()
	}
	return nil
}

func rootIdentity(r replacer.Root) interface{} {
	if r == nil {
		return nil
	}
	return r.Identity()
}

func hasRootError(errs []error, root replacer.Root) bool {
	if root == nil {
		return false
	}
	for _, e := range errs {
		if re, ok := e.(*replacer.Error); ok && re.RootID == root.Identity() {
			return true
		}
	}
	return false
}

// GetCoverage implements spec.md 4.D's get_coverage(): drains newly_seen
// into all_seen (same as a deinstrument round's bookkeeping half, without
// the bytecode rewrite) and returns the persisted-document shape spec.md
// §6 defines.
func (d *Driver) GetCoverage() *Report {
	d.mu.Lock()
	for filename, keys := range d.newlySeen {
		dst := d.allSeen[filename]
		if dst == nil {
			dst = map[probe.Key]bool{}
			d.allSeen[filename] = dst
		}
		for k := range keys {
			dst[k] = true
		}
		delete(d.newlySeen, filename)
	}

	files := map[string]*FileReport{}
	for filename, keys := range d.allSeen {
		fr := &FileReport{}
		for k := range keys {
			if k.Branch {
				fr.ExecutedBranches = append(fr.ExecutedBranches, [2]int{k.Src, k.Dst})
			} else {
				fr.ExecutedLines = append(fr.ExecutedLines, k.Line)
			}
		}
		if d.cfg.CollectStats {
			fr.Stats = d.statsForFile(filename)
		}
		files[filename] = fr
	}
	d.mu.Unlock()

	return &Report{
		Files: files,
		Meta:  Meta{Version: reportVersion, Branch: d.cfg.Branch, Platform: "covprobe/host"},
	}
}

func (d *Driver) statsForFile(filename string) map[string]probe.Stats {
	out := map[string]probe.Stats{}
	for _, u := range d.registry {
		if u.filename != filename {
			continue
		}
		for _, s := range u.sites {
			out[statKey(s.Key)] = s.Probe.Stats()
		}
	}
	return out
}

func statKey(k probe.Key) string {
	if k.Branch {
		return fmt.Sprintf("branch:%d->%d", k.Src, k.Dst)
	}
	return fmt.Sprintf("line:%d", k.Line)
}
