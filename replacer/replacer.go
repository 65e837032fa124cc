// Package replacer implements the Code-Object Replacer (spec.md 4.F): once
// a deinstrument round has produced a map of old CodeUnits to their
// de-instrumented successors, it walks the live object graph and installs
// the successors everywhere the old pointer was reachable — except the
// frame currently executing on any goroutine (invariant I6).
//
// Grounded on _examples/original_source/slipcover/slipcover.py's
// replace_map (a plain dict consulted by sys.settrace machinery to swap
// frame.f_code on dormant frames) generalized into an explicit graph walk,
// since this host has no global "all living objects" the runtime can hand
// us for free — the driver must tell the replacer where to look.
//
// Grounded on chazu-maggie's dependency image for petermattis/goid (read by
// host.VM.IsFrameActive, consulted here before every swap) and for
// golang.org/x/sync, repurposed here as a semaphore bounding root-walk
// concurrency rather than as errgroup: each root's failure is isolated by
// design (see Replace's doc comment below), so there is no first error that
// should cancel its siblings — the one property errgroup adds over a plain
// WaitGroup, and not a property this fan-out wants.
package replacer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/xhd2015/covprobe/host"
)

// maxConcurrentRootWalks bounds how many roots are walked at once, so a
// deinstrument round touching a huge root set doesn't spawn one goroutine
// per root.
var maxConcurrentRootWalks = int64(runtime.GOMAXPROCS(0))

// Root is one entry point into the live object graph the replacer walks:
// a module namespace slot, a class attribute, an inner CodeUnit reference,
// or a suspended generator frame (spec.md 4.F's enumerated kinds 1-5).
type Root interface {
	// Identity disambiguates this root from every other reachable root for
	// the visited-set; it must be stable and comparable.
	Identity() interface{}
	// Current returns the CodeUnit this root currently references, or nil
	// if this root does not itself hold a swappable reference (a pure
	// container whose only purpose is reaching its Children).
	Current() *host.CodeUnit
	// Replace installs cu at this root's own slot. Never called if
	// Current() returned nil.
	Replace(cu *host.CodeUnit)
	// Children returns nested roots reachable from this one (e.g. an inner
	// CodeUnit's own Inner slice, or a generator's dormant frame locals).
	Children() []Root
}

// Error is a ReplacerError (spec.md §7): failure while rewriting one root.
// Only the affected root is left unswapped (nothing is rolled back, since
// that root was never walked); the old CodeUnit stays in place and its
// probe is left in DeinstrumentPending.
type Error struct {
	RootID interface{}
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("replacer: root %v: %v", e.RootID, e.Err)
}
func (e *Error) Unwrap() error { return e.Err }

// Replace walks every root (and its transitive Children) breadth-first,
// installing replacements[old] wherever a root currently references old,
// skipping any CodeUnit that is the active top frame of any goroutine
// (I6). Roots are processed concurrently, bounded by a semaphore rather
// than one goroutine per root. A swap itself never fails; the only
// per-root failure is ctx ending before a semaphore slot frees, in which
// case that root is not walked at all (so its old CodeUnit stays in place
// and the corresponding probe stays DeinstrumentPending) and a *Error
// naming it is returned. Such a failure is not fatal to the whole round
// and never cancels its siblings. Nothing is rolled back. ctx bounds how
// long a walk will wait for a semaphore slot; it is not otherwise
// propagated, since a root's own walk never blocks.
func Replace(ctx context.Context, vm *host.VM, roots []Root, replacements map[*host.CodeUnit]*host.CodeUnit) []error {
	visited := newVisitedSet()
	var errs []error
	errsCh := make(chan error, len(roots))

	sem := semaphore.NewWeighted(maxConcurrentRootWalks)
	var wg sync.WaitGroup
	for _, r := range roots {
		r := r
		if err := sem.Acquire(ctx, 1); err != nil {
			errsCh <- &Error{RootID: r.Identity(), Err: err}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			if err := walkRoot(vm, r, replacements, visited); err != nil {
				errsCh <- err
			}
		}()
	}
	wg.Wait()
	close(errsCh)
	for err := range errsCh {
		errs = append(errs, err)
	}
	return errs
}

func walkRoot(vm *host.VM, root Root, replacements map[*host.CodeUnit]*host.CodeUnit, visited *visitedSet) error {
	queue := []Root{root}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]

		if !visited.markSeen(r.Identity()) {
			continue
		}

		if cu := r.Current(); cu != nil {
			if repl, ok := replacements[cu]; ok {
				if err := swap(vm, r, cu, repl); err != nil {
					return &Error{RootID: root.Identity(), Err: err}
				}
			}
		}
		queue = append(queue, r.Children()...)
	}
	return nil
}

// swap installs repl at r unless cu is the active top frame of some
// goroutine, in which case it is left alone (I6) — not an error, just a
// skip; the probe stays DeinstrumentPending and keeps recording D-misses,
// which spec.md 7 calls correctness-preserving but higher overhead.
func swap(vm *host.VM, r Root, cu, repl *host.CodeUnit) error {
	vm.Lock()
	defer vm.Unlock()

	if vm.IsFrameActive(cu) {
		return nil
	}
	r.Replace(repl)
	return nil
}

type visitedSet struct {
	mu   sync.Mutex
	seen map[interface{}]bool
}

// newVisitedSet returns a set safe for concurrent markSeen calls from
// multiple root-walking goroutines.
func newVisitedSet() *visitedSet {
	return &visitedSet{seen: map[interface{}]bool{}}
}

func (v *visitedSet) markSeen(id interface{}) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[id] {
		return false
	}
	v.seen[id] = true
	return true
}
