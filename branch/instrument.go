// Package branch implements the Branch Pre-Instrumenter (spec.md 4.C):
// it rewrites a parsed function body, before compilation, so that every
// conditional edge materializes as a synthetic global assignment the
// compiler turns into an ordinary STORE_GLOBAL. The Instrumentation Driver
// then treats that assignment's line exactly like any other instrumentable
// line, which is how branch coverage "collapses onto the line mechanism"
// without the editor or the probe runtime needing any branch-specific code.
//
// Grounded on _examples/original_source/slipcover/branch.py
// (SlipcoverTransformer.visit_If/visit_For/visit_While, preinstrument),
// adapted from an AST NodeTransformer over Python's ast module to a
// tree-rewrite over host/lang's own Stmt/Expr nodes.
package branch

import "github.com/xhd2015/covprobe/host/lang"

// Edge identifies one possible control-flow edge out of a branch point:
// Src is the line of the branching statement (an `if`, a `while`, or, for a
// break-exit edge, the `break` itself), Dst is
// the line control transfers to when that edge is taken (slipcover.py
// calls these from_line/to_line).
type Edge struct {
	Src, Dst int
}

// Result is what Instrument returns: Edges maps each synthetic marker's
// pseudo-line (see marker) back to the edge it represents, so the driver
// can look up which probe.Key{Branch: true} to install when it reaches
// that line.
type Result struct {
	Edges map[int]Edge
}

// blockCursor lets a statement look at its own position within the block
// that contains it, to find the line execution falls to when it exits
// textually (slipcover's next_node chain).
type blockCursor struct {
	stmts []lang.Stmt
	index int
}

func (c blockCursor) nextLine() int {
	if c.index+1 < len(c.stmts) {
		return c.stmts[c.index+1].Line()
	}
	return 0
}

// instrumenter carries pseudo-line allocation state, the short-circuit
// temp-variable counter, and the enclosing-loop exit-target stack (for
// break statements) across the whole walk, mirroring SlipcoverTransformer's
// single instance per tree.
type instrumenter struct {
	edges     map[int]Edge
	next      int // next pseudo-line to hand out, counting down from -1
	loopExits []int
	scCounter int
}

// Instrument walks body (a function's top-level statement list), desugars
// short-circuit `&&`/`||` into if/else over a temporary so the ordinary
// branch marking below covers them, then splices synthetic branch markers
// at every `if`, `while`, and `break`. It returns the edges it inserted and
// the rebuilt statement list the caller must substitute for the original
// body.
func Instrument(body []lang.Stmt) (*Result, []lang.Stmt) {
	ins := &instrumenter{edges: map[int]Edge{}, next: -1}
	body = desugarStmts(body, &ins.scCounter)
	out := ins.walkBlock(body, 0)
	return &Result{Edges: ins.edges}, out
}

// walkBlock rebuilds stmts, marking every if/while/break it finds and
// threading fallthroughLine: the line execution reaches if control runs off
// the end of this block without an explicit return (slipcover's next_node
// chain). Loop-exit and break-exit markers are spliced in as new sibling
// statements, which is why this returns a new slice rather than mutating
// stmts in place.
func (ins *instrumenter) walkBlock(stmts []lang.Stmt, fallthroughLine int) []lang.Stmt {
	out := make([]lang.Stmt, 0, len(stmts))
	for i, s := range stmts {
		cur := blockCursor{stmts: stmts, index: i}
		switch n := s.(type) {
		case *lang.IfStmt:
			ins.markIf(n, cur, fallthroughLine)
			out = append(out, n)
		case *lang.WhileStmt:
			exitTarget := cur.nextLine()
			if exitTarget == 0 {
				exitTarget = fallthroughLine
			}
			ins.markWhile(n, exitTarget)
			out = append(out, n)
			out = append(out, ins.marker(n.Line(), exitTarget)...)
		case *lang.BreakStmt:
			exitTarget := ins.loopExits[len(ins.loopExits)-1]
			out = append(out, ins.marker(n.Line(), exitTarget)...)
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out
}

func (ins *instrumenter) markIf(n *lang.IfStmt, cur blockCursor, blockFallthrough int) {
	thenTarget := blockFallthrough
	if len(n.Then) > 0 {
		thenTarget = n.Then[0].Line()
	}
	n.Then = append(ins.marker(n.Line(), thenTarget), n.Then...)

	elseTarget := cur.nextLine()
	if elseTarget == 0 {
		elseTarget = blockFallthrough
	}
	if len(n.Else) > 0 {
		elseTarget = n.Else[0].Line()
	}
	n.Else = append(ins.marker(n.Line(), elseTarget), n.Else...)

	n.Then = ins.walkBlock(n.Then, blockFallthrough)
	n.Else = ins.walkBlock(n.Else, blockFallthrough)
}

// markWhile marks the loop's two edges: the body-taken edge (condition
// true, control enters the loop body) and the loop-exit edge (condition
// false, control falls through to exitTarget — spliced by the caller as a
// sibling statement right after the while, since there is no else-arm node
// to carry it). Each break statement nested directly or transitively in the
// body gets its own separate break-exit edge to the same exitTarget, pushed
// onto loopExits for the duration of the body walk.
func (ins *instrumenter) markWhile(n *lang.WhileStmt, exitTarget int) {
	bodyTarget := exitTarget
	if len(n.Body) > 0 {
		bodyTarget = n.Body[0].Line()
	}
	n.Body = append(ins.marker(n.Line(), bodyTarget), n.Body...)

	ins.loopExits = append(ins.loopExits, exitTarget)
	n.Body = ins.walkBlock(n.Body, n.Line())
	ins.loopExits = ins.loopExits[:len(ins.loopExits)-1]
}

// marker allocates a fresh negative pseudo-line for one branch edge and
// returns the single synthetic AssignStmt that records it at runtime. A
// fresh line per edge (rather than reusing one "branch line" for every
// edge) is what lets the driver tell distinct edges apart purely from the
// PC the probe fires at, the same way distinct source lines disambiguate
// ordinary statements.
func (ins *instrumenter) marker(src, dst int) []lang.Stmt {
	line := ins.next
	ins.next--
	ins.edges[line] = Edge{Src: src, Dst: dst}
	return []lang.Stmt{markerStmt(line, src, dst)}
}

func markerStmt(line, src, dst int) lang.Stmt {
	return lang.NewSyntheticBranchAssign(line, src, dst)
}
