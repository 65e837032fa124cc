package branch

import (
	"fmt"

	"github.com/xhd2015/covprobe/host/lang"
)

// desugarStmts rewrites every `&&`/`||` reachable from stmts into an
// if/else over a synthetic temporary, so that walkBlock's ordinary if
// marking covers the short-circuit's jump without any branch-marking logic
// specific to boolean operators. slipcover.py's own _mark_branches has no
// visit_BoolOp: CPython desugars `and`/`or` to real conditional jumps in
// its own compiler, so by the time slipcover's AST pass runs there is
// nothing left for it to mark there. host/lang keeps `&&`/`||` as BinaryExpr
// all the way to its own compiler (compileBinary), so that collapse has to
// happen here instead, one level up, before branch marking runs.
func desugarStmts(stmts []lang.Stmt, counter *int) []lang.Stmt {
	out := make([]lang.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *lang.AssignStmt:
			pre, newVal := desugarExpr(n.Value, counter)
			out = append(out, pre...)
			if len(pre) > 0 {
				out = append(out, lang.NewAssign(n.Line(), n.Name, newVal))
			} else {
				out = append(out, n)
			}
		case *lang.ReturnStmt:
			if n.Value == nil {
				out = append(out, n)
				continue
			}
			pre, newVal := desugarExpr(n.Value, counter)
			out = append(out, pre...)
			if len(pre) > 0 {
				out = append(out, lang.NewReturn(n.Line(), newVal))
			} else {
				out = append(out, n)
			}
		case *lang.IfStmt:
			pre, newCond := desugarExpr(n.Cond, counter)
			n.Then = desugarStmts(n.Then, counter)
			n.Else = desugarStmts(n.Else, counter)
			if len(pre) > 0 {
				n.Cond = newCond
			}
			out = append(out, pre...)
			out = append(out, n)
		case *lang.WhileStmt:
			pre, newCond := desugarExpr(n.Cond, counter)
			n.Body = desugarStmts(n.Body, counter)
			if len(pre) == 0 {
				out = append(out, n)
				continue
			}
			// The preamble must re-run every iteration, which a single
			// hoisted evaluation before the loop cannot do: rewrite into
			// `while 1 { <preamble>; if !cond { break }; <body> }` so the
			// preamble is part of the loop body itself.
			line := n.Line()
			breakIf := lang.NewIf(line, lang.NewUnary(line, "!", newCond),
				[]lang.Stmt{lang.NewBreak(line)}, []lang.Stmt{})
			newBody := append(append([]lang.Stmt{}, pre...), breakIf)
			newBody = append(newBody, n.Body...)
			out = append(out, lang.NewWhile(line, lang.NewIntLit(line, 1), newBody))
		default:
			out = append(out, s)
		}
	}
	return out
}

// desugarExpr returns the statements that must run immediately before e's
// value is used (possibly empty) and the expression to substitute for e.
func desugarExpr(e lang.Expr, counter *int) ([]lang.Stmt, lang.Expr) {
	switch n := e.(type) {
	case *lang.BinaryExpr:
		if n.Op == "&&" || n.Op == "||" {
			return desugarShortCircuit(n, counter)
		}
		xPre, xNew := desugarExpr(n.X, counter)
		yPre, yNew := desugarExpr(n.Y, counter)
		if len(xPre) == 0 && len(yPre) == 0 {
			return nil, n
		}
		pre := append(append([]lang.Stmt{}, xPre...), yPre...)
		return pre, lang.NewBinary(n.Line(), n.Op, xNew, yNew)
	case *lang.UnaryExpr:
		xPre, xNew := desugarExpr(n.X, counter)
		if len(xPre) == 0 {
			return nil, n
		}
		return xPre, lang.NewUnary(n.Line(), n.Op, xNew)
	default:
		return nil, e
	}
}

// desugarShortCircuit turns `x && y` into:
//
//	__scN = x
//	if !__scN { } else { __scN = y }
//
// and `x || y` into the mirror image (cond without the negation). The
// temporary's final value is exactly the short-circuit's result, and the
// if/else carries the jump that gets marked as a branch by the ordinary
// markIf pass that runs afterward.
func desugarShortCircuit(n *lang.BinaryExpr, counter *int) ([]lang.Stmt, lang.Expr) {
	line := n.Line()
	xPre, xNew := desugarExpr(n.X, counter)
	name := fmt.Sprintf("__sc%d", *counter)
	*counter++
	assignX := lang.NewAssign(line, name, xNew)

	yPre, yNew := desugarExpr(n.Y, counter)
	assignY := lang.NewAssign(line, name, yNew)
	yStmts := append(append([]lang.Stmt{}, yPre...), assignY)

	var cond lang.Expr = lang.NewIdent(line, name)
	if n.Op == "&&" {
		cond = lang.NewUnary(line, "!", lang.NewIdent(line, name))
	}
	ifStmt := lang.NewIf(line, cond, []lang.Stmt{}, yStmts)

	pre := append(append([]lang.Stmt{}, xPre...), assignX, ifStmt)
	return pre, lang.NewIdent(line, name)
}
