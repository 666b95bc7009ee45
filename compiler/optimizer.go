package compiler

import "strconv"

// ---------------------------------------------------------------------------
// Optimizer: constant folding
// ---------------------------------------------------------------------------

// FoldTable caches the folded value of binary nodes whose operands are both
// integer literals. Nodes that cannot be folded have no entry.
type FoldTable map[*BinaryExpr]string

// BuildFoldTable records a folded value for every arithmetic node in prog
// whose two direct children are integer literals. Division by zero is
// skipped.
func BuildFoldTable(prog *Program) FoldTable {
	table := make(FoldTable)
	Inspect(prog, func(n Node) bool {
		bin, ok := n.(*BinaryExpr)
		if !ok || !bin.IsArithmetic() {
			return true
		}
		left, lok := bin.Left.(*IntLiteral)
		right, rok := bin.Right.(*IntLiteral)
		if !lok || !rok {
			return true
		}
		if v, ok := foldInts(left.Value, bin.Op, right.Value); ok {
			table[bin] = strconv.FormatInt(v, 10)
			log.Debugf("fold table: %s => %d", bin.Text(), v)
		}
		return true
	})
	return table
}

// Fold returns e with every constant arithmetic subtree replaced by a
// literal. Children are folded first. The input is never modified: changed
// subtrees are copied, and e itself is returned when nothing folds, so
// folding an already folded tree returns the same tree.
func Fold(e Expr) Expr {
	switch n := e.(type) {
	case *ParenExpr:
		inner := Fold(n.Inner)
		if lit, ok := inner.(*IntLiteral); ok {
			return &IntLiteral{SpanVal: n.SpanVal, Literal: lit.Literal, Value: lit.Value}
		}
		if inner == n.Inner {
			return n
		}
		return &ParenExpr{SpanVal: n.SpanVal, Inner: inner}

	case *BinaryExpr:
		left := Fold(n.Left)
		right := Fold(n.Right)
		if n.IsArithmetic() {
			l, lok := left.(*IntLiteral)
			r, rok := right.(*IntLiteral)
			if lok && rok {
				if v, ok := foldInts(l.Value, n.Op, r.Value); ok {
					log.Debugf("fold: %s => %d", n.Text(), v)
					return &IntLiteral{
						SpanVal: n.SpanVal,
						Literal: strconv.FormatInt(v, 10),
						Value:   v,
					}
				}
			}
		}
		if left == n.Left && right == n.Right {
			return n
		}
		return &BinaryExpr{SpanVal: n.SpanVal, Left: left, Op: n.Op, Right: right}
	}
	return e
}

// FoldProgram applies Fold to every expression in prog. Statements whose
// expressions did not change are shared with the input.
func FoldProgram(prog *Program) *Program {
	stmts, changed := foldStmts(prog.Statements)
	if !changed {
		return prog
	}
	return &Program{SpanVal: prog.SpanVal, Statements: stmts}
}

func foldStmts(in []Stmt) ([]Stmt, bool) {
	out := make([]Stmt, len(in))
	changed := false
	for i, stmt := range in {
		out[i] = foldStmt(stmt)
		if out[i] != stmt {
			changed = true
		}
	}
	return out, changed
}

func foldStmt(stmt Stmt) Stmt {
	switch s := stmt.(type) {
	case *DeclAssign:
		if v := Fold(s.Value); v != s.Value {
			return &DeclAssign{SpanVal: s.SpanVal, Name: s.Name, Value: v}
		}
	case *ReAssign:
		if v := Fold(s.Value); v != s.Value {
			return &ReAssign{SpanVal: s.SpanVal, Name: s.Name, Value: v}
		}
	case *AssignOp:
		if v := Fold(s.Value); v != s.Value {
			return &AssignOp{SpanVal: s.SpanVal, Name: s.Name, Op: s.Op, Value: v}
		}
	case *Print:
		if v := Fold(s.Value); v != s.Value {
			return &Print{SpanVal: s.SpanVal, Value: v}
		}
	case *If:
		cond := Fold(s.Cond)
		body, changed := foldStmts(s.Body)
		if cond != s.Cond || changed {
			return &If{SpanVal: s.SpanVal, Cond: cond, Body: body}
		}
	case *While:
		cond := Fold(s.Cond)
		body, changed := foldStmts(s.Body)
		if cond != s.Cond || changed {
			return &While{SpanVal: s.SpanVal, Cond: cond, Body: body}
		}
	}
	return stmt
}

// foldInts computes l op r. It reports false for division by zero and
// unsupported operators.
func foldInts(l int64, op string, r int64) (int64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}
