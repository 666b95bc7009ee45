package compiler

import (
	"strconv"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Constant type inference
// ---------------------------------------------------------------------------

// InferConstant infers the kind and value of an expression from the tree.
// Literals are int, identifiers take their recorded value when that value is
// an int, and arithmetic on two ints is computed. Division by zero yields 0.
// Anything else is {unknown, ??}.
func InferConstant(e Expr, table *SymbolTable) Symbol {
	switch e := e.(type) {
	case *IntLiteral:
		return intSymbol(e.Value)
	case *Identifier:
		sym := table.Lookup(e.Name)
		if !sym.IsInt() {
			return unknownSymbol
		}
		return sym
	case *ParenExpr:
		return InferConstant(e.Inner, table)
	case *BinaryExpr:
		if !e.IsArithmetic() {
			return unknownSymbol
		}
		left := InferConstant(e.Left, table)
		right := InferConstant(e.Right, table)
		if !left.IsInt() || !right.IsInt() {
			return unknownSymbol
		}
		return combineInts(left.Value, e.Op, right.Value)
	}
	return unknownSymbol
}

// InferConstantText infers a value by re-scanning expression text. After
// stripping whitespace and one enclosing pair of parentheses it tries a
// declared variable, then an integer, then splits at the last occurrence of
// each of * / + - in that order. The split ignores precedence, so
// "2*3+4" infers 14; InferConstant is the tree-based replacement.
func InferConstantText(text string, table *SymbolTable) Symbol {
	trimmed := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if trimmed == "" {
		return unknownSymbol
	}

	if enclosedInParens(trimmed) {
		return InferConstantText(trimmed[1:len(trimmed)-1], table)
	}

	if table.IsDeclared(trimmed) {
		sym := table.Lookup(trimmed)
		if !sym.IsInt() {
			return unknownSymbol
		}
		return sym
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intSymbol(n)
	}

	for _, op := range []string{"*", "/", "+", "-"} {
		pos := strings.LastIndex(trimmed, op)
		if pos < 0 {
			continue
		}
		left := InferConstantText(trimmed[:pos], table)
		right := InferConstantText(trimmed[pos+1:], table)
		if left.IsInt() && right.IsInt() {
			return combineInts(left.Value, op, right.Value)
		}
	}
	return unknownSymbol
}

// enclosedInParens reports whether s starts with '(' whose matching ')' is
// the final character.
func enclosedInParens(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func intSymbol(n int64) Symbol {
	return Symbol{Kind: KindInt, Value: strconv.FormatInt(n, 10)}
}

func combineInts(leftText, op, rightText string) Symbol {
	l, err := strconv.ParseInt(leftText, 10, 64)
	if err != nil {
		return unknownSymbol
	}
	r, err := strconv.ParseInt(rightText, 10, 64)
	if err != nil {
		return unknownSymbol
	}
	var res int64
	switch op {
	case "+":
		res = l + r
	case "-":
		res = l - r
	case "*":
		res = l * r
	case "/":
		if r != 0 {
			res = l / r
		}
	default:
		return unknownSymbol
	}
	return intSymbol(res)
}
