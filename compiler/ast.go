package compiler

// ---------------------------------------------------------------------------
// AST: one tree shared by checking, folding and code generation
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	// Text renders the expression the way the source spelled it, with all
	// whitespace removed.
	Text() string
	expr() // marker method
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	SpanVal Span
	Literal string // source text, e.g. "-5"
	Value   int64
}

func (n *IntLiteral) Span() Span   { return n.SpanVal }
func (n *IntLiteral) Text() string { return n.Literal }
func (n *IntLiteral) node()        {}
func (n *IntLiteral) expr()        {}

// Identifier represents a variable reference.
type Identifier struct {
	SpanVal Span
	Name    string
}

func (n *Identifier) Span() Span   { return n.SpanVal }
func (n *Identifier) Text() string { return n.Name }
func (n *Identifier) node()        {}
func (n *Identifier) expr()        {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	SpanVal Span
	Inner   Expr
}

func (n *ParenExpr) Span() Span   { return n.SpanVal }
func (n *ParenExpr) Text() string { return "(" + n.Inner.Text() + ")" }
func (n *ParenExpr) node()        {}
func (n *ParenExpr) expr()        {}

// BinaryExpr represents "left op right". Op is one of + - * / for
// arithmetic, or a comparison operator inside a condition.
type BinaryExpr struct {
	SpanVal Span
	Left    Expr
	Op      string
	Right   Expr
}

func (n *BinaryExpr) Span() Span   { return n.SpanVal }
func (n *BinaryExpr) Text() string { return n.Left.Text() + n.Op + n.Right.Text() }
func (n *BinaryExpr) node()        {}
func (n *BinaryExpr) expr()        {}

// IsArithmetic reports whether the node is an additive or multiplicative operation.
func (n *BinaryExpr) IsArithmetic() bool {
	switch n.Op {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// DeclAssign represents "int name = value;".
type DeclAssign struct {
	SpanVal Span
	Name    string
	Value   Expr
}

func (n *DeclAssign) Span() Span { return n.SpanVal }
func (n *DeclAssign) node()      {}
func (n *DeclAssign) stmt()      {}

// FuncDecl represents "int name(a, b);". Functions are recorded but never called.
type FuncDecl struct {
	SpanVal    Span
	Name       string
	ReturnType string
	Params     []string
}

func (n *FuncDecl) Span() Span { return n.SpanVal }
func (n *FuncDecl) node()      {}
func (n *FuncDecl) stmt()      {}

// ReAssign represents "name = value;".
type ReAssign struct {
	SpanVal Span
	Name    string
	Value   Expr
}

func (n *ReAssign) Span() Span { return n.SpanVal }
func (n *ReAssign) node()      {}
func (n *ReAssign) stmt()      {}

// AssignOp represents "name op= value;".
type AssignOp struct {
	SpanVal Span
	Name    string
	Op      string // + - * /
	Value   Expr
}

func (n *AssignOp) Span() Span { return n.SpanVal }
func (n *AssignOp) node()      {}
func (n *AssignOp) stmt()      {}

// Print represents "print value;".
type Print struct {
	SpanVal Span
	Value   Expr
}

func (n *Print) Span() Span { return n.SpanVal }
func (n *Print) node()      {}
func (n *Print) stmt()      {}

// If represents "if (cond) { body }".
type If struct {
	SpanVal Span
	Cond    Expr
	Body    []Stmt
}

func (n *If) Span() Span { return n.SpanVal }
func (n *If) node()      {}
func (n *If) stmt()      {}

// While represents "while (cond) { body }".
type While struct {
	SpanVal Span
	Cond    Expr
	Body    []Stmt
}

func (n *While) Span() Span { return n.SpanVal }
func (n *While) node()      {}
func (n *While) stmt()      {}

// ---------------------------------------------------------------------------
// Top-level structure
// ---------------------------------------------------------------------------

// Program represents a complete source file.
type Program struct {
	SpanVal    Span
	Statements []Stmt
}

func (n *Program) Span() Span { return n.SpanVal }
func (n *Program) node()      {}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// MakeSpan creates a span from start and end positions.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// Inspect traverses the tree rooted at n in document order, calling fn for
// every node. Children are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			Inspect(s, fn)
		}
	case *DeclAssign:
		Inspect(n.Value, fn)
	case *ReAssign:
		Inspect(n.Value, fn)
	case *AssignOp:
		Inspect(n.Value, fn)
	case *Print:
		Inspect(n.Value, fn)
	case *If:
		Inspect(n.Cond, fn)
		for _, s := range n.Body {
			Inspect(s, fn)
		}
	case *While:
		Inspect(n.Cond, fn)
		for _, s := range n.Body {
			Inspect(s, fn)
		}
	case *ParenExpr:
		Inspect(n.Inner, fn)
	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *IntLiteral, *Identifier, *FuncDecl:
		// leaves
	}
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n Node) int {
	count := 0
	Inspect(n, func(Node) bool {
		count++
		return true
	})
	return count
}
