package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bcgen.compiler")

// ---------------------------------------------------------------------------
// Semantic Checker: declarations, assignments and constant inference
// ---------------------------------------------------------------------------

// SemanticChecker walks a program in document order, populating the symbol
// table and accumulating diagnostics. It does not stop at the first error.
type SemanticChecker struct {
	table  *SymbolTable
	errors []string
}

// NewSemanticChecker creates a checker that records into table.
func NewSemanticChecker(table *SymbolTable) *SemanticChecker {
	return &SemanticChecker{table: table}
}

// Errors returns accumulated diagnostics.
func (c *SemanticChecker) Errors() []string {
	return c.errors
}

// HasErrors reports whether any diagnostic was recorded.
func (c *SemanticChecker) HasErrors() bool {
	return len(c.errors) > 0
}

// errorAt records an error with position information.
func (c *SemanticChecker) errorAt(node Node, format string, args ...interface{}) {
	pos := node.Span().Start
	msg := fmt.Sprintf("line %d, column %d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
	c.errors = append(c.errors, msg)
}

// Check analyzes every statement of prog and returns the diagnostics.
func (c *SemanticChecker) Check(prog *Program) []string {
	for _, stmt := range prog.Statements {
		c.checkStmt(stmt)
	}
	return c.errors
}

func (c *SemanticChecker) checkStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *DeclAssign:
		c.checkDecl(s)
	case *ReAssign:
		c.checkReAssign(s)
	case *AssignOp:
		c.checkValue(s.Value)
		if !c.table.IsDeclared(s.Name) {
			c.errorAt(s, "Variable '%s' used before declaration.", s.Name)
		}
	case *FuncDecl:
		if c.table.IsFunctionDeclared(s.Name) {
			c.errorAt(s, "Function '%s' is already declared.", s.Name)
			return
		}
		c.table.DeclareFunction(s.Name, s.ReturnType, len(s.Params))
		log.Infof("declared function %s(%d)", s.Name, len(s.Params))
	case *Print:
		c.checkValue(s.Value)
	case *If:
		c.checkBody(s.Body)
	case *While:
		c.checkBody(s.Body)
	}
}

func (c *SemanticChecker) checkBody(body []Stmt) {
	for _, stmt := range body {
		c.checkStmt(stmt)
	}
}

func (c *SemanticChecker) checkDecl(s *DeclAssign) {
	c.checkValue(s.Value)
	if c.table.IsDeclared(s.Name) {
		c.errorAt(s, "Variable '%s' is already declared.", s.Name)
		return
	}

	sym := InferConstant(s.Value, c.table)
	if !sym.IsInt() {
		c.errorAt(s, "Cannot infer type of '%s' for variable '%s'.", s.Value.Text(), s.Name)
		c.table.DeclareVariable(s.Name, KindUnknown, UnknownValue)
		return
	}
	c.table.DeclareVariable(s.Name, sym.Kind, sym.Value)
	log.Infof("declared %s = %s (%s)", s.Name, s.Value.Text(), sym.Kind)
}

func (c *SemanticChecker) checkReAssign(s *ReAssign) {
	c.checkValue(s.Value)
	if !c.table.IsDeclared(s.Name) {
		c.errorAt(s, "Variable '%s' used before declaration.", s.Name)
		return
	}

	sym := InferConstant(s.Value, c.table)
	if sym.IsInt() {
		c.table.UpdateValue(s.Name, sym.Value)
	}
	log.Infof("reassigned %s = %s", s.Name, s.Value.Text())
}

// checkValue rejects comparisons outside if/while conditions.
func (c *SemanticChecker) checkValue(e Expr) {
	Inspect(e, func(n Node) bool {
		if bin, ok := n.(*BinaryExpr); ok && !bin.IsArithmetic() {
			c.errorAt(bin, "Comparison '%s' is only allowed in a condition.", bin.Text())
			return false
		}
		return true
	})
}
