package compiler

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Codegen: Compile AST to textual stack bytecode
// ---------------------------------------------------------------------------

// Opcode mnemonics shared with the executor.
const (
	InstrPush  = "PUSH"
	InstrLoad  = "LOAD"
	InstrStore = "STORE"
	InstrSwap  = "SWAP"
	InstrPrint = "PRINT"
	InstrIf    = "IF"
	InstrWhile = "WHILE"
)

var arithmeticInstr = map[string]string{
	"+": "ADD",
	"-": "SUB",
	"*": "MUL",
	"/": "DIV",
}

// Placeholders produced by the print evaluator.
const (
	placeholderExpression = "[expression evaluated]"
	placeholderUndeclared = "[undeclared variable: %s]"
)

// Generator translates a checked program into bytecode. It reads the symbol
// table filled in by the semantic checker.
type Generator struct {
	table *SymbolTable
	fold  FoldTable

	code        []string
	finalOutput []string
}

// NewGenerator creates a generator reading from table.
func NewGenerator(table *SymbolTable) *Generator {
	return &Generator{table: table}
}

// SetFoldTable makes the generator emit PUSH for nodes with a cached fold.
func (g *Generator) SetFoldTable(fold FoldTable) {
	g.fold = fold
}

// Bytecode returns the instructions emitted so far.
func (g *Generator) Bytecode() []string {
	return g.code
}

// FinalOutput returns one evaluated value per print statement.
func (g *Generator) FinalOutput() []string {
	return g.finalOutput
}

func (g *Generator) emit(instr string) {
	g.code = append(g.code, instr)
}

func (g *Generator) emitf(format string, args ...interface{}) {
	g.emit(fmt.Sprintf(format, args...))
}

// Generate emits code for every statement of prog in order.
func (g *Generator) Generate(prog *Program) []string {
	g.generateStatements(prog.Statements)
	return g.code
}

func (g *Generator) generateStatements(stmts []Stmt) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)
	}
}

func (g *Generator) generateStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *DeclAssign:
		g.generateExpr(s.Value)
		g.emitf("%s %s", InstrStore, s.Name)
	case *ReAssign:
		g.generateExpr(s.Value)
		g.emitf("%s %s", InstrStore, s.Name)
	case *AssignOp:
		// LOAD leaves the variable as the left operand and the value on top
		// as the right one, so the operator computes x op value. SWAP only
		// marks the pair.
		g.emitf("%s %s", InstrLoad, s.Name)
		g.generateExpr(s.Value)
		g.emit(InstrSwap)
		g.emit(arithmeticInstr[s.Op])
		g.emitf("%s %s", InstrStore, s.Name)
	case *FuncDecl:
		g.emitf("// Function declared: %s(%d)", s.Name, len(s.Params))
	case *Print:
		g.emit("// Printing value")
		g.generateExpr(s.Value)
		g.emit(InstrPrint)
		g.finalOutput = append(g.finalOutput, g.evaluateExpr(s.Value))
	case *If:
		cond := s.Cond.Text()
		g.emitf("// If condition: %s", cond)
		g.emitf("%s %s", InstrIf, cond)
		g.generateStatements(s.Body)
	case *While:
		cond := s.Cond.Text()
		g.emitf("// While loop condition: %s", cond)
		g.emitf("%s %s", InstrWhile, cond)
		g.generateStatements(s.Body)
	}
}

// generateExpr emits operands before their operator, so every binary node
// leaves exactly one value on the stack.
func (g *Generator) generateExpr(e Expr) {
	switch n := e.(type) {
	case *IntLiteral:
		g.emitf("%s %s", InstrPush, n.Literal)
	case *Identifier:
		g.emitf("%s %s", InstrLoad, n.Name)
	case *ParenExpr:
		g.generateExpr(n.Inner)
	case *BinaryExpr:
		if v, ok := g.fold[n]; ok {
			g.emitf("%s %s", InstrPush, v)
			return
		}
		g.generateExpr(n.Left)
		g.generateExpr(n.Right)
		if instr, ok := arithmeticInstr[n.Op]; ok {
			g.emit(instr)
		}
	}
}

// evaluateExpr resolves a printed value without running the program.
// Literals are returned as written and variables through the symbol table;
// any compound expression gets a placeholder.
func (g *Generator) evaluateExpr(e Expr) string {
	switch n := e.(type) {
	case *IntLiteral:
		return n.Literal
	case *Identifier:
		if !g.table.IsDeclared(n.Name) {
			return fmt.Sprintf(placeholderUndeclared, n.Name)
		}
		return g.table.Lookup(n.Name).Value
	}
	return placeholderExpression
}

// ---------------------------------------------------------------------------
// Flat traversal
// ---------------------------------------------------------------------------

// GenerateFlat is the simplified entry point that only understands
// assignments and prints of a single literal or variable, emitting a
// PUSH/LOAD and STORE/PRINT pair for each. Other statements are skipped;
// conditional and loop bodies are walked.
func GenerateFlat(prog *Program) []string {
	var code []string
	var walk func([]Stmt)
	walk = func(stmts []Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *DeclAssign:
				code = appendFlatAssign(code, s.Name, s.Value)
			case *ReAssign:
				code = appendFlatAssign(code, s.Name, s.Value)
			case *Print:
				if operand, ok := flatOperand(s.Value); ok {
					code = append(code, operand, InstrPrint)
				} else {
					log.Debugf("flat traversal: skipping print of %s", s.Value.Text())
				}
			case *If:
				walk(s.Body)
			case *While:
				walk(s.Body)
			}
		}
	}
	walk(prog.Statements)
	return code
}

func appendFlatAssign(code []string, name string, value Expr) []string {
	operand, ok := flatOperand(value)
	if !ok {
		log.Debugf("flat traversal: skipping assignment to %s", name)
		return code
	}
	return append(code, operand, InstrStore+" "+name)
}

func flatOperand(e Expr) (string, bool) {
	switch n := e.(type) {
	case *IntLiteral:
		return InstrPush + " " + n.Literal, true
	case *Identifier:
		return InstrLoad + " " + n.Name, true
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Output derived from LOAD instructions
// ---------------------------------------------------------------------------

// FinalOutputFromLoads derives one value per PRINT from the nearest
// preceding LOAD operand. A PRINT with no earlier LOAD contributes nothing.
// For compound expressions this can disagree with the evaluator's output.
func FinalOutputFromLoads(code []string) []string {
	var out []string
	for i, instr := range code {
		if strings.TrimSpace(instr) != InstrPrint {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if name, ok := strings.CutPrefix(code[j], InstrLoad+" "); ok {
				out = append(out, strings.TrimSpace(name))
				break
			}
		}
	}
	return out
}
