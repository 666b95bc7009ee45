package compiler

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Pipeline: parse, check, fold, generate
// ---------------------------------------------------------------------------

// FoldMode selects how constant folding feeds code generation.
type FoldMode int

const (
	// FoldNone emits every operation as written.
	FoldNone FoldMode = iota
	// FoldCache consults a fold table for binary nodes with literal operands.
	FoldCache
	// FoldTree rewrites the tree before generation.
	FoldTree
)

var foldModeNames = map[FoldMode]string{
	FoldNone:  "none",
	FoldCache: "cache",
	FoldTree:  "tree",
}

func (m FoldMode) String() string {
	if name, ok := foldModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("FoldMode(%d)", int(m))
}

// ParseFoldMode parses "none", "cache" or "tree". The empty string is none.
func ParseFoldMode(s string) (FoldMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FoldNone, nil
	}
	for mode, name := range foldModeNames {
		if name == s {
			return mode, nil
		}
	}
	return FoldNone, fmt.Errorf("unknown fold mode %q (want none, cache or tree)", s)
}

// Options configure a compilation.
type Options struct {
	Fold FoldMode

	// Symbols is the table to check against. A fresh table is used when nil.
	Symbols *SymbolTable
}

// Stats summarizes the size of a compilation.
type Stats struct {
	Tokens       int
	Nodes        int
	Instructions int
}

// Result holds everything a compilation produced.
type Result struct {
	Tokens      []Token
	AST         *Program
	Symbols     *SymbolTable
	Diagnostics []string

	Bytecode    []string
	FinalOutput []string // one evaluated value per print
	LoadOutput  []string // one LOAD operand per PRINT
	Stats       Stats
}

// SyntaxError reports that the source could not be parsed.
type SyntaxError struct {
	Messages []string
}

func (e *SyntaxError) Error() string {
	return summarize("syntax error", e.Messages)
}

// SemanticError carries every diagnostic of a failed check.
type SemanticError struct {
	Diagnostics []string
}

func (e *SemanticError) Error() string {
	return summarize("semantic error", e.Diagnostics)
}

func summarize(kind string, msgs []string) string {
	switch len(msgs) {
	case 0:
		return kind
	case 1:
		return kind + ": " + msgs[0]
	}
	return fmt.Sprintf("%s: %s (and %d more)", kind, msgs[0], len(msgs)-1)
}

// Compile runs source through parsing, semantic checking and code
// generation. A parse failure returns a *SyntaxError; diagnostics return a
// *SemanticError and no bytecode. The partial result is returned in both
// cases.
func Compile(source string, opts Options) (*Result, error) {
	res := &Result{Tokens: Tokenize(source)}
	res.Stats.Tokens = len(res.Tokens)

	prog, errs := Parse(source)
	if len(errs) > 0 {
		log.Debugf("parse failed with %d errors", len(errs))
		return res, &SyntaxError{Messages: errs}
	}
	res.AST = prog
	res.Stats.Nodes = CountNodes(prog)

	table := opts.Symbols
	if table == nil {
		table = NewSymbolTable()
	}
	res.Symbols = table

	checker := NewSemanticChecker(table)
	res.Diagnostics = checker.Check(prog)
	if checker.HasErrors() {
		log.Infof("semantic check failed with %d diagnostics", len(res.Diagnostics))
		return res, &SemanticError{Diagnostics: res.Diagnostics}
	}

	gen := NewGenerator(table)
	switch opts.Fold {
	case FoldCache:
		gen.SetFoldTable(BuildFoldTable(prog))
	case FoldTree:
		prog = FoldProgram(prog)
	}
	res.Bytecode = gen.Generate(prog)
	res.FinalOutput = gen.FinalOutput()
	res.LoadOutput = FinalOutputFromLoads(res.Bytecode)
	res.Stats.Instructions = len(res.Bytecode)

	log.Infof("generated %d instructions (fold=%s)", len(res.Bytecode), opts.Fold)
	return res, nil
}
