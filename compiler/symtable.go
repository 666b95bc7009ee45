package compiler

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Symbol kinds recorded for variables.
const (
	KindInt     = "int"
	KindUnknown = "unknown"
)

// UnknownValue is the textual value of anything whose value cannot be inferred.
const UnknownValue = "??"

// Symbol is a named entity's kind and current textual value. For functions
// Kind holds the return type and Value the parameter count.
type Symbol struct {
	Kind  string
	Value string
}

// unknownSymbol is returned for lookups of undeclared names.
var unknownSymbol = Symbol{Kind: KindUnknown, Value: UnknownValue}

// IsInt reports whether the symbol holds an inferred integer.
func (s Symbol) IsInt() bool {
	return s.Kind == KindInt
}

// SymbolTable maps variable and function names to their symbols. One table
// is created per compilation unit and threaded through checking and code
// generation. It is not safe for concurrent use.
type SymbolTable struct {
	variables map[string]Symbol
	functions map[string]Symbol
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		variables: make(map[string]Symbol),
		functions: make(map[string]Symbol),
	}
}

// DeclareVariable inserts or overwrites a variable. Callers enforce the
// no-redeclaration rule with IsDeclared.
func (s *SymbolTable) DeclareVariable(name, kind, value string) {
	s.variables[name] = Symbol{Kind: kind, Value: value}
}

// Clone returns an independent copy of the table.
func (s *SymbolTable) Clone() *SymbolTable {
	return &SymbolTable{
		variables: maps.Clone(s.variables),
		functions: maps.Clone(s.functions),
	}
}

// IsDeclared reports whether a variable exists.
func (s *SymbolTable) IsDeclared(name string) bool {
	_, ok := s.variables[name]
	return ok
}

// UpdateValue replaces the value of a declared variable, keeping its kind.
// Undeclared names are ignored.
func (s *SymbolTable) UpdateValue(name, value string) {
	sym, ok := s.variables[name]
	if !ok {
		return
	}
	sym.Value = value
	s.variables[name] = sym
}

// DeclareFunction records a function's return type and parameter count.
func (s *SymbolTable) DeclareFunction(name, returnType string, paramCount int) {
	s.functions[name] = Symbol{Kind: returnType, Value: fmt.Sprint(paramCount)}
}

// IsFunctionDeclared reports whether a function exists.
func (s *SymbolTable) IsFunctionDeclared(name string) bool {
	_, ok := s.functions[name]
	return ok
}

// Lookup returns the variable symbol, or {unknown, ??} when absent.
func (s *SymbolTable) Lookup(name string) Symbol {
	if sym, ok := s.variables[name]; ok {
		return sym
	}
	return unknownSymbol
}

// LookupFunction returns the function symbol and whether it was found.
func (s *SymbolTable) LookupFunction(name string) (Symbol, bool) {
	sym, ok := s.functions[name]
	return sym, ok
}

// Variables returns the declared variable names in sorted order.
func (s *SymbolTable) Variables() []string {
	return sortedNames(s.variables)
}

// Functions returns the declared function names in sorted order.
func (s *SymbolTable) Functions() []string {
	return sortedNames(s.functions)
}

// IntValues returns every variable whose kind is int, keyed by name.
func (s *SymbolTable) IntValues() map[string]string {
	out := make(map[string]string)
	for name, sym := range s.variables {
		if sym.IsInt() {
			out[name] = sym.Value
		}
	}
	return out
}

func sortedNames(m map[string]Symbol) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	sb.WriteString("Declared Variables (with types and values):\n")
	for _, name := range s.Variables() {
		sym := s.variables[name]
		fmt.Fprintf(&sb, "- %s (%s) = %s\n", name, sym.Kind, sym.Value)
	}

	sb.WriteString("\nDeclared Functions (with types and parameter count):\n")
	for _, name := range s.Functions() {
		sym := s.functions[name]
		fmt.Fprintf(&sb, "- %s (%s) with %s parameters\n", name, sym.Kind, sym.Value)
	}
	return sb.String()
}

// Report renders diagnostics followed by the variable listing, one
// "name | kind | value" row per variable.
func (s *SymbolTable) Report(diagnostics []string) string {
	var sb strings.Builder
	for _, d := range diagnostics {
		sb.WriteString(d)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nDeclared Variables:\n")
	for _, name := range s.Variables() {
		sym := s.variables[name]
		fmt.Fprintf(&sb, "- %s | %s | %s\n", name, sym.Kind, sym.Value)
	}
	return sb.String()
}
