package server

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/bcgen/compiler"
)

// analysis is what the server knows about one open document.
type analysis struct {
	tokens      []compiler.Token
	symbols     *compiler.SymbolTable // nil when the document does not parse
	diagnostics []protocol.Diagnostic
}

// analyze compiles text with a fresh table and converts every syntax and
// semantic error into an LSP diagnostic.
func analyze(text string) *analysis {
	res, err := compiler.Compile(text, compiler.Options{})
	a := &analysis{
		tokens:      res.Tokens,
		symbols:     res.Symbols,
		diagnostics: []protocol.Diagnostic{},
	}

	var (
		synErr *compiler.SyntaxError
		semErr *compiler.SemanticError
	)
	switch {
	case errors.As(err, &synErr):
		for _, msg := range synErr.Messages {
			a.diagnostics = append(a.diagnostics, newDiagnostic(msg, "syntax"))
		}
	case errors.As(err, &semErr):
		for _, msg := range semErr.Diagnostics {
			a.diagnostics = append(a.diagnostics, newDiagnostic(msg, "semantic"))
		}
	case err != nil:
		a.diagnostics = append(a.diagnostics, newDiagnostic(err.Error(), "bcgen"))
	}
	return a
}

var positionPrefix = regexp.MustCompile(`^line (\d+)(?:, column (\d+))?: `)

// splitPosition strips a "line L[, column C]: " prefix and returns the
// zero-based position it names.
func splitPosition(msg string) (protocol.Position, string) {
	m := positionPrefix.FindStringSubmatch(msg)
	if m == nil {
		return protocol.Position{}, msg
	}
	var pos protocol.Position
	if line, err := strconv.Atoi(m[1]); err == nil && line > 0 {
		pos.Line = protocol.UInteger(line - 1)
	}
	if m[2] != "" {
		if col, err := strconv.Atoi(m[2]); err == nil && col > 0 {
			pos.Character = protocol.UInteger(col - 1)
		}
	}
	return pos, msg[len(m[0]):]
}

func newDiagnostic(msg, source string) protocol.Diagnostic {
	pos, text := splitPosition(msg)
	severity := protocol.DiagnosticSeverityError
	src := lspName + "/" + source
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &src,
		Message:  text,
	}
}

var keywords = []string{"int", "print", "if", "while"}

func (a *analysis) complete(prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	add := func(label, detail string, kind protocol.CompletionItemKind) {
		if !strings.HasPrefix(label, prefix) {
			return
		}
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &label,
		})
	}

	if a.symbols != nil {
		for _, name := range a.symbols.Variables() {
			sym := a.symbols.Lookup(name)
			add(name, fmt.Sprintf("%s = %s", sym.Kind, sym.Value), protocol.CompletionItemKindVariable)
		}
		for _, name := range a.symbols.Functions() {
			sym, _ := a.symbols.LookupFunction(name)
			add(name, fmt.Sprintf("%s function, %s parameters", sym.Kind, sym.Value), protocol.CompletionItemKindFunction)
		}
	}
	for _, kw := range keywords {
		add(kw, "keyword", protocol.CompletionItemKindKeyword)
	}
	return items
}

func (a *analysis) hover(word string) *protocol.Hover {
	if a.symbols == nil {
		return nil
	}

	var value string
	switch {
	case a.symbols.IsDeclared(word):
		sym := a.symbols.Lookup(word)
		value = fmt.Sprintf("**%s** `%s`\n\nvalue: `%s`", word, sym.Kind, sym.Value)
	case a.symbols.IsFunctionDeclared(word):
		sym, _ := a.symbols.LookupFunction(word)
		value = fmt.Sprintf("**%s** function returning `%s`\n\nparameters: %s", word, sym.Kind, sym.Value)
	default:
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}
}

func tokenRange(tok compiler.Token) protocol.Range {
	start := protocol.Position{
		Line:      protocol.UInteger(max(tok.Pos.Line-1, 0)),
		Character: protocol.UInteger(max(tok.Pos.Column-1, 0)),
	}
	end := start
	end.Character += protocol.UInteger(len(tok.Literal))
	return protocol.Range{Start: start, End: end}
}

// definition returns the range of the identifier declared by "int word".
func (a *analysis) definition(word string) (protocol.Range, bool) {
	for i := 1; i < len(a.tokens); i++ {
		tok := a.tokens[i]
		if tok.Type == compiler.TokenIdentifier && tok.Literal == word && a.tokens[i-1].Type == compiler.TokenInt {
			return tokenRange(tok), true
		}
	}
	return protocol.Range{}, false
}

// references returns every occurrence of the identifier word.
func (a *analysis) references(word string) []protocol.Range {
	var ranges []protocol.Range
	for _, tok := range a.tokens {
		if tok.Type == compiler.TokenIdentifier && tok.Literal == word {
			ranges = append(ranges, tokenRange(tok))
		}
	}
	return ranges
}

// --- Text helpers ---

func isIdentRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := lines[pos.Line]
	return line, min(int(pos.Character), len(line)), true
}

// extractPrefix returns the identifier characters immediately left of pos.
func extractPrefix(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}
	start := col
	for start > 0 && isIdentRune(rune(line[start-1])) {
		start--
	}
	return line[start:col]
}

// extractWord returns the identifier under pos.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}
	start := col
	for start > 0 && isIdentRune(rune(line[start-1])) {
		start--
	}
	end := col
	for end < len(line) && isIdentRune(rune(line[end])) {
		end++
	}
	return line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
