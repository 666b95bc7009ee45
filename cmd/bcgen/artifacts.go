package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/manifest"
	"github.com/chazu/bcgen/vm/dist"
)

// Artifact file suffixes, appended to "<base>_".
const (
	tokensFile      = "token_list.txt"
	bytecodeFile    = "bytecode_output.txt"
	symbolsFile     = "symbol_table.txt"
	errorsFile      = "errors.txt"
	finalOutputFile = "final_output.txt"
	loadOutputFile  = "load_output.txt"
	runOutputFile   = "run_output.txt"
	bundleExt       = ".bcb"
)

// artifactWriter writes the files produced for one compilation unit.
type artifactWriter struct {
	cfg    *manifest.Manifest
	prefix string
}

func newArtifactWriter(cfg *manifest.Manifest, base string) *artifactWriter {
	return &artifactWriter{cfg: cfg, prefix: base + "_"}
}

func (w *artifactWriter) path(suffix string) string {
	return w.cfg.OutputPath(w.prefix + suffix)
}

func (w *artifactWriter) write(enabled bool, suffix, content string) error {
	if !enabled {
		return nil
	}
	path := w.path(suffix)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (w *artifactWriter) tokens(tokens []compiler.Token) error {
	return w.write(w.cfg.Output.Tokens, tokensFile, formatTokens(tokens))
}

func (w *artifactWriter) bytecode(code []string) error {
	return w.write(w.cfg.Output.Bytecode, bytecodeFile, formatBytecode(code))
}

func (w *artifactWriter) symbols(diagnostics []string, table *compiler.SymbolTable) error {
	return w.write(w.cfg.Output.Symbols, symbolsFile, formatSymbols(diagnostics, table))
}

func (w *artifactWriter) errors(msgs []string) error {
	return w.write(w.cfg.Output.Errors, errorsFile, formatLines(msgs))
}

func (w *artifactWriter) finalOutput(res *compiler.Result) error {
	if err := w.write(w.cfg.Output.FinalOutput, finalOutputFile, formatLines(res.FinalOutput)); err != nil {
		return err
	}
	return w.write(w.cfg.Output.FinalOutput, loadOutputFile, formatLines(res.LoadOutput))
}

func (w *artifactWriter) runOutput(lines []string) error {
	return w.write(true, runOutputFile, formatLines(lines))
}

func (w *artifactWriter) bundle(b *dist.Bundle) error {
	if !w.cfg.Output.Bundle {
		return nil
	}
	path := w.cfg.OutputPath(strings.TrimSuffix(w.prefix, "_") + bundleExt)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return dist.WriteFile(path, b)
}

// formatTokens renders one "Token: <text> | Type: <TYPE>" line per token.
func formatTokens(tokens []compiler.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		text := tok.Literal
		if tok.Type == compiler.TokenEOF {
			text = "<EOF>"
		}
		fmt.Fprintf(&sb, "Token: %s | Type: %s\n", text, tok.Type)
	}
	return sb.String()
}

func formatBytecode(code []string) string {
	return "GENERATED BYTECODE:\n" + formatLines(code)
}

// formatSymbols lists the diagnostics, if any, ahead of the table dump.
func formatSymbols(diagnostics []string, table *compiler.SymbolTable) string {
	var sb strings.Builder
	if len(diagnostics) > 0 {
		sb.WriteString("Semantic Errors:\n")
		sb.WriteString(formatLines(diagnostics))
		sb.WriteByte('\n')
	}
	sb.WriteString(table.String())
	return sb.String()
}

func formatLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
