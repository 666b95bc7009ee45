package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/compiler/hash"
	"github.com/chazu/bcgen/manifest"
	"github.com/chazu/bcgen/store"
	"github.com/chazu/bcgen/vm/dist"
)

func testDriver(t *testing.T) (*driver, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := manifest.Default()
	cfg.Dir = dir
	cfg.Output.Dir = "out"
	return newDriver(cfg, compiler.FoldNone, &bytes.Buffer{}), dir
}

func writeInput(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "out", name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func TestProcessFileSuccess(t *testing.T) {
	d, dir := testDriver(t)
	d.run = true
	path := writeInput(t, dir, "input1.txt", "int a = 2 + 3;\nprint a;\n")

	status, err := d.processFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if status != store.StatusOK {
		t.Errorf("status = %s, want ok", status)
	}

	wantBytecode := "GENERATED BYTECODE:\nPUSH 2\nPUSH 3\nADD\nSTORE a\n// Printing value\nLOAD a\nPRINT\n"
	if got := readArtifact(t, dir, "input1_bytecode_output.txt"); got != wantBytecode {
		t.Errorf("bytecode file = %q, want %q", got, wantBytecode)
	}
	if got := readArtifact(t, dir, "input1_final_output.txt"); got != "5\n" {
		t.Errorf("final output = %q", got)
	}
	if got := readArtifact(t, dir, "input1_load_output.txt"); got != "a\n" {
		t.Errorf("load output = %q", got)
	}
	if got := readArtifact(t, dir, "input1_errors.txt"); got != "" {
		t.Errorf("errors = %q, want empty", got)
	}
	if got := readArtifact(t, dir, "input1_symbol_table.txt"); !strings.Contains(got, "- a (int) = 5\n") {
		t.Errorf("symbol table = %q", got)
	}
	tokens := readArtifact(t, dir, "input1_token_list.txt")
	if !strings.HasPrefix(tokens, "Token: int | Type: INT_TYPE\nToken: a | Type: ID\n") {
		t.Errorf("token list starts %q", tokens)
	}
	if !strings.HasSuffix(tokens, "Token: <EOF> | Type: EOF\n") {
		t.Errorf("token list should end with EOF: %q", tokens)
	}
	if got := readArtifact(t, dir, "input1_run_output.txt"); !strings.HasPrefix(got, "5\nExecution completed successfully") {
		t.Errorf("run output = %q", got)
	}

	b, err := dist.ReadFile(filepath.Join(dir, "out", "input1.bcb"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "input1" || b.Fold != "none" || len(b.Bytecode) != 7 {
		t.Errorf("bundle = %+v", b)
	}
	prog, _ := compiler.Parse("int a = 2+3; print a;")
	if b.SourceHash != hash.HashProgram(prog) {
		t.Error("bundle source hash should ignore layout")
	}
}

func TestProcessFileSyntaxError(t *testing.T) {
	d, dir := testDriver(t)
	path := writeInput(t, dir, "bad.txt", "int a = ;\n")

	status, err := d.processFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if status != store.StatusSyntaxError {
		t.Errorf("status = %s, want syntax_error", status)
	}
	if got := readArtifact(t, dir, "bad_errors.txt"); !strings.HasPrefix(got, "line 1:") {
		t.Errorf("errors = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "bad_bytecode_output.txt")); !os.IsNotExist(err) {
		t.Error("no bytecode file should be written after a syntax error")
	}
	if got := readArtifact(t, dir, "bad_run_output.txt"); !strings.Contains(got, "Skipping bytecode generation") {
		t.Errorf("run output = %q", got)
	}
}

func TestProcessFileSemanticError(t *testing.T) {
	d, dir := testDriver(t)
	path := writeInput(t, dir, "sem.txt", "int a = 1;\nb = a;\n")

	status, err := d.processFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if status != store.StatusSemanticError {
		t.Errorf("status = %s, want semantic_error", status)
	}
	want := "line 2, column 1: Variable 'b' used before declaration.\n"
	if got := readArtifact(t, dir, "sem_errors.txt"); got != want {
		t.Errorf("errors = %q, want %q", got, want)
	}
	symbols := readArtifact(t, dir, "sem_symbol_table.txt")
	if !strings.HasPrefix(symbols, "Semantic Errors:\n"+want+"\nDeclared Variables") {
		t.Errorf("symbol table = %q", symbols)
	}
}

func TestProcessFileRuntimeFault(t *testing.T) {
	d, dir := testDriver(t)
	d.run = true
	path := writeInput(t, dir, "div.txt", "print 1;\nint x = 4 / 0;\n")

	status, err := d.processFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if status != store.StatusRuntimeFault {
		t.Errorf("status = %s, want runtime_fault", status)
	}
	if got := readArtifact(t, dir, "div_errors.txt"); !strings.Contains(got, "division by zero") {
		t.Errorf("errors = %q", got)
	}
	if got := readArtifact(t, dir, "div_run_output.txt"); !strings.HasPrefix(got, "1\n") {
		t.Errorf("run output = %q", got)
	}
}

func TestProcessAllRecordsRuns(t *testing.T) {
	d, dir := testDriver(t)
	runs, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer runs.Close()
	d.runs = runs

	paths := []string{
		writeInput(t, dir, "one.txt", "int a = 1;\nprint a;\n"),
		writeInput(t, dir, "two.txt", "int a = 1;\nprint a;\n"),
		writeInput(t, dir, "three.txt", "x = 1;\n"),
		filepath.Join(dir, "missing.txt"),
	}
	if failed := d.processAll(paths); failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}

	counts, err := runs.CountByStatus()
	if err != nil {
		t.Fatal(err)
	}
	if counts[store.StatusOK] != 2 || counts[store.StatusSemanticError] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if d.bundles.Len() != 1 {
		t.Errorf("identical programs should share one bundle, got %d", d.bundles.Len())
	}
	if out := d.out.(*bytes.Buffer).String(); !strings.Contains(out, "Bytecode identical to one") {
		t.Errorf("duplicate not reported in output:\n%s", out)
	}
}

func TestArtifactToggles(t *testing.T) {
	d, dir := testDriver(t)
	d.cfg.Output.Tokens = false
	d.cfg.Output.Bundle = false
	path := writeInput(t, dir, "p.txt", "print 3;\n")

	if _, err := d.processFile(path); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"p_token_list.txt", "p.bcb"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); !os.IsNotExist(err) {
			t.Errorf("%s should not be written", name)
		}
	}
}

func TestFormatLines(t *testing.T) {
	if got := formatLines(nil); got != "" {
		t.Errorf("formatLines(nil) = %q", got)
	}
	if got := formatLines([]string{"a", "b"}); got != "a\nb\n" {
		t.Errorf("formatLines = %q", got)
	}
}
