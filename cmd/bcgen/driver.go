package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/compiler/hash"
	"github.com/chazu/bcgen/manifest"
	"github.com/chazu/bcgen/store"
	"github.com/chazu/bcgen/vm"
	"github.com/chazu/bcgen/vm/dist"
)

// driver compiles input files, each as an independent unit with its own
// symbol table and artifact prefix.
type driver struct {
	cfg     *manifest.Manifest
	fold    compiler.FoldMode
	run     bool
	runs    *store.RunLog // nil when the run log is disabled
	bundles *dist.Index
	out     io.Writer
}

func newDriver(cfg *manifest.Manifest, fold compiler.FoldMode, out io.Writer) *driver {
	return &driver{
		cfg:     cfg,
		fold:    fold,
		bundles: dist.NewIndex(),
		out:     out,
	}
}

// processAll processes every path and returns how many did not compile
// and run cleanly.
func (d *driver) processAll(paths []string) int {
	failed := 0
	for _, path := range paths {
		status, err := d.processFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed++
			continue
		}
		if status != store.StatusOK {
			failed++
		}
	}
	return failed
}

// processFile compiles one input file, writes its artifacts and returns
// the run status. Only I/O problems are returned as errors; compile and
// runtime failures are reported in the artifacts and the status.
func (d *driver) processFile(path string) (string, error) {
	fmt.Fprintf(d.out, "\nProcessing file: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(data)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w := newArtifactWriter(d.cfg, base)

	// Start from an empty errors file.
	if err := w.errors(nil); err != nil {
		return "", err
	}

	res, cerr := compiler.Compile(source, compiler.Options{Fold: d.fold})
	if err := w.tokens(res.Tokens); err != nil {
		return "", err
	}

	run := &store.Run{
		Name:   base,
		Source: source,
		Tokens: res.Stats.Tokens,
		Nodes:  res.Stats.Nodes,
	}
	var runOutput []string

	var (
		synErr *compiler.SyntaxError
		semErr *compiler.SemanticError
	)
	switch {
	case errors.As(cerr, &synErr):
		run.Status = store.StatusSyntaxError
		run.Diagnostics = synErr.Messages
		fmt.Fprintln(d.out, "Syntax errors found in input:")
		for _, msg := range synErr.Messages {
			fmt.Fprintln(d.out, "  "+msg)
		}
		runOutput = append(runOutput, "Syntax errors found in input:")
		runOutput = append(runOutput, synErr.Messages...)
		runOutput = append(runOutput, "Skipping bytecode generation due to syntax errors.")
		if err := w.errors(synErr.Messages); err != nil {
			return "", err
		}

	case errors.As(cerr, &semErr):
		run.Status = store.StatusSemanticError
		run.Diagnostics = semErr.Diagnostics
		fmt.Fprint(d.out, res.Symbols.Report(semErr.Diagnostics))
		runOutput = append(runOutput, "Semantic errors detected. Bytecode generation skipped.")
		if err := w.errors(semErr.Diagnostics); err != nil {
			return "", err
		}
		if err := w.symbols(semErr.Diagnostics, res.Symbols); err != nil {
			return "", err
		}

	case cerr != nil:
		return "", cerr

	default:
		run.Status = store.StatusOK
		run.Instructions = res.Stats.Instructions
		if err := d.emit(w, base, source, res); err != nil {
			return "", err
		}
		if d.run {
			printed, err := d.execute(res)
			runOutput = append(runOutput, printed...)
			if err != nil {
				run.Status = store.StatusRuntimeFault
				run.Diagnostics = []string{err.Error()}
				runOutput = append(runOutput, err.Error())
				if err := w.errors(run.Diagnostics); err != nil {
					return "", err
				}
			}
		}
		if run.Status == store.StatusOK {
			runOutput = append(runOutput, fmt.Sprintf("Execution completed successfully for %s.", path))
		}
	}

	if err := w.runOutput(runOutput); err != nil {
		return "", err
	}
	d.record(run)
	return run.Status, nil
}

// emit writes the artifacts of a successful compilation.
func (d *driver) emit(w *artifactWriter, base, source string, res *compiler.Result) error {
	fmt.Fprintln(d.out, "GENERATED BYTECODE:")
	for _, instr := range res.Bytecode {
		fmt.Fprintln(d.out, instr)
	}
	fmt.Fprintf(d.out, "\nToken Count: %d\n", res.Stats.Tokens)
	fmt.Fprintf(d.out, "AST Nodes: %d\n", res.Stats.Nodes)
	fmt.Fprintf(d.out, "Bytecode Instructions: %d\n", res.Stats.Instructions)

	if err := w.bytecode(res.Bytecode); err != nil {
		return err
	}
	if err := w.symbols(nil, res.Symbols); err != nil {
		return err
	}
	if err := w.finalOutput(res); err != nil {
		return err
	}

	b := dist.NewBundle(base, res.Bytecode)
	b.Source = source
	b.FinalOutput = res.FinalOutput
	b.LoadOutput = res.LoadOutput
	b.Symbols = res.Symbols.String()
	b.Fold = d.fold.String()
	b.SourceHash = hash.HashProgram(res.AST)
	if !d.bundles.Add(b) {
		prev := d.bundles.Lookup(b.Hash)
		fmt.Fprintf(d.out, "Bytecode identical to %s (%x)\n", prev.Name, b.Hash[:6])
	}
	return w.bundle(b)
}

func (d *driver) execute(res *compiler.Result) ([]string, error) {
	printed, err := vm.NewExecutor().Run(vm.NewProgram(res.Bytecode))
	fmt.Fprintln(d.out, "\nRUN OUTPUT:")
	for _, v := range printed {
		fmt.Fprintln(d.out, v)
	}
	if err != nil {
		fmt.Fprintln(d.out, err)
	}
	return printed, err
}

func (d *driver) record(run *store.Run) {
	if d.runs == nil {
		return
	}
	if _, err := d.runs.Record(run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
