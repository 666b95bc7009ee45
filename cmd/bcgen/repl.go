package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/vm"
)

const (
	historyFile = ".bcgen_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

// session keeps one symbol table and one executor across REPL inputs, so
// later inputs can use variables declared earlier.
type session struct {
	table        *compiler.SymbolTable
	exec         *vm.Executor
	fold         compiler.FoldMode
	showBytecode bool
	out          io.Writer
}

func newSession(fold compiler.FoldMode, out io.Writer) *session {
	return &session{
		table: compiler.NewSymbolTable(),
		exec:  vm.NewExecutor(),
		fold:  fold,
		out:   out,
	}
}

// eval compiles src against a copy of the session table and runs it. The
// copy replaces the session table only when the input compiled and ran
// cleanly, so declarations from a failed input are forgotten.
func (s *session) eval(src string) ([]string, error) {
	table := s.table.Clone()
	res, err := compiler.Compile(src, compiler.Options{Fold: s.fold, Symbols: table})
	if err != nil {
		return nil, err
	}
	if s.showBytecode {
		for _, instr := range res.Bytecode {
			fmt.Fprintln(s.out, "  "+instr)
		}
	}
	printed, err := s.exec.Run(vm.NewProgram(res.Bytecode))
	if err != nil {
		return printed, err
	}
	s.table = table
	return printed, nil
}

// evalAndPrint evaluates src and prints its output or errors.
func (s *session) evalAndPrint(src string) {
	printed, err := s.eval(src)
	for _, v := range printed {
		fmt.Fprintln(s.out, v)
	}

	var (
		synErr *compiler.SyntaxError
		semErr *compiler.SemanticError
	)
	switch {
	case errors.As(err, &synErr):
		for _, msg := range synErr.Messages {
			fmt.Fprintln(s.out, "Syntax error: "+msg)
		}
	case errors.As(err, &semErr):
		for _, msg := range semErr.Diagnostics {
			fmt.Fprintln(s.out, "Error: "+msg)
		}
	case err != nil:
		fmt.Fprintln(s.out, "Error:", err)
	}
}

// command handles a ':' meta-command and reports whether the REPL should
// exit.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(s.out, "  :symbols          Show the symbol table")
		fmt.Fprintln(s.out, "  :vars             Show executor variables")
		fmt.Fprintln(s.out, "  :bytecode         Toggle printing generated bytecode")
		fmt.Fprintln(s.out, "  :fold [mode]      Show or set fold mode (none, cache, tree)")
		fmt.Fprintln(s.out, "  :reset            Forget all declarations")
		fmt.Fprintln(s.out, "  :quit, :q         Exit REPL")
	case ":symbols":
		fmt.Fprint(s.out, s.table.String())
	case ":vars":
		for _, name := range s.exec.Variables() {
			v, _ := s.exec.Variable(name)
			fmt.Fprintf(s.out, "%s = %d\n", name, v)
		}
	case ":bytecode":
		s.showBytecode = !s.showBytecode
		fmt.Fprintf(s.out, "bytecode display %s\n", onOff(s.showBytecode))
	case ":fold":
		if len(fields) > 1 {
			mode, err := compiler.ParseFoldMode(fields[1])
			if err != nil {
				fmt.Fprintln(s.out, "Error:", err)
				return false
			}
			s.fold = mode
		}
		fmt.Fprintf(s.out, "fold mode: %s\n", s.fold)
	case ":reset":
		s.table = compiler.NewSymbolTable()
		s.exec = vm.NewExecutor()
		fmt.Fprintln(s.out, "session reset")
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help)\n", fields[0])
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// inputComplete reports whether src can be compiled: braces are balanced
// and the last statement is terminated. Line comments are ignored.
func inputComplete(src string) bool {
	var code strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		code.WriteString(line)
		code.WriteByte('\n')
	}
	stripped := code.String()
	if strings.Count(stripped, "{") > strings.Count(stripped, "}") {
		return false
	}
	trimmed := strings.TrimSpace(stripped)
	return trimmed == "" || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}")
}

// runREPL starts an interactive read-eval-print loop.
func runREPL(s *session) {
	fmt.Fprintln(s.out, "bcgen REPL (type :quit to exit, :help for commands)")
	fmt.Fprintf(s.out, "Fold mode: %s\n\n", s.fold)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigc)
		close(done)
	}()
	go watchSignals(sigc, done, func() {
		ln.Close()
		os.Exit(130)
	})

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return
			}
			continue
		}
		s.evalAndPrint(src)
	}
}

// watchSignals calls onSignal when a signal arrives and returns without
// calling it once done is closed.
func watchSignals(sigc <-chan os.Signal, done <-chan struct{}, onSignal func()) {
	select {
	case <-sigc:
		onSignal()
	case <-done:
	}
}

// readInput prompts until the accumulated lines form a complete input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || inputComplete(src) {
			return src, true
		}
	}
}
