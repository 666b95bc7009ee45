package spectest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/bcgen/compiler"
	"github.com/chazu/bcgen/vm"
)

// Outcome holds every artifact a case can assert on, each rendered as
// newline-separated lines.
type Outcome struct {
	Bytecode    string
	Output      string
	FinalOutput string
	LoadOutput  string
	Errors      string
	Symbols     string
}

// Evaluate compiles source with the given fold mode and runs the bytecode
// on a fresh executor when compilation succeeds.
func Evaluate(source string, fold compiler.FoldMode) Outcome {
	var o Outcome

	res, err := compiler.Compile(source, compiler.Options{Fold: fold})
	if res.Symbols != nil {
		o.Symbols = strings.TrimRight(res.Symbols.String(), "\n")
	}

	var (
		synErr *compiler.SyntaxError
		semErr *compiler.SemanticError
	)
	switch {
	case errors.As(err, &synErr):
		o.Errors = strings.Join(synErr.Messages, "\n")
		return o
	case errors.As(err, &semErr):
		o.Errors = strings.Join(semErr.Diagnostics, "\n")
		return o
	case err != nil:
		o.Errors = err.Error()
		return o
	}

	o.Bytecode = strings.Join(res.Bytecode, "\n")
	o.FinalOutput = strings.Join(res.FinalOutput, "\n")
	o.LoadOutput = strings.Join(res.LoadOutput, "\n")

	out, err := vm.NewExecutor().Run(vm.NewProgram(res.Bytecode))
	o.Output = strings.Join(out, "\n")
	if err != nil {
		o.Errors = err.Error()
	}
	return o
}

// Get returns the artifact checked by an assertion of type t.
func (o Outcome) Get(t AssertionType) (string, error) {
	switch t {
	case AssertBytecode:
		return o.Bytecode, nil
	case AssertOutput:
		return o.Output, nil
	case AssertFinalOutput:
		return o.FinalOutput, nil
	case AssertLoadOutput:
		return o.LoadOutput, nil
	case AssertErrors:
		return o.Errors, nil
	case AssertSymbols:
		return o.Symbols, nil
	}
	return "", fmt.Errorf("unknown assertion type %q", t)
}

// Check evaluates tc and returns one error per failed assertion.
func Check(tc TestCase) []error {
	o := Evaluate(tc.Input, tc.Fold)
	var errs []error
	for _, a := range tc.Assertions {
		got, err := o.Get(a.Type)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if got != a.Content {
			errs = append(errs, fmt.Errorf("line %d: %s mismatch\n got:\n%s\nwant:\n%s", a.Line, a.Type, got, a.Content))
		}
	}
	return errs
}
