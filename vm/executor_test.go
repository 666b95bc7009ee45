package vm

import (
	"errors"
	"reflect"
	"testing"
)

type fakeSymbols map[string]string

func (f fakeSymbols) IntValues() map[string]string { return f }

func TestExecuteArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"add", []string{"PUSH 2", "PUSH 3", "ADD", "PRINT"}, []string{"5"}},
		{"sub order", []string{"PUSH 10", "PUSH 4", "SUB", "PRINT"}, []string{"6"}},
		{"mul", []string{"PUSH -3", "PUSH 7", "MUL", "PRINT"}, []string{"-21"}},
		{"div truncates", []string{"PUSH 7", "PUSH 2", "DIV", "PRINT"}, []string{"3"}},
		{"div negative", []string{"PUSH -7", "PUSH 2", "DIV", "PRINT"}, []string{"-3"}},
		{"print order", []string{"PUSH 1", "PUSH 2", "PRINT", "PRINT"}, []string{"2", "1"}},
		{"swap keeps order", []string{"PUSH 10", "PUSH 3", "SWAP", "SUB", "PRINT"}, []string{"7"}},
		{"swap before div", []string{"PUSH 7", "PUSH 2", "SWAP", "DIV", "PRINT"}, []string{"3"}},
	}

	for _, tc := range tests {
		got, err := Execute(tc.lines)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: output = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExecuteVariables(t *testing.T) {
	e := NewExecutor()
	out, err := e.Run(NewProgram([]string{
		"PUSH 2", "PUSH 3", "ADD", "STORE a",
		"LOAD a", "PUSH 10", "MUL", "STORE b",
		"LOAD b", "PRINT",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"50"}) {
		t.Errorf("output = %v, want [50]", out)
	}
	if v, ok := e.Variable("a"); !ok || v != 5 {
		t.Errorf("a = %d, %v; want 5", v, ok)
	}
	if got := e.Variables(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Variables() = %v", got)
	}
	if e.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", e.Depth())
	}
}

func TestExecuteWithSymbols(t *testing.T) {
	syms := fakeSymbols{"x": "42", "y": "-1", "bad": "??"}
	for name, want := range map[string]string{"x": "42", "y": "-1"} {
		out, err := Execute([]string{"LOAD " + name, "PRINT"}, WithSymbols(syms))
		if err != nil {
			t.Errorf("LOAD %s: %v", name, err)
			continue
		}
		if !reflect.DeepEqual(out, []string{want}) {
			t.Errorf("LOAD %s; PRINT = %v, want [%s]", name, out, want)
		}
	}

	_, err := Execute([]string{"LOAD bad", "PRINT"}, WithSymbols(syms))
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("non-integer symbol should not be seeded, got %v", err)
	}
}

func TestExecuteIgnoresPseudoInstructions(t *testing.T) {
	out, err := Execute([]string{
		"// If condition: a<5",
		"IF a<5",
		"WHILE 1",
		"GARBAGE LINE",
		"PUSH 8",
		"PRINT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"8"}) {
		t.Errorf("output = %v, want [8]", out)
	}
}

func TestExecuteFaults(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		kind  error
		pc    int
		out   []string
	}{
		{"underflow add", []string{"PUSH 1", "ADD"}, ErrStackUnderflow, 1, nil},
		{"underflow print", []string{"PRINT"}, ErrStackUnderflow, 0, nil},
		{"underflow store", []string{"STORE a"}, ErrStackUnderflow, 0, nil},
		{"underflow swap", []string{"PUSH 1", "SWAP"}, ErrStackUnderflow, 1, nil},
		{"div by zero", []string{"PUSH 7", "PRINT", "PUSH 4", "PUSH 0", "DIV", "PRINT"}, ErrDivisionByZero, 4, []string{"7"}},
		{"malformed push", []string{"PUSH abc"}, ErrMalformedOperand, 0, nil},
		{"empty push", []string{"PUSH"}, ErrMalformedOperand, 0, nil},
		{"undefined load", []string{"LOAD nope"}, ErrUndefinedVariable, 0, nil},
	}

	for _, tc := range tests {
		out, err := Execute(tc.lines)
		if !errors.Is(err, tc.kind) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.kind)
			continue
		}
		var fault *Fault
		if !errors.As(err, &fault) {
			t.Errorf("%s: err is %T, want *Fault", tc.name, err)
			continue
		}
		if fault.PC != tc.pc {
			t.Errorf("%s: PC = %d, want %d", tc.name, fault.PC, tc.pc)
		}
		if fault.Instr != tc.lines[tc.pc] {
			t.Errorf("%s: Instr = %q, want %q", tc.name, fault.Instr, tc.lines[tc.pc])
		}
		if !reflect.DeepEqual(out, tc.out) {
			t.Errorf("%s: output = %v, want %v", tc.name, out, tc.out)
		}
	}
}

func TestFaultError(t *testing.T) {
	f := &Fault{Kind: ErrDivisionByZero, PC: 3, Instr: "DIV"}
	if got := f.Error(); got != "runtime fault at 3 (DIV): division by zero" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExecutorRunResetsStack(t *testing.T) {
	e := NewExecutor(WithVariable("n", 3))
	if _, err := e.Run(NewProgram([]string{"PUSH 1", "PUSH 2"})); err != nil {
		t.Fatal(err)
	}
	if e.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", e.Depth())
	}

	out, err := e.Run(NewProgram([]string{"LOAD n", "PRINT"}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []string{"3"}) || e.Depth() != 0 {
		t.Errorf("output = %v depth = %d", out, e.Depth())
	}
	if e.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", e.Steps())
	}
}
