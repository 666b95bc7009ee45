package vm

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		line    string
		op      Opcode
		operand string
	}{
		{"PUSH 42", OpPush, "42"},
		{"  PUSH   -3  ", OpPush, "-3"},
		{"PUSH", OpPush, ""},
		{"LOAD x", OpLoad, "x"},
		{"STORE total", OpStore, "total"},
		{"SWAP", OpSwap, ""},
		{"ADD", OpAdd, ""},
		{"PRINT", OpPrint, ""},
		{"// Printing value", OpComment, "Printing value"},
		{"IF a<5", OpIf, "a<5"},
		{"WHILE a!=0", OpWhile, "a!=0"},
		{"JUMP 4", OpNop, ""},
		{"ADD 1", OpNop, ""},
		{"LOAD", OpNop, ""},
		{"push 1", OpNop, ""},
	}

	for _, tc := range tests {
		in := Decode(tc.line)
		if in.Op != tc.op {
			t.Errorf("Decode(%q).Op = %s, want %s", tc.line, in.Op, tc.op)
		}
		if in.Operand != tc.operand {
			t.Errorf("Decode(%q).Operand = %q, want %q", tc.line, in.Operand, tc.operand)
		}
	}
}

func TestParseText(t *testing.T) {
	prog := ParseText("PUSH 1\n\nPUSH 2\nADD\n   \nPRINT\n")
	if prog.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", prog.Len())
	}
	if got := prog.String(); got != "PUSH 1\nPUSH 2\nADD\nPRINT" {
		t.Errorf("String() = %q", got)
	}
}

func TestStaticDepth(t *testing.T) {
	tests := []struct {
		lines []string
		want  int
	}{
		{[]string{"PUSH 1", "PUSH 2", "ADD", "STORE a"}, 0},
		{[]string{"PUSH 1", "PUSH 2"}, 2},
		{[]string{"LOAD a", "PUSH 2", "SWAP", "SUB", "STORE a", "// note"}, 0},
	}
	for _, tc := range tests {
		if got := NewProgram(tc.lines).StaticDepth(); got != tc.want {
			t.Errorf("StaticDepth(%v) = %d, want %d", tc.lines, got, tc.want)
		}
	}
}

func TestHasPseudoInstructions(t *testing.T) {
	if NewProgram([]string{"PUSH 1", "PRINT"}).HasPseudoInstructions() {
		t.Error("plain program reported pseudo-instructions")
	}
	if !NewProgram([]string{"IF a<1", "PUSH 1"}).HasPseudoInstructions() {
		t.Error("IF not detected")
	}
}

func TestDisassemble(t *testing.T) {
	prog := NewProgram([]string{"// Printing value", "PUSH 2", "PUSH 3", "ADD", "PRINT"})
	out := prog.Disassemble()

	wants := []string{
		"; 5 instructions",
		"0000  //",
		"0001  PUSH   2",
		"; +1 depth=1",
		"0003  ADD",
		"; -1 depth=1",
		"0004  PRINT",
		"; -1 depth=0",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Disassemble() missing %q:\n%s", want, out)
		}
	}
}
