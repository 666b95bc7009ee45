package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func generate(t *testing.T, source string, fold FoldMode) *Result {
	t.Helper()
	res, err := Compile(source, Options{Fold: fold})
	if err != nil {
		t.Fatalf("Compile(%q): %v", source, err)
	}
	return res
}

func TestGenerateDeclaration(t *testing.T) {
	res := generate(t, "int a = 2 + 3;\nprint a;", FoldNone)
	want := []string{
		"PUSH 2",
		"PUSH 3",
		"ADD",
		"STORE a",
		"// Printing value",
		"LOAD a",
		"PRINT",
	}
	if !reflect.DeepEqual(res.Bytecode, want) {
		t.Errorf("bytecode =\n%s\nwant\n%s", strings.Join(res.Bytecode, "\n"), strings.Join(want, "\n"))
	}
}

func TestGeneratePostOrder(t *testing.T) {
	res := generate(t, "int a = 1;\nint b = (a + 2) * 3 - 4 / 2;", FoldNone)
	want := []string{
		"PUSH 1", "STORE a",
		"LOAD a", "PUSH 2", "ADD", "PUSH 3", "MUL", "PUSH 4", "PUSH 2", "DIV", "SUB", "STORE b",
	}
	if !reflect.DeepEqual(res.Bytecode, want) {
		t.Errorf("bytecode = %v, want %v", res.Bytecode, want)
	}
}

func TestGenerateCompoundAssignment(t *testing.T) {
	res := generate(t, "int x = 10;\nx -= 3;", FoldNone)
	want := []string{"PUSH 10", "STORE x", "LOAD x", "PUSH 3", "SWAP", "SUB", "STORE x"}
	if !reflect.DeepEqual(res.Bytecode, want) {
		t.Errorf("bytecode = %v, want %v", res.Bytecode, want)
	}
}

func TestGenerateConditionals(t *testing.T) {
	res := generate(t, "int a = 1;\nif (a < 5) { a = 2; }\nwhile (a != 0) { a -= 1; }", FoldNone)
	want := []string{
		"PUSH 1", "STORE a",
		"// If condition: a<5", "IF a<5",
		"PUSH 2", "STORE a",
		"// While loop condition: a!=0", "WHILE a!=0",
		"LOAD a", "PUSH 1", "SWAP", "SUB", "STORE a",
	}
	if !reflect.DeepEqual(res.Bytecode, want) {
		t.Errorf("bytecode =\n%s", strings.Join(res.Bytecode, "\n"))
	}
}

func TestGenerateFunctionDeclaration(t *testing.T) {
	res := generate(t, "int add(a, b);", FoldNone)
	want := []string{"// Function declared: add(2)"}
	if !reflect.DeepEqual(res.Bytecode, want) {
		t.Errorf("bytecode = %v, want %v", res.Bytecode, want)
	}
}

func TestGenerateFoldModes(t *testing.T) {
	source := "int a = (2 + 3) * 4;\nprint 6 / 2;"

	tests := []struct {
		mode FoldMode
		want []string
	}{
		{FoldNone, []string{"PUSH 2", "PUSH 3", "ADD", "PUSH 4", "MUL", "STORE a", "// Printing value", "PUSH 6", "PUSH 2", "DIV", "PRINT"}},
		{FoldCache, []string{"PUSH 5", "PUSH 4", "MUL", "STORE a", "// Printing value", "PUSH 3", "PRINT"}},
		{FoldTree, []string{"PUSH 20", "STORE a", "// Printing value", "PUSH 3", "PRINT"}},
	}

	for _, tc := range tests {
		res := generate(t, source, tc.mode)
		if !reflect.DeepEqual(res.Bytecode, tc.want) {
			t.Errorf("fold=%s: bytecode = %v, want %v", tc.mode, res.Bytecode, tc.want)
		}
	}
}

func TestFinalOutputEvaluator(t *testing.T) {
	// ghost is undeclared, so checking passes but the evaluator cannot
	// resolve it.
	res := generate(t, "int a = 7;\nprint a;\nprint 3;\nprint a + 1;\nprint ghost;", FoldNone)
	want := []string{"7", "3", "[expression evaluated]", "[undeclared variable: ghost]"}
	if !reflect.DeepEqual(res.FinalOutput, want) {
		t.Errorf("FinalOutput = %v, want %v", res.FinalOutput, want)
	}
}

func TestFinalOutputUsesCheckedValues(t *testing.T) {
	// The evaluator reads the table after the whole program was checked.
	res := generate(t, "int a = 1;\nprint a;\na = 2;", FoldNone)
	if !reflect.DeepEqual(res.FinalOutput, []string{"2"}) {
		t.Errorf("FinalOutput = %v, want [2]", res.FinalOutput)
	}
}

func TestFinalOutputTreeFoldResolvesLiterals(t *testing.T) {
	res := generate(t, "print 2 + 3;", FoldTree)
	if !reflect.DeepEqual(res.FinalOutput, []string{"5"}) {
		t.Errorf("FinalOutput = %v, want [5]", res.FinalOutput)
	}
}

func TestFinalOutputFromLoads(t *testing.T) {
	code := []string{
		"PUSH 1", "STORE a",
		"PUSH 2", "STORE b",
		"LOAD a", "PRINT",
		"LOAD a", "LOAD b", "ADD", "PRINT",
		"PUSH 9", "PRINT",
	}
	got := FinalOutputFromLoads(code)
	want := []string{"a", "b", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FinalOutputFromLoads = %v, want %v", got, want)
	}

	if got := FinalOutputFromLoads([]string{"PUSH 1", "PRINT"}); len(got) != 0 {
		t.Errorf("PRINT without LOAD produced %v", got)
	}
}

func TestFinalOutputsDisagree(t *testing.T) {
	res := generate(t, "int a = 2;\nint b = 3;\nprint a + b;", FoldNone)
	if !reflect.DeepEqual(res.FinalOutput, []string{"[expression evaluated]"}) {
		t.Errorf("FinalOutput = %v", res.FinalOutput)
	}
	if !reflect.DeepEqual(res.LoadOutput, []string{"b"}) {
		t.Errorf("LoadOutput = %v", res.LoadOutput)
	}
}

func TestGenerateFlat(t *testing.T) {
	source := "int a = 5;\nint b = a;\nprint b;\nint c = a + 1;\nif (a > 1) { print 4; }"
	prog := mustParse(t, source)

	want := []string{
		"PUSH 5", "STORE a",
		"LOAD a", "STORE b",
		"LOAD b", "PRINT",
		"PUSH 4", "PRINT",
	}
	if got := GenerateFlat(prog); !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateFlat = %v, want %v", got, want)
	}
}

func TestGenerateFlatMatchesGenerator(t *testing.T) {
	source := "int a = 5;\nint b = a;\nprint b;\nb = 6;\nwhile (b) { print a; }"
	res := generate(t, source, FoldNone)

	var executable []string
	for _, instr := range res.Bytecode {
		if strings.HasPrefix(instr, "//") || strings.HasPrefix(instr, "WHILE ") {
			continue
		}
		executable = append(executable, instr)
	}

	if got := GenerateFlat(res.AST); !reflect.DeepEqual(got, executable) {
		t.Errorf("GenerateFlat = %v, want %v", got, executable)
	}
}
