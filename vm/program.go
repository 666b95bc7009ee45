package vm

import (
	"fmt"
	"strings"
)

// Instruction is one decoded bytecode line.
type Instruction struct {
	Op      Opcode
	Operand string // text after the mnemonic, empty if none
	Text    string // the line as written
}

func (in Instruction) String() string {
	return in.Text
}

// Program is an immutable sequence of decoded instructions.
type Program struct {
	Instructions []Instruction
}

// Decode classifies a single bytecode line. Unrecognized lines decode to
// OpNop. Operands are not validated here; PUSH with a bad operand faults
// when executed.
func Decode(line string) Instruction {
	text := strings.TrimSpace(line)
	in := Instruction{Op: OpNop, Text: text}

	if strings.HasPrefix(text, "//") {
		in.Op = OpComment
		in.Operand = strings.TrimSpace(strings.TrimPrefix(text, "//"))
		return in
	}

	mnemonic, operand, _ := strings.Cut(text, " ")
	op, ok := mnemonics[mnemonic]
	if !ok {
		return in
	}
	operand = strings.TrimSpace(operand)
	// PUSH with no operand is kept so it can fault at run time.
	if GetOpcodeInfo(op).HasOperand != (operand != "") && op != OpPush {
		return in
	}
	in.Op = op
	in.Operand = operand
	return in
}

// NewProgram decodes each line into an instruction.
func NewProgram(lines []string) *Program {
	p := &Program{Instructions: make([]Instruction, 0, len(lines))}
	for _, line := range lines {
		p.Instructions = append(p.Instructions, Decode(line))
	}
	return p
}

// ParseText decodes newline-delimited bytecode. Blank lines are dropped.
func ParseText(text string) *Program {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return NewProgram(lines)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Lines returns the instruction texts.
func (p *Program) Lines() []string {
	lines := make([]string, len(p.Instructions))
	for i, in := range p.Instructions {
		lines[i] = in.Text
	}
	return lines
}

// String renders the program one instruction per line.
func (p *Program) String() string {
	return strings.Join(p.Lines(), "\n")
}

// HasPseudoInstructions reports whether the program contains IF or WHILE.
func (p *Program) HasPseudoInstructions() bool {
	for _, in := range p.Instructions {
		if in.Op == OpIf || in.Op == OpWhile {
			return true
		}
	}
	return false
}

// StaticDepth returns the stack depth after all executable instructions,
// assuming none of them faults.
func (p *Program) StaticDepth() int {
	depth := 0
	for _, in := range p.Instructions {
		depth += in.Op.StackEffect()
	}
	return depth
}

// Disassemble returns an indexed listing with the stack effect and running
// depth of each instruction.
func (p *Program) Disassemble() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("; %d instructions\n", len(p.Instructions)))

	depth := 0
	for i, in := range p.Instructions {
		if !in.Op.IsExecutable() {
			sb.WriteString(fmt.Sprintf("%04d  %-6s %-16s ;\n", i, in.Op, in.Operand))
			continue
		}
		depth += in.Op.StackEffect()
		sb.WriteString(fmt.Sprintf("%04d  %-6s %-16s ; %+d depth=%d\n", i, in.Op, in.Operand, in.Op.StackEffect(), depth))
	}
	return sb.String()
}
