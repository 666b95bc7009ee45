package vm

import "fmt"

// Opcode identifies a textual bytecode instruction.
type Opcode byte

const (
	// ========================================================================
	// Non-executable lines
	// ========================================================================

	OpNop     Opcode = 0x00 // Unrecognized line, ignored
	OpComment Opcode = 0x01 // "// ..." annotation
	OpIf      Opcode = 0x02 // IF <condition text>, recorded but never branches
	OpWhile   Opcode = 0x03 // WHILE <condition text>, recorded but never branches

	// ========================================================================
	// Stack and variables (0x10-0x1F)
	// ========================================================================

	OpPush  Opcode = 0x10 // Push integer operand: PUSH <int>
	OpLoad  Opcode = 0x11 // Push variable value: LOAD <name>
	OpStore Opcode = 0x12 // Pop into variable: STORE <name>
	OpSwap  Opcode = 0x13 // Operand-order marker, needs two values, leaves them in place

	// ========================================================================
	// Arithmetic (0x20-0x2F)
	// ========================================================================

	OpAdd Opcode = 0x20 // Pop two, push sum
	OpSub Opcode = 0x21 // Pop two, push difference (a - b where b is TOS)
	OpMul Opcode = 0x22 // Pop two, push product
	OpDiv Opcode = 0x23 // Pop two, push truncated quotient

	// ========================================================================
	// Output (0x30-0x3F)
	// ========================================================================

	OpPrint Opcode = 0x30 // Pop and append to output
)

// OpcodeInfo provides metadata about each opcode for disassembly and
// stack-balance checks.
type OpcodeInfo struct {
	Name       string // Mnemonic as written in bytecode text
	StackPop   int    // How many values popped from stack
	StackPush  int    // How many values pushed to stack
	HasOperand bool   // Whether the mnemonic is followed by an operand
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpNop:     {"NOP", 0, 0, false},
	OpComment: {"//", 0, 0, true},
	OpIf:      {"IF", 0, 0, true},
	OpWhile:   {"WHILE", 0, 0, true},

	OpPush:  {"PUSH", 0, 1, true},
	OpLoad:  {"LOAD", 0, 1, true},
	OpStore: {"STORE", 1, 0, true},
	OpSwap:  {"SWAP", 2, 2, false},

	OpAdd: {"ADD", 2, 1, false},
	OpSub: {"SUB", 2, 1, false},
	OpMul: {"MUL", 2, 1, false},
	OpDiv: {"DIV", 2, 1, false},

	OpPrint: {"PRINT", 1, 0, false},
}

// mnemonics maps instruction text to opcodes. Comments are matched by prefix.
var mnemonics = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeInfoTable))
	for op, info := range opcodeInfoTable {
		if op == OpNop || op == OpComment {
			continue
		}
		m[info.Name] = op
	}
	return m
}()

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// StackEffect returns the net change in stack depth.
func (op Opcode) StackEffect() int {
	info := GetOpcodeInfo(op)
	return info.StackPush - info.StackPop
}

// IsArithmetic returns true for ADD, SUB, MUL and DIV.
func (op Opcode) IsArithmetic() bool {
	return op >= OpAdd && op <= OpDiv
}

// IsExecutable returns false for lines the executor passes over.
func (op Opcode) IsExecutable() bool {
	return op >= OpPush
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}
