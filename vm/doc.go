// Package vm executes textual stack bytecode.
//
// A program is a list of newline-delimited instructions:
//   - PUSH <int>, LOAD <name>, STORE <name>, SWAP
//   - ADD, SUB, MUL, DIV (pop b, then a; push a op b)
//   - PRINT (pop and append to output)
//
// Comment lines ("// ..."), IF and WHILE pseudo-instructions, and any
// unrecognized line are passed over. There are no branches.
//
// Stack underflow, division by zero, malformed PUSH operands and loads of
// unknown variables abort execution with a *Fault; output printed before
// the fault is still returned.
package vm
