package vm

import (
	"errors"
	"fmt"
)

// Runtime fault conditions. A *Fault wraps exactly one of these.
var (
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrMalformedOperand  = errors.New("malformed operand")
	ErrUndefinedVariable = errors.New("undefined variable")
)

// Fault aborts execution at a specific instruction.
type Fault struct {
	Kind  error  // one of the Err* sentinels
	PC    int    // index of the faulting instruction
	Instr string // instruction text
}

func (f *Fault) Error() string {
	return fmt.Sprintf("runtime fault at %d (%s): %v", f.PC, f.Instr, f.Kind)
}

// Unwrap lets errors.Is match the sentinel.
func (f *Fault) Unwrap() error {
	return f.Kind
}
