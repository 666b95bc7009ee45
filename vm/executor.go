package vm

import (
	"sort"
	"strconv"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("bcgen.vm")

// SymbolSource supplies initial variable values, keyed by name. Values that
// do not parse as integers are skipped.
type SymbolSource interface {
	IntValues() map[string]string
}

// Option configures an Executor.
type Option func(*Executor)

// WithSymbols seeds the variable environment from src.
func WithSymbols(src SymbolSource) Option {
	return func(e *Executor) {
		for name, text := range src.IntValues() {
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				log.Debugf("skipping non-integer symbol %s = %q", name, text)
				continue
			}
			e.vars[name] = n
		}
	}
}

// WithVariable seeds a single variable.
func WithVariable(name string, value int64) Option {
	return func(e *Executor) {
		e.vars[name] = value
	}
}

// Executor runs programs on an int64 stack. Variables persist across Run
// calls; the stack and output do not.
type Executor struct {
	stack  []int64
	vars   map[string]int64
	output []string
	steps  int
}

// NewExecutor creates an executor with the given options applied.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{vars: make(map[string]int64)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes prog and returns the printed values in order. On a fault the
// values printed before it are returned together with a *Fault.
func (e *Executor) Run(prog *Program) ([]string, error) {
	e.stack = e.stack[:0]
	e.output = nil
	e.steps = 0

	for pc, in := range prog.Instructions {
		if err := e.step(pc, in); err != nil {
			log.Debugf("%v", err)
			return e.output, err
		}
	}
	log.Debugf("executed %d instructions, %d values printed", e.steps, len(e.output))
	return e.output, nil
}

func (e *Executor) step(pc int, in Instruction) error {
	fault := func(kind error) error {
		return &Fault{Kind: kind, PC: pc, Instr: in.Text}
	}
	if in.Op.IsExecutable() {
		e.steps++
	}

	switch in.Op {
	case OpPush:
		n, err := strconv.ParseInt(in.Operand, 10, 64)
		if err != nil {
			return fault(ErrMalformedOperand)
		}
		e.push(n)

	case OpLoad:
		v, ok := e.vars[in.Operand]
		if !ok {
			return fault(ErrUndefinedVariable)
		}
		e.push(v)

	case OpStore:
		v, ok := e.pop()
		if !ok {
			return fault(ErrStackUnderflow)
		}
		e.vars[in.Operand] = v

	case OpSwap:
		// SWAP marks the operand pair of a compound assignment. The variable
		// is already below the right operand, so the pair stays in place.
		if len(e.stack) < 2 {
			return fault(ErrStackUnderflow)
		}

	case OpAdd, OpSub, OpMul, OpDiv:
		// b was pushed last.
		b, ok := e.pop()
		if !ok {
			return fault(ErrStackUnderflow)
		}
		a, ok := e.pop()
		if !ok {
			return fault(ErrStackUnderflow)
		}
		var r int64
		switch in.Op {
		case OpAdd:
			r = a + b
		case OpSub:
			r = a - b
		case OpMul:
			r = a * b
		case OpDiv:
			if b == 0 {
				return fault(ErrDivisionByZero)
			}
			r = a / b
		}
		e.push(r)

	case OpPrint:
		v, ok := e.pop()
		if !ok {
			return fault(ErrStackUnderflow)
		}
		e.output = append(e.output, strconv.FormatInt(v, 10))

	default:
		// Comments, IF, WHILE and unrecognized lines.
	}
	return nil
}

func (e *Executor) push(v int64) {
	e.stack = append(e.stack, v)
}

func (e *Executor) pop() (int64, bool) {
	n := len(e.stack)
	if n == 0 {
		return 0, false
	}
	v := e.stack[n-1]
	e.stack = e.stack[:n-1]
	return v, true
}

// Depth returns the stack depth left by the last Run.
func (e *Executor) Depth() int {
	return len(e.stack)
}

// Steps returns how many executable instructions the last Run performed.
func (e *Executor) Steps() int {
	return e.steps
}

// Variable returns the current value of name.
func (e *Executor) Variable(name string) (int64, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Variables returns the variable names in sorted order.
func (e *Executor) Variables() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute is a convenience wrapper that runs lines on a fresh executor.
func Execute(lines []string, opts ...Option) ([]string, error) {
	return NewExecutor(opts...).Run(NewProgram(lines))
}
