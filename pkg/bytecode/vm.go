package bytecode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/lox/internal/logging"
)

// InterpretResult is the completion status of one Interpret call.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	// InterpretCompileError is reserved for a compiler stage in front of the VM.
	InterpretCompileError
	InterpretRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	case InterpretRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("InterpretResult(%d)", int(r))
	}
}

var (
	ErrHalted        = errors.New("bytecode: vm already halted")
	ErrUnknownOpcode = errors.New("bytecode: unknown opcode")
)

// RuntimeError reports a fault raised while executing one instruction.
type RuntimeError struct {
	Op     Opcode
	Offset int
	Line   int
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s at offset %04d: %v", e.Line, e.Op, e.Offset, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// binaryOps holds the arithmetic for each binary opcode. Division by zero
// produces an infinity or NaN; it is not a fault.
var binaryOps = map[Opcode]func(a, b Value) Value{
	OpAdd:      func(a, b Value) Value { return a + b },
	OpSubtract: func(a, b Value) Value { return a - b },
	OpMultiply: func(a, b Value) Value { return a * b },
	OpDivide:   func(a, b Value) Value { return a / b },
}

// VM executes a single chunk once. It starts ready and is halted after the
// first Interpret call returns.
type VM struct {
	chunk  *Chunk
	stack  Stack
	halted bool

	// Out receives Return output and trace text. Defaults to os.Stdout.
	Out io.Writer
}

// NewVM creates a VM that owns chunk for the duration of execution.
func NewVM(chunk *Chunk) *VM {
	return &VM{
		chunk: chunk,
		Out:   os.Stdout,
	}
}

// Interpret runs every instruction of the chunk in order. With trace set,
// the stack and the instruction about to run are printed before each
// dispatch.
func (vm *VM) Interpret(trace bool) (InterpretResult, error) {
	log := logging.GetLogger("lox.vm")
	if vm.halted {
		return InterpretRuntimeError, ErrHalted
	}
	defer func() { vm.halted = true }()

	log.Debugf("interpreting %d instructions, %d constants", vm.chunk.Len(), vm.chunk.ConstantCount())
	if err := vm.run(trace); err != nil {
		log.Debugf("halted with runtime error: %v", err)
		return InterpretRuntimeError, err
	}
	log.Debugf("halted, stack depth %d", vm.stack.Top())
	return InterpretOK, nil
}

// Halted reports whether Interpret has already run.
func (vm *VM) Halted() bool {
	return vm.halted
}

// StackTop returns the operand stack's top index.
func (vm *VM) StackTop() int {
	return vm.stack.Top()
}

func (vm *VM) run(trace bool) error {
	for offset, ins := range vm.chunk.Code {
		if trace {
			vm.traceInstruction(offset)
		}
		if err := vm.execute(ins); err != nil {
			return &RuntimeError{
				Op:     ins.Op,
				Offset: offset,
				Line:   vm.chunk.Line(offset),
				Err:    err,
			}
		}
	}
	return nil
}

func (vm *VM) execute(ins Instruction) error {
	switch ins.Op {
	case OpConstant:
		return vm.stack.Push(vm.readConstant(ins.Index))

	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return vm.binaryOp(binaryOps[ins.Op])

	case OpNegate:
		return vm.stack.NegateTop()

	case OpReturn:
		// Placeholder until there are call frames to return to.
		v, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintln(vm.Out, v)
		return nil

	default:
		return fmt.Errorf("%w 0x%02x", ErrUnknownOpcode, byte(ins.Op))
	}
}

// readConstant panics on an out-of-range index: chunks built through
// AddConstant or checked by Validate never contain one.
func (vm *VM) readConstant(index int) Value {
	if index < 0 || index >= len(vm.chunk.Constants) {
		panic(fmt.Sprintf("bytecode: constant index %d out of range (pool size %d)", index, len(vm.chunk.Constants)))
	}
	return vm.chunk.Constants[index]
}

// binaryOp pops the right operand first, then the left.
func (vm *VM) binaryOp(op func(a, b Value) Value) error {
	b, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	a, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	return vm.stack.Push(op(a, b))
}

func (vm *VM) traceInstruction(offset int) {
	fmt.Fprint(vm.Out, "          ")
	for _, v := range vm.stack.Values() {
		fmt.Fprintf(vm.Out, "[ %s ]", v)
	}
	fmt.Fprintln(vm.Out)
	vm.chunk.DisassembleInstruction(vm.Out, offset)
}
