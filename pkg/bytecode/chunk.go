package bytecode

import (
	"errors"
	"fmt"
)

// ErrInvalidChunk is wrapped by every Validate failure.
var ErrInvalidChunk = errors.New("bytecode: invalid chunk")

// ChunkWriter is what a code generator emits into.
type ChunkWriter interface {
	Write(ins Instruction, line int)
	AddConstant(v Value) int
}

// Chunk is a unit of bytecode: instructions, a constant pool, and a line
// table parallel to the instructions. It only grows.
type Chunk struct {
	Code      []Instruction
	Constants []Value
	Lines     []int // Lines[i] is the source line of Code[i]
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]Instruction, 0, 8),
		Constants: make([]Value, 0, 8),
		Lines:     make([]int, 0, 8),
	}
}

// Write appends an instruction and the line it came from.
func (c *Chunk) Write(ins Instruction, line int) {
	c.Code = append(c.Code, ins)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an operand-less instruction.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.Write(Simple(op), line)
}

// AddConstant appends a value to the pool and returns its index. Equal
// values added twice get distinct indices.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteConstant adds v to the pool and appends the instruction loading it.
// Returns the pool index.
func (c *Chunk) WriteConstant(v Value, line int) int {
	idx := c.AddConstant(v)
	c.Write(Constant(idx), line)
	return idx
}

// Len returns the number of instructions.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// ConstantCount returns the number of constants in the pool.
func (c *Chunk) ConstantCount() int {
	return len(c.Constants)
}

// Constant returns the constant at the given index.
// Panics if the index is out of bounds.
func (c *Chunk) Constant(index int) Value {
	return c.Constants[index]
}

// Line returns the source line of the instruction at offset.
func (c *Chunk) Line(offset int) int {
	return c.Lines[offset]
}

// Validate checks the invariants the append operations maintain: one line
// per instruction, known opcodes, and constant indices inside the pool.
func (c *Chunk) Validate() error {
	if len(c.Lines) != len(c.Code) {
		return fmt.Errorf("%w: %d lines for %d instructions", ErrInvalidChunk, len(c.Lines), len(c.Code))
	}
	for offset, ins := range c.Code {
		if !ins.Op.Valid() {
			return fmt.Errorf("%w: unknown opcode 0x%02x at offset %d", ErrInvalidChunk, byte(ins.Op), offset)
		}
		if ins.Op == OpConstant && (ins.Index < 0 || ins.Index >= len(c.Constants)) {
			return fmt.Errorf("%w: constant index %d out of range at offset %d (pool size %d)",
				ErrInvalidChunk, ins.Index, offset, len(c.Constants))
		}
	}
	return nil
}
