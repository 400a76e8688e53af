// Package bytecode provides the bytecode representation and stack-based
// virtual machine for Lox.
//
// # Architecture Overview
//
//   - Opcodes: seven instructions. OpConstant carries a constant-pool index;
//     OpAdd, OpSubtract, OpMultiply and OpDivide pop two operands and push
//     one; OpNegate flips the sign of the top value in place; OpReturn pops
//     and prints the top value.
//
//   - Chunk: instructions, a constant pool of Values, and a line table kept
//     the same length as the instructions. Chunks only grow, through Write
//     and AddConstant. Chunks can be stored as CBOR images ("LOXC").
//
//   - Disassembler: renders a chunk or a single instruction as text. Runs of
//     instructions from the same source line show "|" instead of repeating
//     the line number.
//
//   - VM: owns one chunk and a 256-slot Stack for a single Interpret call.
//     The instruction pointer is the loop index over the chunk's code.
//
// # Errors
//
// Arithmetic never faults; division by zero yields an infinity or NaN.
// Stack underflow and overflow can only come from a malformed instruction
// sequence and are reported as InterpretRuntimeError with a *RuntimeError.
// A constant index outside the pool breaks a chunk invariant and panics.
//
// # Example
//
//	c := bytecode.NewChunk()
//	c.WriteConstant(1.2, 123)
//	c.WriteOp(bytecode.OpReturn, 123)
//	result, err := bytecode.NewVM(c).Interpret(false)
package bytecode
