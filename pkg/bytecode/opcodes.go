package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
type Opcode byte

const (
	OpConstant Opcode = iota // Push constant from pool: Constant(index)
	OpAdd                    // Pop two, push sum
	OpSubtract               // Pop two, push a - b where b is TOS
	OpMultiply               // Pop two, push product
	OpDivide                 // Pop two, push a / b where b is TOS
	OpNegate                 // Negate top of stack in place
	OpReturn                 // Pop and print top of stack
)

// Instruction is one decoded instruction. Index is only meaningful for
// OpConstant, where it addresses the chunk's constant pool.
type Instruction struct {
	Op    Opcode
	Index int
}

// Constant builds an OpConstant instruction loading pool slot index.
func Constant(index int) Instruction {
	return Instruction{Op: OpConstant, Index: index}
}

// Simple builds an operand-less instruction.
func Simple(op Opcode) Instruction {
	return Instruction{Op: op}
}

func (ins Instruction) String() string {
	if ins.Op == OpConstant {
		return fmt.Sprintf("%s %d", ins.Op, ins.Index)
	}
	return ins.Op.String()
}

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name      string // Mnemonic used by the disassembler
	StackPop  int    // How many values popped from stack
	StackPush int    // How many values pushed to stack
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpConstant: {"OP_CONSTANT", 0, 1},
	OpAdd:      {"OP_ADD", 2, 1},
	OpSubtract: {"OP_SUBTRACT", 2, 1},
	OpMultiply: {"OP_MULTIPLY", 2, 1},
	OpDivide:   {"OP_DIVIDE", 2, 1},
	OpNegate:   {"OP_NEGATE", 1, 1},
	OpReturn:   {"OP_RETURN", 1, 0},
}

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

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsBinary returns true for the four arithmetic operators.
func (op Opcode) IsBinary() bool {
	return op >= OpAdd && op <= OpDivide
}

// StackEffect returns the net change in stack depth after executing op.
func (op Opcode) StackEffect() int {
	info := GetOpcodeInfo(op)
	return info.StackPush - info.StackPop
}

// AllOpcodes returns every defined opcode in numeric order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := OpConstant; op <= OpReturn; op++ {
		opcodes = append(opcodes, op)
	}
	return opcodes
}
