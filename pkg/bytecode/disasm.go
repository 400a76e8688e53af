package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble returns a human-readable listing of the chunk.
func (c *Chunk) Disassemble(name string) string {
	var sb strings.Builder
	c.DisassembleChunk(&sb, name)
	return sb.String()
}

// DisassembleChunk writes a "== name ==" header followed by every
// instruction to w.
func (c *Chunk) DisassembleChunk(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction writes the instruction at offset and returns the
// offset of the next one.
//
// Layout: 4-digit offset, then the line right-aligned in 4 columns or "   |"
// when it repeats the previous instruction's line, then the mnemonic.
// Constant loads add the pool index and the resolved value.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	ins := c.Code[offset]
	switch ins.Op {
	case OpConstant:
		return c.constantInstruction(w, ins, offset)
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpNegate, OpReturn:
		return simpleInstruction(w, ins.Op, offset)
	default:
		fmt.Fprintf(w, "Unknown opcode %d\n", byte(ins.Op))
		return offset + 1
	}
}

func simpleInstruction(w io.Writer, op Opcode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func (c *Chunk) constantInstruction(w io.Writer, ins Instruction, offset int) int {
	if ins.Index < 0 || ins.Index >= len(c.Constants) {
		fmt.Fprintf(w, "%-16s %4d <out of range>\n", ins.Op, ins.Index)
		return offset + 1
	}
	fmt.Fprintf(w, "%-16s %4d '%s'\n", ins.Op, ins.Index, c.Constants[ins.Index])
	return offset + 1
}
