package integration_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Integration test helpers
// ---------------------------------------------------------------------------

// assemble turns a postfix token stream into a chunk: numbers load
// constants, arithmetic operators emit their opcode, '!' negates and ';'
// returns. It stands in for a compiler front end.
func assemble(t *testing.T, source string, w bytecode.ChunkWriter) {
	t.Helper()
	ops := map[compiler.TokenType]bytecode.Opcode{
		compiler.TokenPlus:      bytecode.OpAdd,
		compiler.TokenMinus:     bytecode.OpSubtract,
		compiler.TokenStar:      bytecode.OpMultiply,
		compiler.TokenSlash:     bytecode.OpDivide,
		compiler.TokenBang:      bytecode.OpNegate,
		compiler.TokenSemicolon: bytecode.OpReturn,
	}

	for _, tok := range compiler.Tokens(source) {
		switch {
		case tok.Type == compiler.TokenEOF:
			return
		case tok.IsError():
			t.Fatalf("line %d: %s", tok.Line, tok.Payload)
		case tok.Type == compiler.TokenNumber:
			f, err := strconv.ParseFloat(tok.Lexeme(source), 64)
			if err != nil {
				t.Fatalf("line %d: bad number %q", tok.Line, tok.Lexeme(source))
			}
			idx := w.AddConstant(bytecode.Value(f))
			w.Write(bytecode.Constant(idx), tok.Line)
		default:
			op, ok := ops[tok.Type]
			if !ok {
				t.Fatalf("line %d: unexpected %v", tok.Line, tok.Type)
			}
			w.Write(bytecode.Simple(op), tok.Line)
		}
	}
}

// roundTrip sends the chunk through its CBOR image form.
func roundTrip(t *testing.T, c *bytecode.Chunk) *bytecode.Chunk {
	t.Helper()
	var buf bytes.Buffer
	if err := bytecode.WriteImage(&buf, c); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	out, err := bytecode.ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	return out
}

func interpret(t *testing.T, c *bytecode.Chunk, trace bool) (bytecode.InterpretResult, string, error) {
	t.Helper()
	var out bytes.Buffer
	vm := bytecode.NewVM(c)
	vm.Out = &out
	result, err := vm.Interpret(trace)
	return result, out.String(), err
}

// ---------------------------------------------------------------------------
// Source to output
// ---------------------------------------------------------------------------

func TestSourceToOutput(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"sample", "2.2 3.4 + 5.6 / ! ;", func() string {
			a, b, c := 2.2, 3.4, 5.6
			return bytecode.Value(-((a + b) / c)).String() + "\n"
		}()},
		{"subtract order", "10 4 - ;", "6\n"},
		{"divide order", "1 4 / ;", "0.25\n"},
		{"multiple returns", "1 ; 2 ; 3 ;", "1\n2\n3\n"},
		{"comment ignored", "# header\n6 7 * ;", "42\n"},
		{"divide by zero", "1 0 / ;", "inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bytecode.NewChunk()
			assemble(t, tt.source, c)
			if err := c.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}

			result, out, err := interpret(t, roundTrip(t, c), false)
			if err != nil || result != bytecode.InterpretOK {
				t.Fatalf("Interpret = %v, %v", result, err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestLinesSurviveImage(t *testing.T) {
	c := bytecode.NewChunk()
	assemble(t, "1\n2\n+\n\n;", c)
	got := roundTrip(t, c)

	want := []int{1, 2, 3, 5}
	for i, line := range want {
		if got.Line(i) != line {
			t.Errorf("Line(%d) = %d, want %d", i, got.Line(i), line)
		}
	}
	listing := got.Disassemble("lines")
	if !strings.Contains(listing, "0003    5 OP_RETURN") {
		t.Errorf("listing missing return on line 5:\n%s", listing)
	}
}

func TestRuntimeErrorCarriesSourceLine(t *testing.T) {
	c := bytecode.NewChunk()
	assemble(t, "1 ;\n\n+", c)

	result, out, err := interpret(t, c, false)
	if result != bytecode.InterpretRuntimeError {
		t.Errorf("result = %v, want runtime error", result)
	}
	if out != "1\n" {
		t.Errorf("output before fault = %q, want %q", out, "1\n")
	}
	var rerr *bytecode.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *RuntimeError", err)
	}
	if rerr.Line != 3 || rerr.Op != bytecode.OpAdd {
		t.Errorf("RuntimeError = %v, want OP_ADD on line 3", rerr)
	}
}

func TestTraceMatchesDisassembly(t *testing.T) {
	c := bytecode.NewChunk()
	assemble(t, "3 ! ;", c)

	_, out, err := interpret(t, c, true)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	listing := strings.TrimPrefix(c.Disassemble("x"), "== x ==\n")
	for _, line := range strings.SplitAfter(listing, "\n") {
		if line != "" && !strings.Contains(out, line) {
			t.Errorf("trace missing listing line %q:\n%s", line, out)
		}
	}
	if !strings.HasSuffix(out, "-3\n") {
		t.Errorf("trace output = %q, want result -3 last", out)
	}
}
