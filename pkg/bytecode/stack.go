package bytecode

import "errors"

// StackMax is the fixed capacity of the operand stack.
const StackMax = 256

var (
	ErrStackOverflow  = errors.New("bytecode: stack overflow")
	ErrStackUnderflow = errors.New("bytecode: stack underflow")
)

// Stack is a fixed-capacity LIFO of values. top is the index of the next
// free slot, so 0 <= top <= StackMax always holds.
type Stack struct {
	slots [StackMax]Value
	top   int
}

// Push places v on top of the stack.
func (s *Stack) Push(v Value) error {
	if s.top >= StackMax {
		return ErrStackOverflow
	}
	s.slots[s.top] = v
	s.top++
	return nil
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (Value, error) {
	if s.top == 0 {
		return 0, ErrStackUnderflow
	}
	s.top--
	return s.slots[s.top], nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (Value, error) {
	if s.top == 0 {
		return 0, ErrStackUnderflow
	}
	return s.slots[s.top-1], nil
}

// NegateTop multiplies the top value by -1 in place.
func (s *Stack) NegateTop() error {
	if s.top == 0 {
		return ErrStackUnderflow
	}
	s.slots[s.top-1] *= -1
	return nil
}

// Top returns the index of the next free slot, which is also the depth.
func (s *Stack) Top() int {
	return s.top
}

// Values returns a copy of the live slots, bottom first.
func (s *Stack) Values() []Value {
	out := make([]Value, s.top)
	copy(out, s.slots[:s.top])
	return out
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.top = 0
}
