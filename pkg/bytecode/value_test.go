package bytecode

import (
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.2, "1.2"},
		{0.1, "0.1"},
		{-0.5, "-0.5"},
		{1e21, "1000000000000000000000"},
		{Value(math.Inf(1)), "inf"},
		{Value(math.Inf(-1)), "-inf"},
		{Value(math.NaN()), "NaN"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Value(%v).String() = %q, want %q", float64(tt.v), got, tt.want)
		}
	}
}
