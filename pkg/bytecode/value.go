package bytecode

import (
	"math"
	"strconv"
)

// Value is the only runtime datum: a 64-bit float.
type Value float64

// String formats the value in plain decimal notation without an exponent.
// Infinities render as "inf"/"-inf" and NaN as "NaN".
func (v Value) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
