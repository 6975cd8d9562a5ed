package eval

import "fmt"

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindUndefined Kind = iota // unbound module parameter
	KindNull                  // evaluated but intentionally valueless
	KindNumber
	KindBool
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the tagged result of expression evaluation: a number, a boolean,
// a 3-vector, null, or undefined.
type Value struct {
	Kind Kind
	Num  float64
	Bool bool
	Vec  [3]float64
}

// Undefined is the value bound to unmatched module parameters.
var Undefined = Value{Kind: KindUndefined}

// Null is the evaluated-but-valueless result, distinct from failure.
var Null = Value{Kind: KindNull}

// Number wraps a float64.
func Number(v float64) Value { return Value{Kind: KindNumber, Num: v} }

// Boolean wraps a bool.
func Boolean(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// VectorOf wraps a 3-vector.
func VectorOf(x, y, z float64) Value {
	return Value{Kind: KindVector, Vec: [3]float64{x, y, z}}
}

// IsNumber reports whether the value is a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsUndefined reports whether the value is undefined.
func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindVector:
		return fmt.Sprintf("[%g, %g, %g]", v.Vec[0], v.Vec[1], v.Vec[2])
	case KindNull:
		return "null"
	default:
		return "undef"
	}
}
