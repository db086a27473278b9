// Package expr implements the guard expression language embedded in
// generated flow runtimes: boolean, comparison, and literal expressions over
// named variables, with dynamic coercion at evaluation time. There is no
// static type checking; values carry their own tag.
package expr

import "strconv"

// Value is a sealed interface over the three runtime value types.
// Only Number, String, and Bool implement it.
type Value interface {
	exprValue()
}

// Number is a float64 value.
type Number float64

func (Number) exprValue() {}

// String is a string value.
type String string

func (String) exprValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) exprValue() {}

// Truthy converts a value to a branch decision: bools as-is, strings truthy
// iff non-empty, numbers truthy iff non-zero. A nil value is false.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case String:
		return val != ""
	case Number:
		return val != 0
	default:
		return false
	}
}

// NumberOf coerces a value for the relational operators: numbers pass
// through, bools become 1 or 0, strings become 0.
func NumberOf(v Value) float64 {
	switch val := v.(type) {
	case Number:
		return float64(val)
	case Bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// StringOf coerces a value for string comparison. Numbers use Go's default
// decimal formatting.
func StringOf(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return ""
	}
}

// Equal implements == and the negation of !=. If either operand is a
// string, both sides compare as strings; otherwise the comparison is
// numeric.
func Equal(a, b Value) bool {
	if _, is := a.(String); is {
		return StringOf(a) == StringOf(b)
	}
	if _, is := b.(String); is {
		return StringOf(a) == StringOf(b)
	}
	return NumberOf(a) == NumberOf(b)
}
