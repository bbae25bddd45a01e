package graph

import (
	"fmt"
	"slices"
)

// Add sums numbers and concatenates strings and []any slices.
func Add(a, b any) (any, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x + y, nil
		}
	case []any:
		if y, ok := b.([]any); ok {
			return slices.Concat(x, y), nil
		}
	}
	return arith(a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub subtracts numbers.
func Sub(a, b any) (any, error) {
	return arith(a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul multiplies numbers.
func Mul(a, b any) (any, error) {
	return arith(a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// arith keeps int operands as int, widens mixed integer widths to int64 and
// promotes to float64 as soon as one side is a float.
func arith(a, b any, iop func(x, y int64) int64, fop func(x, y float64) float64) (any, error) {
	xi, aInt := asInt(a)
	yi, bInt := asInt(b)
	if aInt && bInt {
		r := iop(xi, yi)
		_, ai := a.(int)
		_, bi := b.(int)
		if ai && bi {
			return int(r), nil
		}
		return r, nil
	}

	xf, aNum := asFloat(a)
	yf, bNum := asFloat(b)
	if aNum && bNum {
		return fop(xf, yf), nil
	}
	return nil, &TypeMismatchError{Expected: fmt.Sprintf("%T", a), Got: fmt.Sprintf("%T", b)}
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
