package vals

import "reflect"

// Equaler wraps the Equal method.
type Equaler interface {
	// Equal compares the receiver to another value. Two equal values must have
	// the same hash code.
	Equal(other any) bool
}

// Equal returns whether two values are equal. Values of different kinds are
// never equal; pairs are equal when their elements are. Types satisfying the
// Equaler interface decide for themselves. Other values are compared with
// reflect.DeepEqual.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case nil:
		return y == nil
	case int64:
		return x == y
	case string:
		return x == y
	case bool:
		return x == y
	case Pair:
		if y, ok := y.(Pair); ok {
			return Equal(x.First, y.First) && Equal(x.Second, y.Second)
		}
		return false
	case Equaler:
		return x.Equal(y)
	default:
		return reflect.DeepEqual(x, y)
	}
}

// EqualSlice returns whether two slices of values are equal element-wise.
func EqualSlice(xs, ys []any) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}
