package eval

import (
	"cmp"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/eval/errs"
	"src.tarn.sh/pkg/eval/vals"
)

func (ev *Evaler) binary(n *ast.Binary, s Scope) (any, error) {
	lhs, err := ev.eval(n.LHS, s)
	if err != nil {
		return nil, err
	}
	rhs, err := ev.eval(n.RHS, s)
	if err != nil {
		return nil, err
	}
	v, err := ApplyBinary(n.Op, lhs, rhs)
	if err != nil {
		return nil, ev.errorAt(n, err)
	}
	return v, nil
}

// ApplyBinary applies a binary operator to two evaluated operands.
//
// Add adds integers, and concatenates the textual forms of its operands when
// either is a string. Sub, Mul, Div and Mod work on integers; Div and Mod
// truncate toward zero. Eq and Neq compare any values. Lt, Gt, Lte and Gte
// compare two integers or two strings. And and Or combine the truthiness of
// their operands.
func ApplyBinary(op ast.BinaryOp, lhs, rhs any) (any, error) {
	switch op {
	case ast.Add:
		if a, b, ok := ints(lhs, rhs); ok {
			return a + b, nil
		}
		if isString(lhs) || isString(rhs) {
			return vals.ToString(lhs) + vals.ToString(rhs), nil
		}
	case ast.Sub, ast.Mul, ast.Div, ast.Mod:
		a, b, ok := ints(lhs, rhs)
		if !ok {
			break
		}
		switch op {
		case ast.Sub:
			return a - b, nil
		case ast.Mul:
			return a * b, nil
		}
		if b == 0 {
			return nil, errs.DivisionByZero{}
		}
		if op == ast.Div {
			return a / b, nil
		}
		return a % b, nil
	case ast.Eq:
		return vals.Equal(lhs, rhs), nil
	case ast.Neq:
		return !vals.Equal(lhs, rhs), nil
	case ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		if a, b, ok := ints(lhs, rhs); ok {
			return compare(op, cmp.Compare(a, b)), nil
		}
		a, aok := lhs.(string)
		b, bok := rhs.(string)
		if aok && bok {
			return compare(op, cmp.Compare(a, b)), nil
		}
	case ast.And:
		return vals.Truthy(lhs) && vals.Truthy(rhs), nil
	case ast.Or:
		return vals.Truthy(lhs) || vals.Truthy(rhs), nil
	}
	return nil, errs.TypeMismatch{
		Op: op.String(), Want: wants(op), LHS: vals.Kind(lhs), RHS: vals.Kind(rhs)}
}

func ints(lhs, rhs any) (int64, int64, bool) {
	a, aok := lhs.(int64)
	b, bok := rhs.(int64)
	return a, b, aok && bok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func compare(op ast.BinaryOp, c int) bool {
	switch op {
	case ast.Lt:
		return c < 0
	case ast.Gt:
		return c > 0
	case ast.Lte:
		return c <= 0
	default:
		return c >= 0
	}
}

func wants(op ast.BinaryOp) string {
	switch op {
	case ast.Add:
		return "int operands or a string operand"
	case ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		return "two ints or two strings"
	default:
		return "int operands"
	}
}
