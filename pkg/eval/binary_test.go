package eval

import (
	"math"
	"testing"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/eval/errs"
	"src.tarn.sh/pkg/eval/vals"
	"src.tarn.sh/pkg/tt"
)

func TestApplyBinary(t *testing.T) {
	pair := vals.Pair{First: int64(1), Second: "a"}
	tt.Test(t, tt.Fn("ApplyBinary", ApplyBinary), tt.Table{
		tt.Args(ast.Add, int64(1), int64(2)).Rets(int64(3), nil),
		tt.Args(ast.Add, int64(math.MaxInt64), int64(1)).Rets(int64(math.MinInt64), nil),
		tt.Args(ast.Add, int64(1), "a").Rets("1a", nil),
		tt.Args(ast.Add, pair, "!").Rets("(1, a)!", nil),
		tt.Args(ast.Add, nil, "!").Rets("nil!", nil),
		tt.Args(ast.Add, true, false).Rets(nil, errs.TypeMismatch{
			Op: "Add", Want: "int operands or a string operand", LHS: "bool", RHS: "bool"}),
		tt.Args(ast.Mul, int64(-3), int64(4)).Rets(int64(-12), nil),
		tt.Args(ast.Div, int64(9), int64(-2)).Rets(int64(-4), nil),
		tt.Args(ast.Mod, int64(9), int64(-2)).Rets(int64(1), nil),
		tt.Args(ast.Div, int64(math.MinInt64), int64(-1)).Rets(int64(math.MinInt64), nil),
		tt.Args(ast.Mod, int64(0), int64(0)).Rets(nil, errs.DivisionByZero{}),
		tt.Args(ast.Mul, "a", int64(2)).Rets(nil, errs.TypeMismatch{
			Op: "Mul", Want: "int operands", LHS: "string", RHS: "int"}),
		tt.Args(ast.Eq, pair, vals.Pair{First: int64(1), Second: "a"}).Rets(true, nil),
		tt.Args(ast.Neq, nil, nil).Rets(false, nil),
		tt.Args(ast.Lt, "abc", "abd").Rets(true, nil),
		tt.Args(ast.Gte, int64(3), int64(3)).Rets(true, nil),
		tt.Args(ast.Gt, int64(3), int64(3)).Rets(false, nil),
		tt.Args(ast.Lte, true, false).Rets(nil, errs.TypeMismatch{
			Op: "Lte", Want: "two ints or two strings", LHS: "bool", RHS: "bool"}),
		tt.Args(ast.And, int64(1), "x").Rets(true, nil),
		tt.Args(ast.Or, "", int64(0)).Rets(false, nil),
	})
}
