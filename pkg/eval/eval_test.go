package eval_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.tarn.sh/pkg/ast"
	. "src.tarn.sh/pkg/eval"
	"src.tarn.sh/pkg/eval/errs"
	. "src.tarn.sh/pkg/eval/evaltest"
	"src.tarn.sh/pkg/eval/memo"
	"src.tarn.sh/pkg/eval/vals"
)

func TestLiterals(t *testing.T) {
	Test(t,
		That(Int(42)).Returns(int64(42)),
		That(Str("foo")).Returns("foo"),
		That(Bool(false)).Returns(false),
		That(Tuple(Int(1), Str("a"))).Returns(vals.Pair{First: int64(1), Second: "a"}),
		That(&ast.File{Name: "a.rinha", Expression: Int(1)}).Returns(int64(1)),
	)
}

func TestPrint(t *testing.T) {
	fn := Fn(nil, Int(1))
	Test(t,
		That(Print(Int(1))).Prints("1\n").Returns(int64(1)),
		That(Print(Str("foo"))).Prints("foo\n"),
		That(Print(Bool(true))).Prints("true\n"),
		That(Print(Bool(false))).Prints("false\n"),
		That(Print(Bin(ast.Lt, Int(1), Int(2)))).Prints("true\n"),
		That(Print(fn)).Prints("<#closure>\n").Returns(ClosureOf(fn)),
		That(Print(Tuple(Int(1), Tuple(Str("a"), Bool(true))))).Prints("(1, (a, true))\n"),
		That(Print(Print(Int(1)))).Prints("1\n1\n"),
		That(Print(Let("x", Int(1), nil))).Prints("nil\n"),
		// Printing at the top level marks nothing impure.
		That(Print(Int(1))).Prints("1\n").Passes(func(t *testing.T, ev *Evaler) {
			if len(ev.Impure()) != 0 {
				t.Errorf("Impure() -> %v, want empty", ev.Impure())
			}
		}),
	)
}

func TestLet(t *testing.T) {
	Test(t,
		That(Let("x", Int(1), Var("x"))).Returns(int64(1)),
		That(Lets("x", Int(1), "x", Int(2), Var("x"))).Returns(int64(2)),
		That(Lets("x", Int(1), "y", Bin(ast.Add, Var("x"), Int(1)), Var("y"))).Returns(int64(2)),
		// A Let with nothing after it produces nil.
		That(Let("x", Int(1), nil)).Returns(nil),
		// "_" evaluates the value for its side effects and binds nothing.
		That(Let("_", Print(Int(1)), Int(2))).Prints("1\n").Returns(int64(2)),
		That(Let("_", Int(1), Var("_"))).Throws(errs.UnboundVariable{Name: "_"}),
	)
}

func TestVar(t *testing.T) {
	Test(t,
		That(Var("x")).Throws(errs.UnboundVariable{Name: "x"}),
		That(Let("y", Int(1), Var("x"))).Throws(
			ErrorWithMessage("unbound variable: x")),
	)
}

func TestIf(t *testing.T) {
	Test(t,
		That(If(Bool(true), Str("t"), Str("f"))).Returns("t"),
		That(If(Bool(false), Str("t"), Str("f"))).Returns("f"),
		That(If(Int(0), Str("t"), Str("f"))).Returns("f"),
		That(If(Int(2), Str("t"), Str("f"))).Returns("t"),
		That(If(Str(""), Str("t"), Str("f"))).Returns("f"),
		That(If(Str("false"), Str("t"), Str("f"))).Returns("t"),
		That(If(Tuple(Int(0), Int(0)), Str("t"), Str("f"))).Returns("t"),
		// Only one branch is evaluated.
		That(If(Bool(true), Int(1), Print(Str("no")))).Returns(int64(1)),
		That(If(Bool(false), Unknown("Loop"), Int(2))).Returns(int64(2)),
	)
}

func TestBinary(t *testing.T) {
	fn := Fn(nil, Int(1))
	Test(t,
		// Coercion to strings.
		That(Bin(ast.Add, Int(1), Int(2))).Returns(int64(3)),
		That(Bin(ast.Add, Int(1), Str("a"))).Returns("1a"),
		That(Bin(ast.Add, Str("a"), Int(1))).Returns("a1"),
		That(Bin(ast.Add, Str("a"), Str("b"))).Returns("ab"),
		That(Bin(ast.Add, Bool(true), Str("!"))).Returns("true!"),
		That(Bin(ast.Add, Tuple(Int(1), Str("x")), Str("!"))).Returns("(1, x)!"),
		That(Bin(ast.Add, fn, Str("!"))).Returns("<#closure>!"),
		That(Bin(ast.Add, Bool(true), Int(1))).Throws(
			errs.TypeMismatch{Op: "Add", Want: "int operands or a string operand", LHS: "bool", RHS: "int"}),

		That(Bin(ast.Sub, Int(1), Int(3))).Returns(int64(-2)),
		That(Bin(ast.Mul, Int(6), Int(7))).Returns(int64(42)),
		That(Bin(ast.Div, Int(7), Int(2))).Returns(int64(3)),
		That(Bin(ast.Div, Int(-7), Int(2))).Returns(int64(-3)),
		That(Bin(ast.Mod, Int(-7), Int(2))).Returns(int64(-1)),
		That(Bin(ast.Div, Int(1), Int(0))).Throws(errs.DivisionByZero{}),
		That(Bin(ast.Mod, Int(1), Int(0))).Throws(errs.DivisionByZero{}),
		That(Bin(ast.Sub, Str("a"), Int(1))).Throws(
			errs.TypeMismatch{Op: "Sub", Want: "int operands", LHS: "string", RHS: "int"}),

		That(Bin(ast.Eq, Int(1), Int(1))).Returns(true),
		That(Bin(ast.Eq, Int(1), Str("1"))).Returns(false),
		That(Bin(ast.Eq, Tuple(Int(1), Str("a")), Tuple(Int(1), Str("a")))).Returns(true),
		That(Bin(ast.Neq, Str("a"), Str("b"))).Returns(true),
		That(Bin(ast.Lt, Int(1), Int(2))).Returns(true),
		That(Bin(ast.Gt, Int(1), Int(2))).Returns(false),
		That(Bin(ast.Lte, Int(2), Int(2))).Returns(true),
		That(Bin(ast.Gte, Str("a"), Str("b"))).Returns(false),
		That(Bin(ast.Lt, Int(1), Str("2"))).Throws(ErrorWithType(errs.TypeMismatch{})),

		That(Bin(ast.And, Bool(true), Int(0))).Returns(false),
		That(Bin(ast.Or, Bool(false), Str("x"))).Returns(true),
		// Both operands are always evaluated, left first.
		That(Bin(ast.And, Bool(false), Print(Str("rhs")))).Prints("rhs\n").Returns(false),
		That(Bin(ast.Or, Print(Int(1)), Print(Int(2)))).Prints("1\n2\n").Returns(true),
	)
}

func TestTuple(t *testing.T) {
	Test(t,
		That(Tuple(Print(Int(1)), Print(Int(2)))).Prints("1\n2\n"),
		// Projections of Tuple nodes only evaluate the projected element.
		That(First(Tuple(Int(1), Print(Str("x"))))).Returns(int64(1)),
		That(Second(Tuple(Print(Str("x")), Int(2)))).Returns(int64(2)),
		// Projections of other nodes project the pair they evaluate to.
		That(Let("t", Tuple(Int(1), Str("a")), Second(Var("t")))).Returns("a"),
		That(First(First(Tuple(Tuple(Int(1), Int(2)), Int(3))))).Returns(int64(1)),
		That(First(Int(1))).Throws(
			errs.TypeMismatch{Op: "First", Want: "a pair", LHS: "int"}),
	)
}

func TestFunction(t *testing.T) {
	fn := Fn([]string{"x"}, Var("x"))
	Test(t,
		That(fn).Returns(ClosureOf(fn)),
		That(fn).Returns(Kind("closure")),
		// Defining a function has no side effect.
		That(Fn(nil, Print(Int(1)))).DoesNothing(),
		That(Call(fn, Int(1))).Returns(int64(1)),
		That(Call(Fn([]string{"a", "b"}, Bin(ast.Sub, Var("a"), Var("b"))), Int(3), Int(1))).
			Returns(int64(2)),
		// Extra arguments and parameters are left unmatched.
		That(Call(fn, Int(1), Int(2))).Returns(int64(1)),
		That(Call(Fn([]string{"a", "b"}, Var("b")), Int(1))).
			Throws(errs.UnboundVariable{Name: "b"}),
		// Arguments are evaluated left to right, after the callee.
		That(Call(Let("_", Print(Str("callee")), fn), Print(Int(1)), Print(Int(2)))).
			Prints("callee\n1\n2\n").Returns(int64(1)),
		That(Call(Int(1))).Throws(errs.NotCallable{Kind: "int"}),
		That(Call(Var("f"))).Throws(errs.UnboundVariable{Name: "f"}),
	)
}

func TestClosureCapture(t *testing.T) {
	Test(t,
		// Later bindings do not affect captured scopes.
		That(Lets(
			"x", Int(1),
			"f", Fn(nil, Var("x")),
			"x", Int(2),
			Call(Var("f")))).Returns(int64(1)),
		// Closures capture their definition scope, not the caller's.
		That(Lets(
			"k", Int(10),
			"add", Fn([]string{"n"}, Bin(ast.Add, Var("n"), Var("k"))),
			"f", Fn([]string{"k"}, Call(Var("add"), Var("k"))),
			Call(Var("f"), Int(1)))).Returns(int64(11)),
		// Closures returned from functions keep the arguments of the call.
		That(Lets(
			"adder", Fn([]string{"n"}, Fn([]string{"x"}, Bin(ast.Add, Var("x"), Var("n")))),
			"add2", Call(Var("adder"), Int(2)),
			Call(Var("add2"), Int(40)))).Returns(int64(42)),
		// The caller's bindings are not visible in the callee.
		That(Lets(
			"f", Fn(nil, Var("secret")),
			"secret", Int(1),
			Call(Var("f")))).Throws(errs.UnboundVariable{Name: "secret"}),
	)
}

func fib() *ast.Function {
	return Fn([]string{"n"},
		If(Bin(ast.Lt, Var("n"), Int(2)),
			Var("n"),
			Bin(ast.Add,
				Call(Var("fib"), Bin(ast.Sub, Var("n"), Int(1))),
				Call(Var("fib"), Bin(ast.Sub, Var("n"), Int(2))))))
}

func TestRecursion(t *testing.T) {
	Test(t,
		That(Let("fib", fib(), Call(Var("fib"), Int(10)))).Returns(int64(55)),
		That(Let("fib", fib(), Call(Var("fib"), Int(10)))).
			WithOptions(Options{NoMemo: true}).Returns(int64(55)),
		That(Let("fib", fib(), Call(Var("fib"), Int(90)))).Returns(int64(2880067194370816120)),
		// The name the function is called by shadows captured bindings, and
		// parameters shadow the name.
		That(Let("f", Fn([]string{"f"}, Var("f")), Call(Var("f"), Int(1)))).Returns(int64(1)),
	)
}

func TestMemoization(t *testing.T) {
	square := Fn([]string{"x"}, Bin(ast.Mul, Var("x"), Var("x")))
	program := Lets(
		"square", square,
		"a", Call(Var("square"), Int(3)),
		"b", Call(Var("square"), Int(3)),
		"c", Call(Var("square"), Int(4)),
		Tuple(Bin(ast.Add, Var("a"), Var("b")), Var("c")))
	want := vals.Pair{First: int64(18), Second: int64(16)}

	Test(t,
		That(program).Returns(want).Passes(func(t *testing.T, ev *Evaler) {
			// The second call with 3 does not evaluate the body.
			wantStats := memo.Stats{Hits: 1, Misses: 2, Entries: 2}
			if diff := cmp.Diff(wantStats, ev.MemoStats()); diff != "" {
				t.Errorf("MemoStats() (-want +got):\n%s", diff)
			}
		}),
		That(program).WithOptions(Options{NoMemo: true}).Returns(want).
			Passes(func(t *testing.T, ev *Evaler) {
				if ev.MemoStats() != (memo.Stats{}) {
					t.Errorf("MemoStats() -> %v with memoization disabled", ev.MemoStats())
				}
			}),
	)
}

func TestMemoization_ClosureArguments(t *testing.T) {
	// Closures in arguments are keyed by identity, regardless of what they
	// captured. With memoization, the second call to apply reuses the result
	// of the first.
	program := Lets(
		"mk", Fn([]string{"k"}, Fn([]string{"x"}, Bin(ast.Add, Var("x"), Var("k")))),
		"apply", Fn([]string{"f", "x"}, Call(Var("f"), Var("x"))),
		"a", Call(Var("mk"), Int(1)),
		"b", Call(Var("mk"), Int(100)),
		Tuple(Call(Var("apply"), Var("a"), Int(1)), Call(Var("apply"), Var("b"), Int(1))))
	Test(t,
		That(program).Returns(vals.Pair{First: int64(2), Second: int64(2)}),
		That(program).WithOptions(Options{NoMemo: true}).
			Returns(vals.Pair{First: int64(2), Second: int64(101)}),
	)
}

func TestMemoization_CapturedValues(t *testing.T) {
	// add2 and add3 come from the same Function node but captured different
	// values of n, so they must not share cached results.
	program := Lets(
		"adder", Fn([]string{"n"}, Fn([]string{"x"}, Bin(ast.Add, Var("x"), Var("n")))),
		"add2", Call(Var("adder"), Int(2)),
		"add3", Call(Var("adder"), Int(3)),
		Tuple(Call(Var("add2"), Int(1)), Call(Var("add3"), Int(1))))
	want := vals.Pair{First: int64(3), Second: int64(4)}

	Test(t,
		That(program).Returns(want).Passes(func(t *testing.T, ev *Evaler) {
			wantStats := memo.Stats{Hits: 0, Misses: 4, Entries: 4}
			if diff := cmp.Diff(wantStats, ev.MemoStats()); diff != "" {
				t.Errorf("MemoStats() (-want +got):\n%s", diff)
			}
		}),
		That(program).WithOptions(Options{NoMemo: true}).Returns(want),
		// Calls of one closure still share entries.
		That(Lets(
			"adder", Fn([]string{"n"}, Fn([]string{"x"}, Bin(ast.Add, Var("x"), Var("n")))),
			"add2", Call(Var("adder"), Int(2)),
			Tuple(Call(Var("add2"), Int(1)), Call(Var("add2"), Int(1))))).
			Returns(vals.Pair{First: int64(3), Second: int64(3)}).
			Passes(func(t *testing.T, ev *Evaler) {
				if got := ev.MemoStats().Hits; got != 1 {
					t.Errorf("MemoStats().Hits = %d, want 1", got)
				}
			}),
	)
}

func TestImpurity(t *testing.T) {
	printer := Fn([]string{"x"}, Print(Var("x")))
	caller := Fn([]string{"x"}, Call(Var("printer"), Var("x")))
	pure := Fn([]string{"x"}, Bin(ast.Add, Var("x"), Int(1)))

	wantImpure := func(fns ...*ast.Function) func(*testing.T, *Evaler) {
		return func(t *testing.T, ev *Evaler) {
			want := make([]FunctionID, len(fns))
			for i, fn := range fns {
				want[i] = NewFunctionID(fn)
			}
			if diff := cmp.Diff(want, ev.Impure(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Impure() (-want +got):\n%s", diff)
			}
		}
	}

	Test(t,
		// Impure functions are called every time.
		That(Lets(
			"printer", printer,
			"_", Call(Var("printer"), Int(1)),
			"_", Call(Var("printer"), Int(1)),
			nil)).Prints("1\n1\n").Passes(wantImpure(printer)),
		// So are functions calling them.
		That(Lets(
			"printer", printer,
			"caller", caller,
			"_", Call(Var("caller"), Int(1)),
			"_", Call(Var("caller"), Int(1)),
			nil)).Prints("1\n1\n").Passes(wantImpure(printer, caller)),
		// Pure functions are never marked.
		That(Lets(
			"pure", pure,
			"printer", printer,
			"_", Call(Var("pure"), Int(1)),
			"_", Call(Var("printer"), Call(Var("pure"), Int(1))),
			nil)).Prints("2\n").Passes(wantImpure(printer)),
		// Functions are only marked when a Print is reached.
		That(Lets(
			"maybe", Fn([]string{"p"}, If(Var("p"), Print(Str("yes")), Int(0))),
			"_", Call(Var("maybe"), Bool(false)),
			nil)).Passes(wantImpure()),
	)
}

func TestDeterminism(t *testing.T) {
	program := Lets(
		"fib", fib(),
		"pair", Tuple(Call(Var("fib"), Int(15)), Bin(ast.Add, Str("x"), Int(1))),
		Tuple(Var("pair"), Bin(ast.Eq, First(Var("pair")), Int(610))))

	var results []any
	for i := 0; i < 2; i++ {
		ev := NewEvaler(Options{NoMemo: true})
		ev.Stdout = &bytes.Buffer{}
		v, err := ev.Eval(program, NewScope())
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, v)
	}
	if !vals.Equal(results[0], results[1]) {
		t.Errorf("two evaluations give %v and %v", results[0], results[1])
	}
	want := vals.Pair{First: vals.Pair{First: int64(610), Second: "x1"}, Second: true}
	if !vals.Equal(results[0], want) {
		t.Errorf("got %v, want %v", results[0], want)
	}
}

func TestErrors(t *testing.T) {
	loop := Fn([]string{"n"}, Call(Var("loop"), Bin(ast.Add, Var("n"), Int(1))))
	Test(t,
		That(Unknown("Loop")).Throws(errs.UnknownNodeKind{Kind: "Loop"}),
		That(Tuple(Print(Int(1)), Unknown("Loop"))).Prints("1\n").
			Throws(errs.UnknownNodeKind{Kind: "Loop"}),
		That(Let("loop", loop, Call(Var("loop"), Int(0)))).
			WithOptions(Options{MaxDepth: 10}).
			Throws(errs.DepthExceeded{Max: 10}),
	)
}

func TestStackTrace(t *testing.T) {
	loc := func(start, end int) ast.Location { return ast.Location{Start: start, End: end, Filename: "s.rinha"} }
	fn := &ast.Function{
		Value:    &ast.Var{Text: "y", Location: loc(20, 21)},
		Location: loc(10, 22),
	}
	outer := &ast.Function{
		Value:    &ast.Call{Callee: Var("f"), Location: loc(40, 43)},
		Location: loc(30, 45),
	}
	Test(t,
		That(Let("f", fn, &ast.Call{Callee: Var("f"), Location: loc(0, 3)})).
			Throws(errs.UnboundVariable{Name: "y"}, "s.rinha:20-21", "s.rinha:0-3"),
		That(Lets("f", fn, "g", outer, &ast.Call{Callee: Var("g"), Location: loc(50, 53)})).
			Throws(errs.UnboundVariable{Name: "y"},
				"s.rinha:20-21", "s.rinha:40-43", "s.rinha:50-53"),
	)
}

func TestEvalProgram(t *testing.T) {
	p, err := ast.Decode("hello.json", []byte(`{
		"name": "hello.rinha",
		"expression": {"kind": "Print", "value": {"kind": "Binary", "op": "Add",
			"lhs": {"kind": "Str", "value": "hello "}, "rhs": {"kind": "Int", "value": 42}}},
		"location": {"start": 0, "end": 10, "filename": "hello.rinha"}
	}`), ast.JSON)
	if err != nil {
		t.Fatal(err)
	}
	ev := NewEvaler(Options{})
	var out bytes.Buffer
	ev.Stdout = &out
	v, err := ev.EvalProgram(p)
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello 42" || out.String() != "hello 42\n" {
		t.Errorf("got value %q and output %q", v, out.String())
	}
}
