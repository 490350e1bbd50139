// Package evaltest provides a framework for testing the evaluation of syntax
// trees.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it. Trees are most easily built with the
// node constructors in this package.
//
// Example:
//
//	Test(t,
//		That(Bin(ast.Add, Int(1), Str("a"))).Returns("1a"),
//		That(Print(Bool(true))).Prints("true\n"))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/eval"
	"src.tarn.sh/pkg/eval/vals"
)

// Case is a test case that can be used in Test.
type Case struct {
	name   string
	node   ast.Node
	opts   eval.Options
	setup  func(ev *eval.Evaler)
	verify func(t *testing.T, ev *eval.Evaler)
	want   result
}

type result struct {
	HasValue  bool
	Value     any
	BytesOut  []byte
	Exception error
}

// That returns a new Case that evaluates the given node in an empty scope.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that 1 + "a" evaluates to "1a" reads:
//
//	That(Bin(ast.Add, Int(1), Str("a"))).Returns("1a")
func That(n ast.Node) Case {
	return Case{node: n}
}

// Named returns an altered Case with the given name. By default, cases are
// named after a rendering of their node.
func (c Case) Named(name string) Case {
	c.name = name
	return c
}

// WithOptions returns an altered Case that is evaluated by an Evaler with
// the given options.
func (c Case) WithOptions(opts eval.Options) Case {
	c.opts = opts
	return c
}

// WithSetup returns an altered Case with the given setup function executed
// on the Evaler before the node is evaluated.
func (c Case) WithSetup(f func(*eval.Evaler)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any side effects, and whose value is not interesting.
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function after evaluation, with the Evaler used.
func (c Case) Passes(f func(t *testing.T, ev *eval.Evaler)) Case {
	c.verify = f
	return c
}

// Returns returns an altered Case that requires the node to evaluate to the
// given value. The value may be a ValueMatcher.
func (c Case) Returns(v any) Case {
	c.want.HasValue = true
	c.want.Value = v
	return c
}

// Prints returns an altered Case that requires the node to produce the
// specified output when evaluated.
func (c Case) Prints(s string) Case {
	c.want.BytesOut = []byte(s)
	return c
}

// Throws returns an altered Case that requires the evaluation to fail with an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithMessage.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given positions, frame by frame (innermost frame
// first). If no stacktrace string is given, the stack trace of the exception
// is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// Test runs test cases. For each test case, a new Evaler is created with
// NewEvaler.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Evaler) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Evaler is created
// with NewEvaler and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Evaler), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		name := tc.name
		if name == "" {
			name = Show(tc.node)
		}
		t.Run(name, func(t *testing.T) {
			t.Helper()
			ev := eval.NewEvaler(tc.opts)
			var stdout bytes.Buffer
			ev.Stdout = &stdout
			setup(ev)
			if tc.setup != nil {
				tc.setup(ev)
			}

			value, err := ev.Eval(tc.node, eval.NewScope())

			if tc.verify != nil {
				tc.verify(t, ev)
			}
			if tc.want.HasValue && err == nil && !match(value, tc.want.Value) {
				t.Errorf("got value (-want +got):\n%s",
					cmp.Diff(tc.want.Value, value, cmpOpts...))
			}
			if !bytes.Equal(tc.want.BytesOut, stdout.Bytes()) {
				t.Errorf("got bytes out %q, want %q", stdout.Bytes(), tc.want.BytesOut)
			}
			if !matchErr(tc.want.Exception, err) {
				t.Errorf("unexpected exception")
				if exc, ok := err.(eval.Exception); ok {
					// For an eval.Exception report the type of the underlying error.
					t.Logf("got: %T: %v", exc.Reason(), exc)
					t.Logf("stack trace: %#v", getStackTexts(exc.StackTrace()))
				} else {
					t.Logf("got: %T: %v", err, err)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

var cmpOpts = []cmp.Option{cmp.Exporter(func(reflect.Type) bool { return true })}

func match(got, want any) bool {
	if m, ok := want.(ValueMatcher); ok {
		return m.matchValue(got)
	}
	return vals.Equal(got, want)
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
