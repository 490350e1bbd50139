package evaltest

import (
	"fmt"
	"reflect"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/eval"
	"src.tarn.sh/pkg/eval/vals"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	if e2, ok := e2.(eval.Exception); ok {
		return matchErr(e.reason, e2.Reason()) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackTexts(e2.StackTrace())))
	}
	return false
}

func getStackTexts(tb *eval.StackTrace) []string {
	texts := []string{}
	for tb != nil {
		texts = append(texts, tb.Head.Position())
		tb = tb.Next
	}
	return texts
}

// ErrorWithType returns an error that can be passed to the Case.Throws to match
// any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

// ValueMatcher is a value that can be passed to Case.Returns and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(any) bool }

// AnyValue matches any value.
var AnyValue ValueMatcher = anyValue{}

type anyValue struct{}

func (anyValue) matchValue(any) bool { return true }

// Kind returns a ValueMatcher matching any value of the given kind.
func Kind(kind string) ValueMatcher { return kindMatcher{kind} }

type kindMatcher struct{ kind string }

func (m kindMatcher) matchValue(v any) bool { return vals.Kind(v) == m.kind }

// ClosureOf returns a ValueMatcher matching closures created from the given
// Function node.
func ClosureOf(fn *ast.Function) ValueMatcher { return closureMatcher{eval.NewFunctionID(fn)} }

type closureMatcher struct{ id eval.FunctionID }

func (m closureMatcher) matchValue(v any) bool {
	c, ok := v.(*eval.Closure)
	return ok && c.ID == m.id
}
