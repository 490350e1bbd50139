// Package errs declares types for errors that happen during evaluation.
package errs

import (
	"fmt"
	"strconv"
)

// UnknownNodeKind is returned when evaluation reaches a node whose kind is
// not known.
type UnknownNodeKind struct {
	Kind string
}

// Error implements the error interface.
func (e UnknownNodeKind) Error() string {
	return "unknown node kind: " + e.Kind
}

// UnboundVariable is returned when a variable is not bound in the scope.
type UnboundVariable struct {
	Name string
}

// Error implements the error interface.
func (e UnboundVariable) Error() string {
	return "unbound variable: " + e.Name
}

// TypeMismatch is returned when an operation is applied to values of the
// wrong kinds. Op names the operation, Want describes what it accepts, and
// LHS and RHS are the kinds it got. RHS is empty for operations with one
// operand.
type TypeMismatch struct {
	Op   string
	Want string
	LHS  string
	RHS  string
}

// Error implements the error interface.
func (e TypeMismatch) Error() string {
	if e.RHS == "" {
		return fmt.Sprintf("type mismatch: %s wants %s, got %s", e.Op, e.Want, e.LHS)
	}
	return fmt.Sprintf("type mismatch: %s wants %s, got %s and %s", e.Op, e.Want, e.LHS, e.RHS)
}

// NotCallable is returned when the callee of a call is not a function.
type NotCallable struct {
	Kind string
}

// Error implements the error interface.
func (e NotCallable) Error() string {
	return "not callable: value of kind " + e.Kind
}

// DivisionByZero is returned when dividing or taking the remainder by zero.
type DivisionByZero struct{}

// Error implements the error interface.
func (DivisionByZero) Error() string {
	return "division by zero"
}

// DepthExceeded is returned when calls nest deeper than allowed.
type DepthExceeded struct {
	Max int
}

// Error implements the error interface.
func (e DepthExceeded) Error() string {
	return "depth exceeded: calls nested more than " + strconv.Itoa(e.Max) + " levels deep"
}
