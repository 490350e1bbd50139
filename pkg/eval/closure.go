package eval

import (
	"fmt"
	"strings"

	"github.com/segmentio/fasthash/fnv1a"

	"src.tarn.sh/pkg/ast"
)

// FunctionID identifies a function by where it is defined. All closures
// created by evaluating the same Function node share a FunctionID.
type FunctionID struct {
	Filename string
	Start    int
	End      int
	// Names of the parameters, joined with ", ".
	Params string
}

// NewFunctionID returns the FunctionID of a Function node.
func NewFunctionID(fn *ast.Function) FunctionID {
	names := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		names[i] = p.Text
	}
	return FunctionID{fn.Filename, fn.Start, fn.End, strings.Join(names, ", ")}
}

// String returns a human-readable form of the FunctionID, like
// "fib.rinha:12-80 fn(n)". An empty Filename is shown as "[program]".
func (id FunctionID) String() string {
	name := id.Filename
	if name == "" {
		name = "[program]"
	}
	return fmt.Sprintf("%s:%d-%d fn(%s)", name, id.Start, id.End, id.Params)
}

// Hash64 returns a 64-bit hash of the FunctionID.
func (id FunctionID) Hash64() uint64 {
	h := fnv1a.AddString64(fnv1a.Init64, id.Filename)
	h = fnv1a.AddUint64(h, uint64(id.Start))
	h = fnv1a.AddUint64(h, uint64(id.End))
	return fnv1a.AddString64(h, id.Params)
}

// Closure is a function value, created by evaluating a Function node.
type Closure struct {
	ID     FunctionID
	Params []string
	Body   ast.Node
	// Scope at the point of definition.
	Captured Scope
}

// NewClosure creates a Closure from a Function node and the Scope it is
// evaluated in.
func NewClosure(fn *ast.Function, captured Scope) *Closure {
	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Text
	}
	return &Closure{NewFunctionID(fn), params, fn.Value, captured}
}

// Kind returns "closure".
func (*Closure) Kind() string { return "closure" }

// String returns "<#closure>".
func (*Closure) String() string { return "<#closure>" }

// Equal compares by FunctionID. Closures created from the same Function node
// are equal even if their captured scopes differ.
func (c *Closure) Equal(rhs any) bool {
	if rhs, ok := rhs.(*Closure); ok {
		return c.ID == rhs.ID
	}
	return false
}

// Hash64 returns the hash of the FunctionID.
func (c *Closure) Hash64() uint64 { return c.ID.Hash64() }
