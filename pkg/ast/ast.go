// Package ast defines the syntax tree evaluated by tarn and converts it from
// its generic tree-of-records form.
//
// Node is a closed sum type: every implementation lives in this package, and
// evaluators switch over the concrete types. Records with a kind that is not
// known are kept as *Unknown, so that the failure to evaluate them happens
// only when (and if) evaluation reaches them.
package ast

import "src.tarn.sh/pkg/diag"

// Location is the position of a node in the original program text. Start and
// End are byte offsets; both are -1 when the position is unknown.
type Location struct {
	Start    int
	End      int
	Filename string
}

// NoLocation is the Location of nodes without position information.
var NoLocation = Location{-1, -1, ""}

// Loc returns the Location itself. Nodes embed Location to implement it.
func (l Location) Loc() Location { return l }

// Range returns the byte range of the location.
func (l Location) Range() diag.Ranging { return diag.Ranging{From: l.Start, To: l.End} }

// Node is a node of the syntax tree.
type Node interface {
	diag.Ranger
	Loc() Location
	node()
}

// Parameter is a name introduced by a Let or a Function.
type Parameter struct {
	Text string
	Location
}

// File wraps another node under an "expression" field. The document root is
// the usual File, with the name of the program; evaluating a File evaluates
// its Expression.
type File struct {
	Name       string
	Expression Node
	Location
}

// Let binds Name to Value, then evaluates Next. Next is nil when the Let ends
// a sequence.
type Let struct {
	Name  Parameter
	Value Node
	Next  Node
	Location
}

// Binary applies Op to LHS and RHS.
type Binary struct {
	Op  BinaryOp
	LHS Node
	RHS Node
	Location
}

// If evaluates Then or Otherwise, depending on Condition.
type If struct {
	Condition Node
	Then      Node
	Otherwise Node
	Location
}

// Var references a bound name.
type Var struct {
	Text string
	Location
}

// Str is a string literal.
type Str struct {
	Value string
	Location
}

// Int is an integer literal.
type Int struct {
	Value int64
	Location
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
	Location
}

// Tuple builds a pair.
type Tuple struct {
	First  Node
	Second Node
	Location
}

// First projects the first element of a pair.
type First struct {
	Value Node
	Location
}

// Second projects the second element of a pair.
type Second struct {
	Value Node
	Location
}

// Print writes Value to the standard output.
type Print struct {
	Value Node
	Location
}

// Function defines an anonymous function. Value is its body.
type Function struct {
	Parameters []Parameter
	Value      Node
	Location
}

// Call applies Callee to Arguments.
type Call struct {
	Callee    Node
	Arguments []Node
	Location
}

// Unknown is a record whose kind is not recognized.
type Unknown struct {
	Kind string
	Location
}

func (*File) node()     {}
func (*Let) node()      {}
func (*Binary) node()   {}
func (*If) node()       {}
func (*Var) node()      {}
func (*Str) node()      {}
func (*Int) node()      {}
func (*Bool) node()     {}
func (*Tuple) node()    {}
func (*First) node()    {}
func (*Second) node()   {}
func (*Print) node()    {}
func (*Function) node() {}
func (*Call) node()     {}
func (*Unknown) node()  {}

// Kind returns the kind tag of a node, as it appears in the tree document.
// File nodes have the kind "File".
func Kind(n Node) string {
	switch n := n.(type) {
	case *File:
		return "File"
	case *Let:
		return "Let"
	case *Binary:
		return "Binary"
	case *If:
		return "If"
	case *Var:
		return "Var"
	case *Str:
		return "Str"
	case *Int:
		return "Int"
	case *Bool:
		return "Bool"
	case *Tuple:
		return "Tuple"
	case *First:
		return "First"
	case *Second:
		return "Second"
	case *Print:
		return "Print"
	case *Function:
		return "Function"
	case *Call:
		return "Call"
	case *Unknown:
		return n.Kind
	default:
		return "?"
	}
}

// Children returns the direct children of a node, in evaluation order.
func Children(n Node) []Node {
	var children []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if n != nil {
				children = append(children, n)
			}
		}
	}
	switch n := n.(type) {
	case *File:
		add(n.Expression)
	case *Let:
		add(n.Value, n.Next)
	case *Binary:
		add(n.LHS, n.RHS)
	case *If:
		add(n.Condition, n.Then, n.Otherwise)
	case *Tuple:
		add(n.First, n.Second)
	case *First:
		add(n.Value)
	case *Second:
		add(n.Value)
	case *Print:
		add(n.Value)
	case *Function:
		add(n.Value)
	case *Call:
		add(n.Callee)
		add(n.Arguments...)
	}
	return children
}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children of a node are skipped when f returns false for it.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}
