package evaltest

import (
	"fmt"
	"strings"
	"sync/atomic"

	"src.tarn.sh/pkg/ast"
)

// Filename is the file name in the locations of Function nodes built by Fn.
const Filename = "[test]"

// Node constructors. All nodes they build have no location, except for
// Function nodes; see Fn.

func Int(i int64) *ast.Int     { return &ast.Int{Value: i, Location: ast.NoLocation} }
func Str(s string) *ast.Str    { return &ast.Str{Value: s, Location: ast.NoLocation} }
func Bool(b bool) *ast.Bool    { return &ast.Bool{Value: b, Location: ast.NoLocation} }
func Var(name string) *ast.Var { return &ast.Var{Text: name, Location: ast.NoLocation} }

func Print(v ast.Node) *ast.Print   { return &ast.Print{Value: v, Location: ast.NoLocation} }
func First(v ast.Node) *ast.First   { return &ast.First{Value: v, Location: ast.NoLocation} }
func Second(v ast.Node) *ast.Second { return &ast.Second{Value: v, Location: ast.NoLocation} }

func Tuple(first, second ast.Node) *ast.Tuple {
	return &ast.Tuple{First: first, Second: second, Location: ast.NoLocation}
}

func Bin(op ast.BinaryOp, lhs, rhs ast.Node) *ast.Binary {
	return &ast.Binary{Op: op, LHS: lhs, RHS: rhs, Location: ast.NoLocation}
}

func If(cond, then, otherwise ast.Node) *ast.If {
	return &ast.If{Condition: cond, Then: then, Otherwise: otherwise, Location: ast.NoLocation}
}

// Let builds a Let node. The next node may be nil.
func Let(name string, value, next ast.Node) *ast.Let {
	return &ast.Let{
		Name:  ast.Parameter{Text: name, Location: ast.NoLocation},
		Value: value, Next: next, Location: ast.NoLocation}
}

// Lets builds a chain of Let nodes from name-value pairs followed by the
// final node, like Lets("x", Int(1), "y", Int(2), Var("x")).
func Lets(args ...any) ast.Node {
	if len(args)%2 != 1 {
		panic("Lets needs name-value pairs followed by a node")
	}
	var next ast.Node
	if args[len(args)-1] != nil {
		next = args[len(args)-1].(ast.Node)
	}
	for i := len(args) - 3; i >= 0; i -= 2 {
		next = Let(args[i].(string), args[i+1].(ast.Node), next)
	}
	return next
}

func Call(callee ast.Node, args ...ast.Node) *ast.Call {
	return &ast.Call{Callee: callee, Arguments: args, Location: ast.NoLocation}
}

var nextFnOffset atomic.Int64

// Fn builds a Function node. Each call gets a distinct location in the file
// named by Filename, so that functions built by different calls have
// different identities.
func Fn(params []string, body ast.Node) *ast.Function {
	start := int(nextFnOffset.Add(2))
	ps := make([]ast.Parameter, len(params))
	for i, p := range params {
		ps[i] = ast.Parameter{Text: p, Location: ast.NoLocation}
	}
	return &ast.Function{Parameters: ps, Value: body,
		Location: ast.Location{Start: start, End: start + 1, Filename: Filename}}
}

func Unknown(kind string) *ast.Unknown {
	return &ast.Unknown{Kind: kind, Location: ast.NoLocation}
}

// Show renders a node as an S-expression, for use in test names.
func Show(n ast.Node) string {
	var sb strings.Builder
	show(&sb, n)
	return sb.String()
}

func show(sb *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("nil")
	case *ast.Int:
		fmt.Fprint(sb, n.Value)
	case *ast.Str:
		fmt.Fprintf(sb, "%q", n.Value)
	case *ast.Bool:
		fmt.Fprint(sb, n.Value)
	case *ast.Var:
		sb.WriteString(n.Text)
	case *ast.Binary:
		fmt.Fprintf(sb, "(%s ", n.Op.Symbol())
		show(sb, n.LHS)
		sb.WriteByte(' ')
		show(sb, n.RHS)
		sb.WriteByte(')')
	case *ast.Let:
		fmt.Fprintf(sb, "(let %s ", n.Name.Text)
		show(sb, n.Value)
		sb.WriteByte(' ')
		show(sb, n.Next)
		sb.WriteByte(')')
	case *ast.Function:
		sb.WriteString("(fn (")
		for i, p := range n.Parameters {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.Text)
		}
		sb.WriteString(") ")
		show(sb, n.Value)
		sb.WriteByte(')')
	case *ast.Unknown:
		fmt.Fprintf(sb, "(%s)", n.Kind)
	default:
		sb.WriteString("(" + strings.ToLower(ast.Kind(n)))
		for _, child := range ast.Children(n) {
			sb.WriteByte(' ')
			show(sb, child)
		}
		sb.WriteByte(')')
	}
}
