// Package eval evaluates syntax trees.
//
// An Evaler holds the state of one run: the functions found to be impure and
// the cache of function results. Evaluation is single-threaded and strictly
// depth-first; an Evaler must not be used from more than one goroutine.
package eval

import (
	"fmt"
	"io"
	"os"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/diag"
	"src.tarn.sh/pkg/eval/errs"
	"src.tarn.sh/pkg/eval/memo"
	"src.tarn.sh/pkg/eval/vals"
	"src.tarn.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[eval] ")

// DefaultMaxDepth is the default limit of nested calls.
const DefaultMaxDepth = 100000

// Options configures an Evaler.
type Options struct {
	// NoMemo disables the cache of function results.
	NoMemo bool
	// MaxDepth limits how deeply calls may nest. A value <= 0 means
	// DefaultMaxDepth.
	MaxDepth int
}

// Evaler is used to evaluate syntax trees.
type Evaler struct {
	// Stdout receives the output of Print.
	Stdout io.Writer

	opts   Options
	purity *PuritySet
	// nil when memoization is disabled.
	memo *memo.Cache[callKey]
	// Program text, used in the contexts of exceptions.
	source string

	// Functions whose bodies are being evaluated, innermost last.
	active []FunctionID
	// Call sites of the active functions, innermost first.
	traceback *StackTrace
}

// NewEvaler creates a new Evaler that prints to os.Stdout.
func NewEvaler(opts Options) *Evaler {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	ev := &Evaler{Stdout: os.Stdout, opts: opts, purity: NewPuritySet()}
	if !opts.NoMemo {
		ev.memo = memo.New[callKey]()
	}
	return ev
}

// Options returns the options of the Evaler.
func (ev *Evaler) Options() Options { return ev.opts }

// Impure returns the functions marked impure so far, in marking order.
func (ev *Evaler) Impure() []FunctionID { return ev.purity.Impure() }

// IsImpure returns whether a function has been marked impure.
func (ev *Evaler) IsImpure(id FunctionID) bool { return ev.purity.IsImpure(id) }

// MemoStats returns the counters of the cache of function results. They are
// all zero when memoization is disabled.
func (ev *Evaler) MemoStats() memo.Stats {
	if ev.memo == nil {
		return memo.Stats{}
	}
	return ev.memo.Stats()
}

// EvalProgram evaluates a loaded program in an empty scope.
func (ev *Evaler) EvalProgram(p *ast.Program) (any, error) {
	ev.source = p.Source
	logger.Printf("evaluating %s (digest %s), memoization %v",
		p.Path, p.Digest, ev.memo != nil)
	v, err := ev.Eval(p.Root, NewScope())
	stats := ev.MemoStats()
	logger.Printf("done; %d impure functions, memo hits %d misses %d entries %d",
		len(ev.purity.order), stats.Hits, stats.Misses, stats.Entries)
	return v, err
}

// Eval evaluates a node in a scope. Errors are always of type Exception.
func (ev *Evaler) Eval(n ast.Node, s Scope) (any, error) {
	return ev.eval(n, s)
}

func (ev *Evaler) eval(n ast.Node, s Scope) (any, error) {
	switch n := n.(type) {
	case *ast.File:
		return ev.eval(n.Expression, s)
	case *ast.Print:
		v, err := ev.eval(n.Value, s)
		if err != nil {
			return nil, err
		}
		if id, ok := s.Function(); ok {
			ev.markImpure(id)
		}
		if _, err := fmt.Fprintln(ev.Stdout, vals.ToString(v)); err != nil {
			return nil, ev.errorAt(n, err)
		}
		return v, nil
	case *ast.Let:
		v, err := ev.eval(n.Value, s)
		if err != nil {
			return nil, err
		}
		if n.Name.Text != "_" {
			s = s.Bind(n.Name.Text, v)
		}
		if n.Next == nil {
			return nil, nil
		}
		return ev.eval(n.Next, s)
	case *ast.Binary:
		return ev.binary(n, s)
	case *ast.If:
		cond, err := ev.eval(n.Condition, s)
		if err != nil {
			return nil, err
		}
		if vals.Truthy(cond) {
			return ev.eval(n.Then, s)
		}
		return ev.eval(n.Otherwise, s)
	case *ast.Var:
		v, ok := s.Lookup(n.Text)
		if !ok {
			return nil, ev.errorAt(n, errs.UnboundVariable{Name: n.Text})
		}
		return v, nil
	case *ast.Str:
		return n.Value, nil
	case *ast.Int:
		return n.Value, nil
	case *ast.Bool:
		return n.Value, nil
	case *ast.Tuple:
		first, err := ev.eval(n.First, s)
		if err != nil {
			return nil, err
		}
		second, err := ev.eval(n.Second, s)
		if err != nil {
			return nil, err
		}
		return vals.Pair{First: first, Second: second}, nil
	case *ast.First:
		if t, ok := n.Value.(*ast.Tuple); ok {
			return ev.eval(t.First, s)
		}
		p, err := ev.pair(n, n.Value, s)
		return p.First, err
	case *ast.Second:
		if t, ok := n.Value.(*ast.Tuple); ok {
			return ev.eval(t.Second, s)
		}
		p, err := ev.pair(n, n.Value, s)
		return p.Second, err
	case *ast.Function:
		return NewClosure(n, s), nil
	case *ast.Call:
		return ev.call(n, s)
	case *ast.Unknown:
		return nil, ev.errorAt(n, errs.UnknownNodeKind{Kind: n.Kind})
	default:
		return nil, ev.errorAt(n, errs.UnknownNodeKind{Kind: ast.Kind(n)})
	}
}

// Evaluates a node that must produce a pair, on behalf of a projection.
func (ev *Evaler) pair(proj, n ast.Node, s Scope) (vals.Pair, error) {
	v, err := ev.eval(n, s)
	if err != nil {
		return vals.Pair{}, err
	}
	p, ok := v.(vals.Pair)
	if !ok {
		return vals.Pair{}, ev.errorAt(proj,
			errs.TypeMismatch{Op: ast.Kind(proj), Want: "a pair", LHS: vals.Kind(v)})
	}
	return p, nil
}

// Marks the function printing, and all functions whose bodies are being
// evaluated, as impure. A caller of an impure function is impure too: a
// cached result would skip the output of the callee.
func (ev *Evaler) markImpure(id FunctionID) {
	if ev.purity.Mark(id) {
		logger.Printf("marked %s impure", id)
	}
	for _, active := range ev.active {
		if ev.purity.Mark(active) {
			logger.Printf("marked %s impure (calls %s)", active, id)
		}
	}
}

func (ev *Evaler) context(n ast.Node) *diag.Context {
	return ast.ContextOf(n, ev.source)
}

// Wraps a reason into an Exception located at n.
func (ev *Evaler) errorAt(n ast.Node, reason error) Exception {
	return NewException(reason, &StackTrace{Head: ev.context(n), Next: ev.traceback})
}
