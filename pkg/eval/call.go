package eval

import (
	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/eval/errs"
	"src.tarn.sh/pkg/eval/vals"
	"src.tarn.sh/pkg/persistent/hashmap"
)

// callKey identifies a callee in the memoization cache: where the function is
// defined, and the bindings its closure captured. Closures created from the
// same Function node in different scopes get separate entries; all calls of
// one closure, including recursive ones, share them.
type callKey struct {
	id       FunctionID
	captured hashmap.Map[any]
}

func (k callKey) Hash64() uint64 { return k.id.Hash64() }

func (ev *Evaler) call(n *ast.Call, s Scope) (any, error) {
	calleeValue, err := ev.eval(n.Callee, s)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeValue.(*Closure)
	if !ok {
		return nil, ev.errorAt(n.Callee, errs.NotCallable{Kind: vals.Kind(calleeValue)})
	}

	args := make([]any, len(n.Arguments))
	for i, argNode := range n.Arguments {
		args[i], err = ev.eval(argNode, s)
		if err != nil {
			return nil, err
		}
	}

	callScope := fn.Captured
	// Rebind the name the function was called by, so that it can call itself
	// even if it was captured before the name was bound. Parameters shadow it.
	if v, ok := n.Callee.(*ast.Var); ok {
		callScope = callScope.Bind(v.Text, calleeValue)
	}
	for i, param := range fn.Params {
		if i >= len(args) {
			break
		}
		callScope = callScope.Bind(param, args[i])
	}
	callScope = callScope.WithFunction(fn.ID)

	key := callKey{fn.ID, fn.Captured.names}
	if ev.memo != nil && !ev.purity.IsImpure(fn.ID) {
		if v, ok := ev.memo.Get(key, args); ok {
			return v, nil
		}
	}

	if len(ev.active) >= ev.opts.MaxDepth {
		return nil, ev.errorAt(n, errs.DepthExceeded{Max: ev.opts.MaxDepth})
	}
	ev.active = append(ev.active, fn.ID)
	savedTraceback := ev.traceback
	ev.traceback = &StackTrace{Head: ev.context(n), Next: savedTraceback}

	v, err := ev.eval(fn.Body, callScope)

	ev.active = ev.active[:len(ev.active)-1]
	ev.traceback = savedTraceback
	if err != nil {
		return nil, err
	}

	if ev.memo != nil && !ev.purity.IsImpure(fn.ID) {
		ev.memo.Put(key, args, v)
	}
	return v, nil
}
