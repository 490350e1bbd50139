package eval

import (
	"github.com/segmentio/fasthash/fnv1a"

	"src.tarn.sh/pkg/persistent/hashmap"
)

// Scope maps names to values. It is immutable: Bind and WithFunction return
// new scopes sharing structure with the receiver, so capturing a Scope in a
// Closure is cheap and never observes later bindings.
//
// A Scope also carries an optional function marker, set in the scopes where
// function bodies are evaluated. Print uses it to find the function that is
// printing.
//
// The zero value is an empty Scope with no function marker.
type Scope struct {
	names hashmap.Map[any]
	fn    *FunctionID
}

func emptyNames() hashmap.Map[any] {
	return hashmap.New[any](fnv1a.HashString32)
}

// NewScope returns an empty Scope.
func NewScope() Scope {
	return Scope{names: emptyNames()}
}

// Lookup returns the value bound to name.
func (s Scope) Lookup(name string) (any, bool) {
	if s.names == nil {
		return nil, false
	}
	return s.names.Index(name)
}

// Bind returns a Scope with name bound to v.
func (s Scope) Bind(name string, v any) Scope {
	names := s.names
	if names == nil {
		names = emptyNames()
	}
	return Scope{names.Assoc(name, v), s.fn}
}

// WithFunction returns a Scope with the same bindings and the given function
// marker.
func (s Scope) WithFunction(id FunctionID) Scope {
	s.fn = &id
	return s
}

// Function returns the function marker of the Scope.
func (s Scope) Function() (FunctionID, bool) {
	if s.fn == nil {
		return FunctionID{}, false
	}
	return *s.fn, true
}

// Len returns the number of bound names.
func (s Scope) Len() int {
	if s.names == nil {
		return 0
	}
	return s.names.Len()
}
