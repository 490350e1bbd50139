package eval

// PuritySet records the functions found to be impure, that is, to have
// printed while their body was being evaluated. It only ever grows.
type PuritySet struct {
	set   map[FunctionID]struct{}
	order []FunctionID
}

// NewPuritySet creates an empty PuritySet.
func NewPuritySet() *PuritySet {
	return &PuritySet{set: make(map[FunctionID]struct{})}
}

// Mark marks a function as impure. It returns false if the function was
// already marked.
func (p *PuritySet) Mark(id FunctionID) bool {
	if _, ok := p.set[id]; ok {
		return false
	}
	p.set[id] = struct{}{}
	p.order = append(p.order, id)
	return true
}

// IsImpure returns whether a function has been marked.
func (p *PuritySet) IsImpure(id FunctionID) bool {
	_, ok := p.set[id]
	return ok
}

// Impure returns all marked functions, in the order they were marked.
func (p *PuritySet) Impure() []FunctionID {
	return append([]FunctionID(nil), p.order...)
}
