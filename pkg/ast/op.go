package ast

// BinaryOp is the operator of a Binary node.
type BinaryOp int

// Binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
	And
	Or
)

var opNames = [...]string{
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Mod: "Mod",
	Eq: "Eq", Neq: "Neq", Lt: "Lt", Gt: "Gt", Lte: "Lte", Gte: "Gte",
	And: "And", Or: "Or",
}

var opSymbols = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	Eq: "==", Neq: "!=", Lt: "<", Gt: ">", Lte: "<=", Gte: ">=",
	And: "&&", Or: "||",
}

// String returns the name of the operator as used in tree documents.
func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "BinaryOp(?)"
	}
	return opNames[op]
}

// Symbol returns the conventional symbol of the operator.
func (op BinaryOp) Symbol() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[op]
}

// ParseBinaryOp parses the name of an operator.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, name := range opNames {
		if name == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}
