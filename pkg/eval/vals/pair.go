package vals

// Pair is the value built by a Tuple node.
type Pair struct {
	First  any
	Second any
}

// MakePair makes a Pair.
func MakePair(first, second any) Pair {
	return Pair{first, second}
}
