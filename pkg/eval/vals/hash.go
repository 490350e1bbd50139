package vals

import "github.com/segmentio/fasthash/fnv1a"

// Hasher wraps the Hash64 method.
type Hasher interface {
	// Hash64 computes the 64-bit hash code of the receiver.
	Hash64() uint64
}

// Seeds that keep values of different kinds with the same representation,
// like 1 and "1", from sharing a hash.
const (
	seedNil uint64 = iota + 1
	seedInt
	seedString
	seedBool
	seedPair
)

// Hash returns the 64-bit FNV-1a hash of a value, consistent with Equal. It is
// implemented for nil, int64, string, bool, Pair, and types satisfying the
// Hasher interface. For other values, it returns 0 (which is OK in terms of
// correctness).
func Hash(v any) uint64 {
	return AddHash(fnv1a.Init64, v)
}

// AddHash adds the hash of v to the hash h.
func AddHash(h uint64, v any) uint64 {
	switch v := v.(type) {
	case nil:
		return fnv1a.AddUint64(h, seedNil)
	case int64:
		return fnv1a.AddUint64(fnv1a.AddUint64(h, seedInt), uint64(v))
	case string:
		return fnv1a.AddString64(fnv1a.AddUint64(h, seedString), v)
	case bool:
		var b uint64
		if v {
			b = 1
		}
		return fnv1a.AddUint64(fnv1a.AddUint64(h, seedBool), b)
	case Pair:
		h = fnv1a.AddUint64(h, seedPair)
		return AddHash(AddHash(h, v.First), v.Second)
	case Hasher:
		return fnv1a.AddUint64(h, v.Hash64())
	default:
		return h
	}
}
