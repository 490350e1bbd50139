// Package hashmap implements a persistent hash array mapped trie keyed by
// strings.
//
// A Map is immutable: Assoc returns a new Map that shares all unchanged nodes
// with the original, so taking a snapshot of a Map is just copying the value.
// Keys are never removed; scopes only ever grow or get shadowed.
package hashmap

const (
	chunkBits = 5
	nodeCap   = 1 << chunkBits
	chunkMask = nodeCap - 1
)

// Map is a persistent associative data structure mapping string keys to
// values of type V. All of its methods are safe for concurrent use.
type Map[V any] interface {
	// Len returns the length of the map.
	Len() int
	// Index returns the value associated with the given key, and whether
	// there was one.
	Index(k string) (V, bool)
	// Assoc returns an almost identical map, with the given key associated
	// with the given value.
	Assoc(k string, v V) Map[V]
}

// New returns an empty map that hashes its keys with the given function.
func New[V any](hashFunc func(string) uint32) Map[V] {
	return &hashMap[V]{0, &bitmapNode[V]{}, hashFunc}
}

type hashMap[V any] struct {
	count    int
	root     node[V]
	hashFunc func(string) uint32
}

func (m *hashMap[V]) Len() int {
	return m.count
}

func (m *hashMap[V]) Index(k string) (V, bool) {
	return m.root.find(0, m.hashFunc(k), k)
}

func (m *hashMap[V]) Assoc(k string, v V) Map[V] {
	newRoot, added := m.root.assoc(0, m.hashFunc(k), k, v, m.hashFunc)
	newCount := m.count
	if added {
		newCount++
	}
	return &hashMap[V]{newCount, newRoot, m.hashFunc}
}

// node is an interface for all nodes in the trie.
type node[V any] interface {
	// assoc adds a new pair of key and value. It returns the new node, and
	// whether the key did not exist before.
	assoc(shift, h uint32, k string, v V, hf func(string) uint32) (node[V], bool)
	// find finds the value for a key.
	find(shift, h uint32, k string) (V, bool)
}

// arrayNode stores all of its children in an array. A bitmapNode is unpacked
// into an arrayNode once it is half full.
type arrayNode[V any] struct {
	nChildren int
	children  [nodeCap]node[V]
}

func (n *arrayNode[V]) withNewChild(i uint32, newChild node[V], d int) *arrayNode[V] {
	newChildren := n.children
	newChildren[i] = newChild
	return &arrayNode[V]{n.nChildren + d, newChildren}
}

func (n *arrayNode[V]) assoc(shift, h uint32, k string, v V, hf func(string) uint32) (node[V], bool) {
	idx := chunk(shift, h)
	child := n.children[idx]
	if child == nil {
		newChild, _ := (&bitmapNode[V]{}).assoc(shift+chunkBits, h, k, v, hf)
		return n.withNewChild(idx, newChild, 1), true
	}
	newChild, added := child.assoc(shift+chunkBits, h, k, v, hf)
	return n.withNewChild(idx, newChild, 0), added
}

func (n *arrayNode[V]) find(shift, h uint32, k string) (V, bool) {
	child := n.children[chunk(shift, h)]
	if child == nil {
		var zero V
		return zero, false
	}
	return child.find(shift+chunkBits, h, k)
}

// entry is either a leaf (child == nil) holding a key and a value, or a
// pointer to a subtree.
type entry[V any] struct {
	key   string
	value V
	child node[V]
}

type bitmapNode[V any] struct {
	bitmap  uint32
	entries []entry[V]
}

func chunk(shift, h uint32) uint32 {
	return (h >> shift) & chunkMask
}

func bitpos(shift, h uint32) uint32 {
	return 1 << chunk(shift, h)
}

func index(bitmap, bit uint32) uint32 {
	return popCount(bitmap & (bit - 1))
}

const (
	m1  uint32 = 0x55555555
	m2         = 0x33333333
	m4         = 0x0f0f0f0f
	m8         = 0x00ff00ff
	m16        = 0x0000ffff
)

func popCount(u uint32) uint32 {
	u = (u & m1) + ((u >> 1) & m1)
	u = (u & m2) + ((u >> 2) & m2)
	u = (u & m4) + ((u >> 4) & m4)
	u = (u & m8) + ((u >> 8) & m8)
	u = (u & m16) + ((u >> 16) & m16)
	return u
}

func createNode[V any](shift uint32, k1 string, v1 V, h2 uint32, k2 string, v2 V, hf func(string) uint32) node[V] {
	h1 := hf(k1)
	if h1 == h2 {
		return &collisionNode[V]{h1, []entry[V]{{key: k1, value: v1}, {key: k2, value: v2}}}
	}
	n, _ := (&bitmapNode[V]{}).assoc(shift, h1, k1, v1, hf)
	n, _ = n.assoc(shift, h2, k2, v2, hf)
	return n
}

func (n *bitmapNode[V]) unpack(shift, idx uint32, newChild node[V], hf func(string) uint32) *arrayNode[V] {
	var newNode arrayNode[V]
	newNode.nChildren = len(n.entries) + 1
	newNode.children[idx] = newChild
	j := 0
	for i := uint(0); i < nodeCap; i++ {
		if (n.bitmap>>i)&1 != 0 {
			e := n.entries[j]
			j++
			if e.child != nil {
				newNode.children[i] = e.child
			} else {
				newNode.children[i], _ = (&bitmapNode[V]{}).assoc(
					shift+chunkBits, hf(e.key), e.key, e.value, hf)
			}
		}
	}
	return &newNode
}

func (n *bitmapNode[V]) withReplacedEntry(i uint32, e entry[V]) *bitmapNode[V] {
	newEntries := append([]entry[V](nil), n.entries...)
	newEntries[i] = e
	return &bitmapNode[V]{n.bitmap, newEntries}
}

func (n *bitmapNode[V]) assoc(shift, h uint32, k string, v V, hf func(string) uint32) (node[V], bool) {
	bit := bitpos(shift, h)
	idx := index(n.bitmap, bit)
	if n.bitmap&bit == 0 {
		// Entry does not exist yet
		if len(n.entries) >= nodeCap/2 {
			newNode, _ := (&bitmapNode[V]{}).assoc(shift+chunkBits, h, k, v, hf)
			return n.unpack(shift, chunk(shift, h), newNode, hf), true
		}
		newEntries := make([]entry[V], len(n.entries)+1)
		copy(newEntries[:idx], n.entries[:idx])
		newEntries[idx] = entry[V]{key: k, value: v}
		copy(newEntries[idx+1:], n.entries[idx:])
		return &bitmapNode[V]{n.bitmap | bit, newEntries}, true
	}
	e := n.entries[idx]
	if e.child != nil {
		newChild, added := e.child.assoc(shift+chunkBits, h, k, v, hf)
		return n.withReplacedEntry(idx, entry[V]{child: newChild}), added
	}
	if e.key == k {
		return n.withReplacedEntry(idx, entry[V]{key: k, value: v}), false
	}
	newNode := createNode(shift+chunkBits, e.key, e.value, h, k, v, hf)
	return n.withReplacedEntry(idx, entry[V]{child: newNode}), true
}

func (n *bitmapNode[V]) find(shift, h uint32, k string) (V, bool) {
	bit := bitpos(shift, h)
	if n.bitmap&bit == 0 {
		var zero V
		return zero, false
	}
	e := n.entries[index(n.bitmap, bit)]
	if e.child != nil {
		return e.child.find(shift+chunkBits, h, k)
	} else if e.key == k {
		return e.value, true
	}
	var zero V
	return zero, false
}

type collisionNode[V any] struct {
	hash    uint32
	entries []entry[V]
}

func (n *collisionNode[V]) assoc(shift, h uint32, k string, v V, hf func(string) uint32) (node[V], bool) {
	if h == n.hash {
		idx := n.findIndex(k)
		if idx != -1 {
			newEntries := append([]entry[V](nil), n.entries...)
			newEntries[idx] = entry[V]{key: k, value: v}
			return &collisionNode[V]{n.hash, newEntries}, false
		}
		newEntries := make([]entry[V], len(n.entries)+1)
		copy(newEntries, n.entries)
		newEntries[len(n.entries)] = entry[V]{key: k, value: v}
		return &collisionNode[V]{n.hash, newEntries}, true
	}
	// Wrap in a bitmapNode and add the entry
	wrap := bitmapNode[V]{bitpos(shift, n.hash), []entry[V]{{child: n}}}
	return wrap.assoc(shift, h, k, v, hf)
}

func (n *collisionNode[V]) find(shift, h uint32, k string) (V, bool) {
	idx := n.findIndex(k)
	if idx == -1 {
		var zero V
		return zero, false
	}
	return n.entries[idx].value, true
}

func (n *collisionNode[V]) findIndex(k string) int {
	for i, e := range n.entries {
		if e.key == k {
			return i
		}
	}
	return -1
}
