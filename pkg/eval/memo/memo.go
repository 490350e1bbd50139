// Package memo implements the cache of function results used by the
// evaluator.
//
// Entries are keyed by a function identity and a snapshot of the argument
// values. Lookups go through a 64-bit FNV-1a hash of both, and every candidate
// in a bucket is confirmed with vals.Equal, so hash collisions never produce
// wrong results.
package memo

import (
	"github.com/segmentio/fasthash/fnv1a"

	"src.tarn.sh/pkg/eval/vals"
)

// Identity is the constraint on the keys identifying functions.
type Identity interface {
	comparable
	Hash64() uint64
}

// Cache is a memoization cache. The zero value is not usable; use New.
type Cache[K Identity] struct {
	buckets map[uint64][]entry[K]
	entries int
	hits    int
	misses  int
}

type entry[K Identity] struct {
	id    K
	args  []any
	value any
}

// Stats are counters of a Cache.
type Stats struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Entries int `json:"entries"`
}

// New creates an empty Cache.
func New[K Identity]() *Cache[K] {
	return &Cache[K]{buckets: make(map[uint64][]entry[K])}
}

func key[K Identity](id K, args []any) uint64 {
	h := fnv1a.AddUint64(fnv1a.Init64, id.Hash64())
	h = fnv1a.AddUint64(h, uint64(len(args)))
	for _, arg := range args {
		h = vals.AddHash(h, arg)
	}
	return h
}

// Get looks up the result of calling the function identified by id with
// args.
func (c *Cache[K]) Get(id K, args []any) (any, bool) {
	for _, e := range c.buckets[key(id, args)] {
		if e.id == id && vals.EqualSlice(e.args, args) {
			c.hits++
			return e.value, true
		}
	}
	c.misses++
	return nil, false
}

// Put records the result of calling the function identified by id with args,
// replacing any previous result. The args slice is copied, so the caller may
// reuse it.
func (c *Cache[K]) Put(id K, args []any, value any) {
	k := key(id, args)
	bucket := c.buckets[k]
	for i, e := range bucket {
		if e.id == id && vals.EqualSlice(e.args, args) {
			bucket[i].value = value
			return
		}
	}
	c.buckets[k] = append(bucket, entry[K]{id, append([]any(nil), args...), value})
	c.entries++
}

// Len returns the number of entries.
func (c *Cache[K]) Len() int { return c.entries }

// Stats returns the counters of the cache.
func (c *Cache[K]) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: c.entries}
}
